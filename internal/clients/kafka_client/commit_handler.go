package kafka_client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type MessageCommitter interface {
	CommitMessage(m *kafka.Message) ([]kafka.TopicPartition, error)
}

type KafkaCommitHandler struct {
	consumer MessageCommitter
	ctx      context.Context
}

func NewCommitHandler(ctx context.Context, consumer MessageCommitter) *KafkaCommitHandler {
	return &KafkaCommitHandler{
		consumer: consumer,
		ctx:      ctx,
	}
}

func (ch *KafkaCommitHandler) Commit(msg *kafka.Message) error {
	if ch.consumer == nil {
		return errors.New("[KafkaCommitHandler] Kafka consumer has not been initialized")
	}

	for i := 0; i < MAX_RETRIES; i++ {
		select {
		case <-ch.ctx.Done():
			slog.Warn("[KafkaCommitHandler] Context canceled, stopping commit")
			return ch.ctx.Err()
		default:
		}

		_, err := ch.consumer.CommitMessage(msg)
		if err == nil {
			slog.Debug("[KafkaCommitHandler] Successfully committed offset",
				slog.Int("partition", int(msg.TopicPartition.Partition)),
				slog.String("offset", msg.TopicPartition.Offset.String()))
			return nil
		}
		slog.Warn("[KafkaCommitHandler] Failed to commit offset, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()),
			slog.Int("partition", int(msg.TopicPartition.Partition)),
			slog.String("offset", msg.TopicPartition.Offset.String()))

		var kafkaErr kafka.Error
		if errors.As(err, &kafkaErr) && kafkaErr.Code() == kafka.ErrAllBrokersDown {
			slog.Error("[KafkaCommitHandler] All Kafka brokers are down. Aborting commit")
			return err
		}

		time.Sleep(RETRY_DELAY)
	}

	return fmt.Errorf("[KafkaCommitHandler] Failed to commit message after %d retries", MAX_RETRIES)
}

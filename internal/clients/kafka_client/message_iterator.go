package kafka_client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// MessageReader is the part of *kafka.Consumer the iterator reads from.
type MessageReader interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
}

type KafkaMessageIterator struct {
	consumer MessageReader
	ctx      context.Context
}

func NewKafkaMessageIterator(ctx context.Context, consumer MessageReader) *KafkaMessageIterator {
	return &KafkaMessageIterator{
		consumer: consumer,
		ctx:      ctx,
	}
}

// Next blocks until a message arrives or the context is done. Poll timeouts
// are not failures; other read errors are retried up to MAX_RETRIES.
func (it *KafkaMessageIterator) Next() (*kafka.Message, error) {
	if it.consumer == nil {
		return nil, errors.New("[KafkaIterator] Kafka consumer has not been initialized")
	}

	failures := 0
	for {
		select {
		case <-it.ctx.Done():
			slog.Warn("[KafkaIterator] Context cancelled, stopping iterator")
			return nil, it.ctx.Err()
		default:
		}

		msg, err := it.consumer.ReadMessage(POLL_TIMEOUT)
		if err == nil {
			return msg, nil
		}

		var kafkaErr kafka.Error
		if errors.As(err, &kafkaErr) {
			if kafkaErr.Code() == kafka.ErrTimedOut {
				continue
			}
			if kafkaErr.Code() == kafka.ErrAllBrokersDown {
				slog.Error("[KafkaIterator] All Kafka brokers are down. Aborting")
				return nil, err
			}
		}

		failures++
		if failures >= MAX_RETRIES {
			return nil, errors.New("[KafkaIterator] Failed to read message after retries")
		}
		slog.Warn("[KafkaIterator] Failed to read message, retrying...",
			slog.Int("attempt", failures),
			slog.Int("max_retries", MAX_RETRIES),
			slog.String("error", err.Error()))

		select {
		case <-it.ctx.Done():
			return nil, it.ctx.Err()
		case <-time.After(RETRY_DELAY):
		}
	}
}

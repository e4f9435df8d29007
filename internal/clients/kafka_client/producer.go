package kafka_client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client/utils"
)

// MessageProducer is the part of *kafka.Producer used for publishing.
type MessageProducer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
}

func NewProducer(cfg config.KafkaConfig) (*kafka.Producer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...", slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(producerConfigMap(cfg))
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return p, nil
}

func CloseProducer(p *kafka.Producer) {
	if p == nil {
		return
	}
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := p.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}

// Publish serializes value as JSON and waits for its delivery report.
func Publish(ctx context.Context, producer MessageProducer, topic, key string, value any) error {
	data, err := utils.EncodeJSON(value)
	if err != nil {
		return err
	}

	deliveryChan := make(chan kafka.Event, 1)
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          data,
	}
	if err := producer.Produce(msg, deliveryChan); err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce message: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(DELIVERY_TIMEOUT):
		return fmt.Errorf("[KafkaClient] no delivery report after %s", DELIVERY_TIMEOUT)
	case ev := <-deliveryChan:
		delivered, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("[KafkaClient] unexpected delivery event: %v", ev)
		}
		if delivered.TopicPartition.Error != nil {
			return fmt.Errorf("[KafkaClient] delivery failed: %w", delivered.TopicPartition.Error)
		}
	}

	slog.Info("[KafkaClient] Published message",
		slog.String("topic", topic),
		slog.String("key", key))
	return nil
}

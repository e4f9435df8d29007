package db

import (
	"context"

	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client"
	"github.com/spacesedan/feedbackflow/internal/models"
)

// KafkaGateway publishes each record to the results topic, keyed by record ID.
type KafkaGateway struct {
	producer kafka_client.MessageProducer
	topic    string
}

func NewKafkaGateway(producer kafka_client.MessageProducer, topic string) *KafkaGateway {
	return &KafkaGateway{producer: producer, topic: topic}
}

func (g *KafkaGateway) Name() string { return "kafka" }

func (g *KafkaGateway) Save(ctx context.Context, record models.FeedbackRecord) error {
	if err := kafka_client.Publish(ctx, g.producer, g.topic, record.ID, record); err != nil {
		return &models.PersistenceError{Backend: g.Name(), Err: err}
	}
	return nil
}

package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/clients"
	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client"
)

// Open builds the gateways named in cfg.PersistenceBackends. The returned
// close function releases every underlying client.
func Open(ctx context.Context, cfg config.Config) (Gateway, func(), error) {
	var (
		gateways []Gateway
		closers  []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	for _, backend := range cfg.PersistenceBackends {
		switch backend {
		case "airtable":
			gateways = append(gateways, NewAirtableGateway(clients.NewAirtableClient(cfg.Airtable)))

		case "dynamodb":
			client, err := clients.NewDynamoDBClient(ctx, cfg.DynamoDB)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			gateways = append(gateways, NewDynamoDBGateway(client, cfg.DynamoDB.TableName))

		case "valkey":
			client, err := clients.NewValkeyClient(ctx, cfg.Valkey)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, client.Close)
			gateways = append(gateways, NewValkeyGateway(client))

		case "postgres":
			pool, err := clients.NewPostgresPool(ctx, cfg.Postgres)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, pool.Close)
			gateways = append(gateways, NewPostgresGateway(pool))

		case "kafka":
			producer, err := kafka_client.NewProducer(cfg.Kafka)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, func() { kafka_client.CloseProducer(producer) })
			gateways = append(gateways, NewKafkaGateway(producer, cfg.Kafka.ResultsTopic))

		default:
			closeAll()
			return nil, nil, fmt.Errorf("unknown persistence backend %q", backend)
		}
		slog.Info("[DB] Persistence backend enabled", slog.String("backend", backend))
	}

	if len(gateways) == 1 {
		return gateways[0], closeAll, nil
	}
	return NewFanout(gateways...), closeAll, nil
}

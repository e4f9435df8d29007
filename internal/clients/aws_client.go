package clients

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spacesedan/feedbackflow/config"
)

// NewDynamoDBClient loads the default AWS credential chain. A non-empty
// endpoint points the client at DynamoDB Local or another compatible service.
func NewDynamoDBClient(ctx context.Context, cfg config.DynamoDBConfig) (*dynamodb.Client, error) {
	slog.Info("[AWSClient] Initializing AWS Config...",
		slog.String("region", cfg.Region),
		slog.String("endpoint", cfg.Endpoint))

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("[AWSClient] failed to load AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

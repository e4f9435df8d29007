package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/feedbackflow/internal/models"
)

type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type DynamoDBGateway struct {
	client    PutItemAPI
	tableName string
}

func NewDynamoDBGateway(client PutItemAPI, tableName string) *DynamoDBGateway {
	return &DynamoDBGateway{client: client, tableName: tableName}
}

func (g *DynamoDBGateway) Name() string { return "dynamodb" }

func (g *DynamoDBGateway) Save(ctx context.Context, record models.FeedbackRecord) error {
	item, err := RecordToDynamoDBItem(record)
	if err != nil {
		return &models.PersistenceError{Backend: g.Name(), Err: err}
	}

	_, err = g.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(g.tableName),
		Item:      item,
	})
	if err != nil {
		return &models.PersistenceError{Backend: g.Name(), Err: fmt.Errorf("[DynamoDB] put item: %w", err)}
	}

	slog.Info("[DynamoDB] Stored feedback record",
		slog.String("table", g.tableName),
		slog.String("id", record.ID))
	return nil
}

func RecordToDynamoDBItem(record models.FeedbackRecord) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] marshal record: %w", err)
	}
	item["flagged_keywords_text"] = &types.AttributeValueMemberS{Value: record.FlaggedKeywordsField()}
	item["created_at_unix"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", record.CreatedAt.Unix())}
	return item, nil
}

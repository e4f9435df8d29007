package db

import (
	"context"

	"github.com/spacesedan/feedbackflow/internal/models"
)

type RecordCreator interface {
	CreateRecord(ctx context.Context, fields map[string]any) error
}

// AirtableGateway writes the five user-facing columns of a record.
type AirtableGateway struct {
	client RecordCreator
}

func NewAirtableGateway(client RecordCreator) *AirtableGateway {
	return &AirtableGateway{client: client}
}

func (g *AirtableGateway) Name() string { return "airtable" }

func (g *AirtableGateway) Save(ctx context.Context, record models.FeedbackRecord) error {
	return g.client.CreateRecord(ctx, AirtableFields(record))
}

func AirtableFields(record models.FeedbackRecord) map[string]any {
	return map[string]any{
		"Feedback":         record.Feedback,
		"Sentiment":        record.Sentiment,
		"Summary":          record.Summary,
		"Category":         record.Category,
		"Flagged Keywords": record.FlaggedKeywordsField(),
	}
}

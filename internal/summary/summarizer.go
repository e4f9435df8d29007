package summary

import (
	"context"

	"github.com/spacesedan/feedbackflow/internal/models"
)

type Summarizer interface {
	Summarize(ctx context.Context, feedback string) (string, error)
}

// SummaryGenerator is the slice of the Hugging Face client used here.
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, model, text string) (models.SummaryText, error)
}

// HuggingFace returns the model's summary verbatim: no truncation, no length cap.
type HuggingFace struct {
	client SummaryGenerator
	model  string
}

func NewHuggingFace(client SummaryGenerator, model string) *HuggingFace {
	return &HuggingFace{client: client, model: model}
}

func (s *HuggingFace) Summarize(ctx context.Context, feedback string) (string, error) {
	text, err := s.client.GenerateSummary(ctx, s.model, feedback)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

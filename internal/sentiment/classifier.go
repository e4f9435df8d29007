package sentiment

import (
	"context"
	"log/slog"

	"github.com/spacesedan/feedbackflow/internal/models"
)

// ScoreClassifier is the slice of the inference client the classifier needs.
type ScoreClassifier interface {
	ClassifyScores(ctx context.Context, model, text string) (models.ScoreList, error)
}

// Classifier maps a star-rating model's output to a three-way sentiment.
type Classifier struct {
	client ScoreClassifier
	model  string
}

func NewClassifier(client ScoreClassifier, model string) *Classifier {
	return &Classifier{client: client, model: model}
}

func (c *Classifier) Classify(ctx context.Context, feedback string) (models.SentimentOutcome, error) {
	scores, err := c.client.ClassifyScores(ctx, c.model, feedback)
	if err != nil {
		return models.SentimentOutcome{}, err
	}

	top, ok := scores.Top()
	if !ok {
		return models.SentimentOutcome{}, &models.MalformedResponseError{
			Operation: "sentiment analysis",
			Reason:    "empty score list",
		}
	}

	outcome := FromStarRating(top.Label, top.Score)
	slog.Debug("[SentimentClassifier] Classified feedback",
		slog.String("label", top.Label),
		slog.Float64("score", top.Score),
		slog.String("sentiment", string(outcome.Category)))
	return outcome, nil
}

// FromStarRating converts a "N stars" label and its score into an outcome.
func FromStarRating(label string, score float64) models.SentimentOutcome {
	var category models.SentimentCategory
	switch label {
	case "5 stars", "4 stars":
		category = models.SentimentPositive
	case "3 stars":
		category = models.SentimentNeutral
	default:
		category = models.SentimentNegative
	}

	return models.SentimentOutcome{
		Category:    category,
		Description: describe(category, score),
		Label:       label,
		Score:       score,
	}
}

func describe(category models.SentimentCategory, score float64) string {
	switch category {
	case models.SentimentPositive:
		if score > 0.8 {
			return "Highly Positive 😍"
		}
		return "Positive 😊"
	case models.SentimentNeutral:
		return "Neutral 😐"
	default:
		return "Negative 😞"
	}
}

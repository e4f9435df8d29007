// Package pipeline runs one piece of feedback through every classification
// step and hands the resulting record to the persistence gateway.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/feedbackflow/internal/db"
	"github.com/spacesedan/feedbackflow/internal/keywords"
	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spacesedan/feedbackflow/internal/sentiment"
	"github.com/spacesedan/feedbackflow/internal/summary"
)

type SentimentClassifier interface {
	Classify(ctx context.Context, feedback string) (models.SentimentOutcome, error)
}

type Result struct {
	Record    models.FeedbackRecord   `json:"record"`
	Sentiment models.SentimentOutcome `json:"sentiment"`
	Saved     bool                    `json:"saved"`
	SaveErr   error                   `json:"-"`
}

// Pipeline holds read-only collaborators and is safe for concurrent use.
type Pipeline struct {
	classifier SentimentClassifier
	summarizer summary.Summarizer
	lexicon    *keywords.Lexicon
	gateway    db.Gateway
	now        func() time.Time
}

// New builds a pipeline. A nil lexicon falls back to the default one and a
// nil gateway skips persistence.
func New(classifier SentimentClassifier, summarizer summary.Summarizer, lexicon *keywords.Lexicon, gateway db.Gateway) *Pipeline {
	if lexicon == nil {
		lexicon = keywords.DefaultLexicon()
	}
	return &Pipeline{
		classifier: classifier,
		summarizer: summarizer,
		lexicon:    lexicon,
		gateway:    gateway,
		now:        time.Now,
	}
}

// Run classifies feedback in order: sentiment, summary, category, flags,
// baseline polarity, then persistence. Inference failures abort the run
// unchanged. Persistence failures are reported on the Result only.
func (p *Pipeline) Run(ctx context.Context, feedback string) (Result, error) {
	if strings.TrimSpace(feedback) == "" {
		slog.Warn("[Pipeline] Rejected empty feedback")
		return Result{}, models.ErrEmptyFeedback
	}

	start := time.Now()

	outcome, err := p.classifier.Classify(ctx, feedback)
	if err != nil {
		slog.Error("[Pipeline] Sentiment analysis failed", slog.String("error", err.Error()))
		return Result{}, err
	}

	summaryText, err := p.summarizer.Summarize(ctx, feedback)
	if err != nil {
		slog.Error("[Pipeline] Summarization failed", slog.String("error", err.Error()))
		return Result{}, err
	}

	record := models.FeedbackRecord{
		ID:              uuid.NewString(),
		Feedback:        feedback,
		Sentiment:       outcome.Description,
		Summary:         summaryText,
		Category:        p.lexicon.Categorize(feedback),
		FlaggedKeywords: p.lexicon.FlagCritical(feedback),
		BaselineScore:   sentiment.Baseline(feedback),
		CreatedAt:       p.now().UTC(),
	}

	result := Result{Record: record, Sentiment: outcome}
	if p.gateway != nil {
		if err := p.gateway.Save(ctx, record); err != nil {
			result.SaveErr = db.AsPersistenceError(p.gateway.Name(), err)
			slog.Warn("[Pipeline] Failed to save feedback",
				slog.String("backend", p.gateway.Name()),
				slog.String("id", record.ID),
				slog.String("error", result.SaveErr.Error()))
		} else {
			result.Saved = true
		}
	}

	slog.Info("[Pipeline] Feedback analyzed",
		slog.String("id", record.ID),
		slog.String("sentiment", string(outcome.Category)),
		slog.String("category", record.Category),
		slog.Int("flagged", len(record.FlaggedKeywords)),
		slog.Bool("saved", result.Saved),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

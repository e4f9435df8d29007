package main

import (
	"context"
	"fmt"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/clients"
	"github.com/spacesedan/feedbackflow/internal/db"
	"github.com/spacesedan/feedbackflow/internal/keywords"
	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spacesedan/feedbackflow/internal/pipeline"
	"github.com/spacesedan/feedbackflow/internal/sentiment"
	"github.com/spacesedan/feedbackflow/internal/summary"
)

type app struct {
	pipeline    *pipeline.Pipeline
	huggingFace *clients.HuggingFaceClient
	recent      *db.ValkeyGateway
	close       func()
}

// newApp requires the Hugging Face key up front: sentiment always runs there.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	if cfg.HuggingFace.APIKey == "" {
		return nil, &models.ConfigurationError{Key: "HUGGING_FACE_API_KEY"}
	}
	hf := clients.NewHuggingFaceClient(cfg.HuggingFace)

	summarizer, err := newSummarizer(cfg, hf)
	if err != nil {
		return nil, err
	}

	lexicon, err := keywords.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		return nil, err
	}

	gateway, closeGateways, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &app{
		pipeline:    pipeline.New(sentiment.NewClassifier(hf, cfg.HuggingFace.SentimentModel), summarizer, lexicon, gateway),
		huggingFace: hf,
		recent:      db.FindValkey(gateway),
		close:       closeGateways,
	}, nil
}

func newSummarizer(cfg config.Config, hf *clients.HuggingFaceClient) (summary.Summarizer, error) {
	switch cfg.Summary.Provider {
	case "", "huggingface":
		return summary.NewHuggingFace(hf, cfg.HuggingFace.SummaryModel), nil
	case "openai":
		s, err := summary.NewOpenAI(cfg.Summary.OpenAIAPIKey, cfg.Summary.OpenAIModel)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown summary provider %q", cfg.Summary.Provider)
	}
}

// inferenceModels lists the Hugging Face models the health monitor probes.
func inferenceModels(cfg config.Config) []string {
	modelNames := []string{cfg.HuggingFace.SentimentModel}
	if cfg.Summary.Provider != "openai" {
		modelNames = append(modelNames, cfg.HuggingFace.SummaryModel)
	}
	return modelNames
}

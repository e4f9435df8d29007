// Package consumers reads feedback submissions from Kafka and runs each one
// through the analysis pipeline.
package consumers

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client"
	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client/utils"
	"github.com/spacesedan/feedbackflow/internal/pipeline"
)

const UNHEALTHY_BACKOFF = 5 * time.Second

type Analyzer interface {
	Run(ctx context.Context, feedback string) (pipeline.Result, error)
}

// Source is the part of *kafka.Consumer the feedback consumer uses.
type Source interface {
	kafka_client.MessageReader
	kafka_client.MessageCommitter
}

// FeedbackConsumer handles one message at a time and commits its offset once
// the message has been dealt with, whether or not analysis succeeded.
type FeedbackConsumer struct {
	analyzer Analyzer
	source   Source
	health   []*atomic.Bool
}

func NewFeedbackConsumer(analyzer Analyzer, source Source) *FeedbackConsumer {
	return &FeedbackConsumer{analyzer: analyzer, source: source}
}

// WithHealthCheck pauses consumption while healthy is false.
func (fc *FeedbackConsumer) WithHealthCheck(healthy *atomic.Bool) *FeedbackConsumer {
	fc.health = append(fc.health, healthy)
	return fc
}

func (fc *FeedbackConsumer) Start(ctx context.Context) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, fc.source)
	committer := kafka_client.NewCommitHandler(ctx, fc.source)

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[FeedbackConsumer] Consumer shutting down...")
			return
		default:
		}

		if !fc.healthy() {
			slog.Warn("[FeedbackConsumer] Inference unhealthy, pausing consumption",
				slog.Duration("backoff", UNHEALTHY_BACKOFF))
			select {
			case <-ctx.Done():
			case <-time.After(UNHEALTHY_BACKOFF):
			}
			continue
		}

		msg, err := iterator.Next()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			utils.LogConsumerError("FeedbackConsumer", err)
			continue
		}

		fc.handle(ctx, msg.Value)

		if err := committer.Commit(msg); err != nil {
			slog.Warn("[FeedbackConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}

func (fc *FeedbackConsumer) handle(ctx context.Context, value []byte) {
	feedback := utils.DecodeSubmission(value)
	if err := pipeline.ValidateSubmission(feedback); err != nil {
		slog.Warn("[FeedbackConsumer] Skipping invalid submission",
			slog.String("error", err.Error()))
		return
	}

	res, err := fc.analyzer.Run(ctx, feedback)
	if err != nil {
		slog.Error("[FeedbackConsumer] Analysis failed",
			slog.String("error", pipeline.FailureMessage(err)))
		return
	}

	slog.Info("[FeedbackConsumer] Submission processed",
		slog.String("id", res.Record.ID),
		slog.String("category", res.Record.Category),
		slog.Bool("saved", res.Saved))
}

func (fc *FeedbackConsumer) healthy() bool {
	for _, h := range fc.health {
		if !h.Load() {
			return false
		}
	}
	return true
}

// Package db holds the persistence gateways feedback records are written to.
// Writes are best effort: callers log failures and carry on.
package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spacesedan/feedbackflow/internal/models"
)

type Gateway interface {
	Name() string
	Save(ctx context.Context, record models.FeedbackRecord) error
}

// Fanout writes each record to every gateway in order. One gateway failing
// does not stop the others.
type Fanout struct {
	gateways []Gateway
}

func NewFanout(gateways ...Gateway) *Fanout {
	return &Fanout{gateways: gateways}
}

func (f *Fanout) Name() string { return "fanout" }

func (f *Fanout) Save(ctx context.Context, record models.FeedbackRecord) error {
	var errs []error
	for _, g := range f.gateways {
		start := time.Now()
		if err := g.Save(ctx, record); err != nil {
			errs = append(errs, AsPersistenceError(g.Name(), err))
			continue
		}
		slog.Debug("[Fanout] Saved record",
			slog.String("backend", g.Name()),
			slog.String("id", record.ID),
			slog.Duration("elapsed", time.Since(start)))
	}
	return errors.Join(errs...)
}

// AsPersistenceError tags err with backend unless it already is a *models.PersistenceError.
func AsPersistenceError(backend string, err error) error {
	var perr *models.PersistenceError
	if errors.As(err, &perr) {
		return err
	}
	return &models.PersistenceError{Backend: backend, Err: err}
}

package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_INTERVAL = 15 * time.Second

type HealthChecker interface {
	IsHealthy(ctx context.Context, model string) bool
}

// MonitorModelHealth probes each model every interval and stores whether all
// of them answered. It returns when ctx is done.
func MonitorModelHealth(ctx context.Context, checker HealthChecker, healthy *atomic.Bool, interval time.Duration, modelNames ...string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			healthy.Store(probe(ctx, checker, modelNames))
		}
	}
}

func probe(ctx context.Context, checker HealthChecker, modelNames []string) bool {
	for _, model := range modelNames {
		if !checker.IsHealthy(ctx, model) {
			slog.Warn("[HealthCheck] Model is unhealthy", slog.String("model", model))
			return false
		}
	}
	return true
}

package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/models"
)

func NewPostgresPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, &models.ConfigurationError{Key: "DATABASE_URL"}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(pingCtx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("[PostgresClient] failed to create pool: %w", err)
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("[PostgresClient] failed to ping PostgreSQL: %w", err)
	}

	slog.Info("[PostgresClient] Connected to PostgreSQL successfully")
	return pool, nil
}

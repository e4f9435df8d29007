package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spacesedan/feedbackflow/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

const insertFeedbackSQL = `
INSERT INTO feedback_results (id, feedback, sentiment, summary, category, flagged_keywords, baseline_score, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO NOTHING`

type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type PostgresGateway struct {
	db Execer
}

func NewPostgresGateway(db Execer) *PostgresGateway {
	return &PostgresGateway{db: db}
}

func (g *PostgresGateway) Name() string { return "postgres" }

func (g *PostgresGateway) Save(ctx context.Context, record models.FeedbackRecord) error {
	flagged := record.FlaggedKeywords
	if flagged == nil {
		flagged = []string{}
	}
	_, err := g.db.Exec(ctx, insertFeedbackSQL,
		record.ID,
		record.Feedback,
		record.Sentiment,
		record.Summary,
		record.Category,
		flagged,
		record.BaselineScore,
		record.CreatedAt,
	)
	if err != nil {
		return &models.PersistenceError{Backend: g.Name(), Err: fmt.Errorf("[DB] insert feedback: %w", err)}
	}
	return nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, dsn string) error {
	if dsn == "" {
		return &models.ConfigurationError{Key: "DATABASE_URL"}
	}
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations)
	goose.SetDialect("postgres")
	goose.SetTableName("schema_migrations")
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("[DB] migrate: %w", err)
	}
	slog.Info("[DB] Migrations applied")
	return nil
}

package main

import (
	"github.com/spacesedan/feedbackflow/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the Postgres schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return db.Migrate(cmd.Context(), cfg.Postgres.DSN)
	},
}

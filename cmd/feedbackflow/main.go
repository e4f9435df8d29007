package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/logging"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "feedbackflow",
	Short: "Classify user feedback by sentiment, summary, category and critical keywords",
	Long: `feedbackflow sends free-text feedback to hosted inference models for
sentiment and summarization, tags it with a keyword category and any critical
keywords, and stores the result in the configured persistence backends.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = bootstrap()
	},
}

// bootstrap loads the env file, then sets up logging before the config is
// parsed so warnings about invalid values go through the configured handler.
func bootstrap() config.Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger(os.Getenv("LOG_LEVEL"))
	return config.FromEnv()
}

func init() {
	rootCmd.AddCommand(analyzeCmd, serveCmd, consumeCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("[Main] Command failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

package main

import (
	"sync/atomic"

	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client"
	"github.com/spacesedan/feedbackflow/internal/consumers"
	"github.com/spacesedan/feedbackflow/internal/monitoring"
	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Analyze feedback submissions read from Kafka",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close()

		consumer, err := kafka_client.NewConsumer(cfg.Kafka, cfg.Kafka.IntakeTopic)
		if err != nil {
			return err
		}
		defer consumer.Close()

		healthy := &atomic.Bool{}
		healthy.Store(true)
		go monitoring.MonitorModelHealth(ctx, a.huggingFace, healthy, monitoring.HEALTHCHECK_INTERVAL, inferenceModels(cfg)...)

		consumers.NewFeedbackConsumer(a.pipeline, consumer).WithHealthCheck(healthy).Start(ctx)
		return nil
	},
}

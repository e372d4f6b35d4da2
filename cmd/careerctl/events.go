package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"careerlytics-backend/internal/events"
	"careerlytics-backend/internal/shared/config"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Work with the domain event queue",
	}

	var (
		url   string
		queue string
		limit int
	)
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print events from the queue as they arrive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if url == "" {
				url = cfg.RabbitMQURL
			}
			if queue == "" {
				queue = cfg.EventsQueue
			}
			if url == "" {
				return errors.New("--url or RABBITMQ_URL is required")
			}

			pub, err := events.DialAMQP(url, queue)
			if err != nil {
				return err
			}
			defer pub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			seen := 0
			slog.Info("tailing events", "queue", queue)
			return pub.Consume(ctx, func(evt events.Event) {
				if err := writeJSON(cmd, evt); err != nil {
					slog.Warn("write event", "error", err)
				}
				seen++
				if limit > 0 && seen >= limit {
					cancel()
				}
			})
		},
	}
	tail.Flags().StringVar(&url, "url", "", "AMQP URL (defaults to RABBITMQ_URL)")
	tail.Flags().StringVar(&queue, "queue", "", "Queue name (defaults to EVENTS_QUEUE)")
	tail.Flags().IntVarP(&limit, "limit", "n", 0, "Stop after n events; 0 tails until interrupted")

	cmd.AddCommand(tail)
	return cmd
}

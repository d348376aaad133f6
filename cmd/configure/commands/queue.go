package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/lifebots/assistant-api/internal/config"
	"github.com/lifebots/assistant-api/internal/queue"
	"github.com/spf13/cobra"
)

// NewQueueCmd creates the queue command with sweep and drain subcommands.
func NewQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Exercise the maintenance job queue",
		Long:  "Enqueue maintenance jobs directly, bypassing the server's scheduler.",
	}
	cmd.AddCommand(newQueueSweepCmd())
	cmd.AddCommand(newQueueDrainCmd())
	return cmd
}

func newQueueSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Enqueue a keyspace-wide health sweep job",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := openQueue()
			if err != nil {
				return err
			}
			defer func() { _ = q.Close() }()

			job := queue.NewJob(queue.JobTypeContextSweep, "")
			if err := q.Enqueue(context.Background(), job); err != nil {
				return fmt.Errorf("enqueue sweep: %w", err)
			}
			fmt.Printf("Sweep job enqueued: %s\n", job.ID)
			return nil
		},
	}
}

func newQueueDrainCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Enqueue a pending-action drain job for one user",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID = strings.TrimSpace(userID)
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			q, err := openQueue()
			if err != nil {
				return err
			}
			defer func() { _ = q.Close() }()

			job := queue.NewJob(queue.JobTypePendingAction, userID)
			if err := q.Enqueue(context.Background(), job); err != nil {
				return fmt.Errorf("enqueue drain: %w", err)
			}
			fmt.Printf("Pending-action job enqueued: %s\n", job.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID (required)")
	return cmd
}

func openQueue() (*queue.RabbitMQQueue, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is not configured")
	}
	q, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	return q, nil
}

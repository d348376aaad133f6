// Package workers holds the background job processors consumed from the
// maintenance queue.
package workers

import (
	"context"
	"fmt"

	logpkg "github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/mcp"
	"github.com/lifebots/assistant-api/internal/queue"
	"go.uber.org/zap"
)

// MaintenanceWorker processes context maintenance jobs: keyspace-wide health
// expiry sweeps and per-user pending-action draining.
type MaintenanceWorker struct {
	contexts *mcp.Service
	logger   *zap.Logger
}

// NewMaintenanceWorker creates a maintenance worker.
func NewMaintenanceWorker(contexts *mcp.Service, logger *zap.Logger) *MaintenanceWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceWorker{
		contexts: contexts,
		logger:   logger,
	}
}

// ProcessJob dispatches one job. Errors are returned so the consumer loop
// can decide between retry and dead-lettering.
func (w *MaintenanceWorker) ProcessJob(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeContextSweep:
		return w.processSweep(ctx, job)
	case queue.JobTypePendingAction:
		return w.processPendingActions(ctx, job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (w *MaintenanceWorker) processSweep(ctx context.Context, job *queue.Job) error {
	reset, err := w.contexts.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("context sweep failed: %w", err)
	}

	w.logger.Info("context_sweep_completed",
		zap.String("job_id", job.ID.String()),
		zap.Int("health_resets", reset),
	)
	return nil
}

func (w *MaintenanceWorker) processPendingActions(ctx context.Context, job *queue.Job) error {
	if job.UserID == "" {
		return fmt.Errorf("pending action job missing user id")
	}

	actions, err := w.contexts.TakePendingActions(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to drain pending actions: %w", err)
	}

	for _, action := range actions {
		w.logger.Info("processed_pending_action",
			zap.String("user_id", logpkg.SanitizeUserID(job.UserID)),
			zap.String("bot", action.Bot),
			zap.String("action", action.Action),
		)
	}

	w.logger.Debug("pending_actions_drained",
		zap.String("user_id", logpkg.SanitizeUserID(job.UserID)),
		zap.Int("count", len(actions)),
	)
	return nil
}

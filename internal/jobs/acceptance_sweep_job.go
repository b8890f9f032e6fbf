package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AcceptanceSweepJob periodically auto-accepts orders whose acceptance window
// elapsed without a manual confirmation.
type AcceptanceSweepJob struct {
	handler   commands.AutoAcceptOrdersCommandHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewAcceptanceSweepJob creates the sweep job. schedule is a six-field cron
// expression; batchSize caps the orders processed per run, zero uses the
// handler default.
func NewAcceptanceSweepJob(
	handler commands.AutoAcceptOrdersCommandHandler,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *AcceptanceSweepJob {
	return &AcceptanceSweepJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "acceptance_sweep_job"),
	}
}

// Start begins the acceptance sweep on its schedule.
func (j *AcceptanceSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, err := commands.NewAutoAcceptOrdersCommand(j.batchSize)
		if err != nil {
			j.logger.ErrorContext(ctx, "Acceptance sweep misconfigured", "error", err)
			return
		}

		accepted, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Acceptance sweep failed", "error", err)
			return
		}
		if accepted > 0 {
			j.logger.InfoContext(ctx, "Acceptance sweep completed", "accepted", accepted)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Acceptance sweep job started", "schedule", j.schedule)
	return nil
}

// Stop stops the sweep job.
func (j *AcceptanceSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Acceptance sweep job stopped")
}

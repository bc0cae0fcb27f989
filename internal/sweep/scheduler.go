package sweep

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs the detection sweep on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	logger zerolog.Logger
	ctx    context.Context
}

// NewScheduler creates a scheduler for the given runner.
func NewScheduler(ctx context.Context, runner *Runner, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		runner: runner,
		logger: logger,
		ctx:    ctx,
	}
}

// Register registers the sweep on the given cron expression (with seconds).
func (s *Scheduler) Register(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.runner.Run(s.ctx); err != nil {
			s.logger.Error().Err(err).Msg("Scheduled sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("register sweep schedule %q: %w", schedule, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("Sweep scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Sweep scheduler stopped")
}

package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/nativevault/nvm/internal/logger"
)

// CycleRunner runs one allocation cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// Scheduler runs allocation cycles on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	runner CycleRunner
	logger zerolog.Logger
	ctx    context.Context
}

// New creates a Scheduler driving the given runner. A panic inside a
// scheduled cycle is recovered and logged; it never takes the process
// down.
func New(ctx context.Context, runner CycleRunner) *Scheduler {
	log := logger.GetForComponent("scheduler")
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.PrintfLogger(&log))),
		),
		runner: runner,
		logger: log,
		ctx:    ctx,
	}
}

// Register schedules the allocation cycle with the given cron expression
// (six-field, seconds included).
func (s *Scheduler) Register(cycleCron string) error {
	if _, err := s.cron.AddFunc(cycleCron, s.cycleTask); err != nil {
		return fmt.Errorf("register cycle task: %w", err)
	}
	s.logger.Info().Str("schedule", cycleCron).Msg("Allocation cycle registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("Scheduler started")
}

// Stop stops the cron scheduler gracefully and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}

// RunNow executes one allocation cycle immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() error {
	return s.runner.RunCycle(s.ctx)
}

func (s *Scheduler) cycleTask() {
	if err := s.runner.RunCycle(s.ctx); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled allocation cycle failed")
	}
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"meridian/internal/pipeline/config"
	"meridian/internal/pipeline/dto"
	"meridian/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Runner executes one pipeline pass.
type Runner interface {
	Run(ctx context.Context) *dto.RunSummary
}

// Scheduler triggers pipeline runs on a fixed interval, plus one warm-up
// run shortly after startup so a fresh deployment has content before the
// first full interval elapses.
type Scheduler struct {
	cfg    *config.Config
	logger *logger.Logger
	runner Runner
	cron   *cron.Cron

	mu      sync.Mutex
	entryID cron.EntryID
	initial *time.Timer
}

// NewScheduler creates a new instance of Scheduler.
func NewScheduler(cfg *config.Config, log *logger.Logger, runner Runner) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		logger: log,
		runner: runner,
		cron:   cron.New(),
	}
}

// Start registers the recurring trigger and the warm-up run.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.Reschedule(time.Duration(s.cfg.Pipeline.IntervalMinutes) * time.Minute); err != nil {
		return err
	}
	s.cron.Start()

	s.mu.Lock()
	s.initial = time.AfterFunc(s.cfg.Pipeline.InitialDelay, func() {
		s.trigger(ctx)
	})
	s.mu.Unlock()

	s.logger.Info("Pipeline scheduler started",
		logger.IntField("interval_minutes", s.cfg.Pipeline.IntervalMinutes),
	)
	return nil
}

// Reschedule replaces the recurring trigger with a new interval. The
// previous entry is removed; there is never more than one.
func (s *Scheduler) Reschedule(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.trigger(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pipeline: %w", err)
	}
	s.entryID = entryID
	return nil
}

// Stop halts the recurring trigger and any pending warm-up run. A run
// already in flight finishes on its own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.initial != nil {
		s.initial.Stop()
	}
	s.mu.Unlock()

	s.cron.Stop()
	s.logger.Info("Pipeline scheduler stopped")
}

func (s *Scheduler) trigger(ctx context.Context) {
	summary := s.runner.Run(ctx)
	s.logger.Info("Scheduled pipeline run finished",
		logger.StringField("message", summary.Message),
		logger.IntField("stories_created", summary.StoriesCreated),
	)
}

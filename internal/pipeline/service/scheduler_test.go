package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"meridian/internal/pipeline/config"
	"meridian/internal/pipeline/dto"
	"meridian/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	runs atomic.Int32
}

func (r *countingRunner) Run(ctx context.Context) *dto.RunSummary {
	r.runs.Add(1)
	return &dto.RunSummary{Message: "ok"}
}

func schedulerConfig() *config.Config {
	return &config.Config{
		Pipeline: config.Pipeline{
			IntervalMinutes: 30,
			InitialDelay:    10 * time.Millisecond,
		},
	}
}

func TestScheduler_Start_TriggersWarmupRun(t *testing.T) {
	runner := &countingRunner{}
	scheduler := NewScheduler(schedulerConfig(), logger.NewNop(), runner)

	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()

	assert.Eventually(t, func() bool {
		return runner.runs.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_Reschedule_ReplacesEntry(t *testing.T) {
	runner := &countingRunner{}
	scheduler := NewScheduler(schedulerConfig(), logger.NewNop(), runner)

	require.NoError(t, scheduler.Reschedule(30*time.Minute))
	require.NoError(t, scheduler.Reschedule(10*time.Minute))
	require.NoError(t, scheduler.Reschedule(5*time.Minute))

	assert.Len(t, scheduler.cron.Entries(), 1)
}

func TestScheduler_Stop_CancelsWarmupRun(t *testing.T) {
	runner := &countingRunner{}
	cfg := schedulerConfig()
	cfg.Pipeline.InitialDelay = time.Hour
	scheduler := NewScheduler(cfg, logger.NewNop(), runner)

	require.NoError(t, scheduler.Start(context.Background()))
	scheduler.Stop()

	assert.Equal(t, int32(0), runner.runs.Load())
}

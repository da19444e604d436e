// Package scheduler runs the maintenance steps on intervals using gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/orris-inc/helpdesk/internal/shared/config"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// StepFunc runs one maintenance step. The returned error is logged.
type StepFunc func(ctx context.Context) error

// Intervals holds the parsed maintenance schedule. A zero interval disables the job.
type Intervals struct {
	Recurring   time.Duration
	Ingest      time.Duration
	UpdateCheck time.Duration
}

// ParseIntervals reads the maintenance section. Empty strings and "0" disable a job.
func ParseIntervals(cfg config.MaintenanceConfig) (Intervals, error) {
	var out Intervals
	for _, f := range []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"recurring_interval", cfg.RecurringInterval, &out.Recurring},
		{"ingest_interval", cfg.IngestInterval, &out.Ingest},
		{"update_check_interval", cfg.UpdateCheckInterval, &out.UpdateCheck},
	} {
		if f.value == "" || f.value == "0" {
			continue
		}
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return Intervals{}, fmt.Errorf("invalid maintenance.%s %q: %w", f.name, f.value, err)
		}
		if d < 0 {
			return Intervals{}, fmt.Errorf("maintenance.%s must not be negative", f.name)
		}
		*f.dst = d
	}
	return out, nil
}

// SchedulerManager owns the gocron scheduler for the worker process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}
	return &SchedulerManager{scheduler: scheduler, logger: log}, nil
}

// RegisterStep schedules fn every interval, starting immediately. Runs of the
// same step never overlap: a tick that arrives while it is running is rescheduled.
func (m *SchedulerManager) RegisterStep(name string, interval, timeout time.Duration, fn StepFunc) error {
	if interval <= 0 {
		m.logger.Infow("maintenance job disabled", "job", name)
		return nil
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.runStep(ctx, name, fn)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("maintenance", name),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to register %s job: %w", name, err)
	}

	m.logger.Infow("registered maintenance job", "job", name, "interval", interval.String())
	return nil
}

func (m *SchedulerManager) runStep(ctx context.Context, name string, fn StepFunc) {
	m.logger.Debugw("maintenance job started", "job", name)

	startTime := time.Now()
	if err := fn(ctx); err != nil {
		// Shutdown cancels the context; that is not a job failure.
		if ctx.Err() == context.Canceled {
			return
		}
		m.logger.Errorw("maintenance job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Debugw("maintenance job completed", "job", name, "duration", time.Since(startTime))
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}

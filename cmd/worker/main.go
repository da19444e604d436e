package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orris-inc/helpdesk/internal/application/maintenance/usecases"
	"github.com/orris-inc/helpdesk/internal/infrastructure/scheduler"
	"github.com/orris-inc/helpdesk/internal/interfaces/cli/cliutil"
	"github.com/orris-inc/helpdesk/internal/shared/constants"
)

// stepTimeout caps a single run; shorter intervals cap it further.
const stepTimeout = 10 * time.Minute

func main() {
	// Parse environment from command line or env variable
	flags := &cliutil.GlobalFlags{Env: constants.EnvDevelopment}
	if len(os.Args) > 1 {
		flags.Env = os.Args[1]
	}

	env, err := cliutil.Bootstrap(flags, cliutil.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start worker: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	log := env.Log
	log.Infow("starting maintenance worker", "environment", env.Name)

	intervals, err := scheduler.ParseIntervals(env.Cfg.Maintenance)
	if err != nil {
		log.Fatalw("invalid maintenance configuration", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := env.Container(ctx)
	if err != nil {
		log.Fatalw("failed to build container", "error", err)
	}
	defer container.Shutdown()

	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		log.Fatalw("failed to create scheduler", "error", err)
	}

	maintenance := container.RunMaintenanceUseCase()
	debugLog := container.DebugLog()

	for _, job := range []struct {
		name     string
		interval time.Duration
	}{
		{usecases.StepRecurring, intervals.Recurring},
		{usecases.StepEmailIngest, intervals.Ingest},
		{usecases.StepUpdateCheck, intervals.UpdateCheck},
	} {
		name := job.name
		if !maintenance.HasStep(name) {
			log.Infow("maintenance step not configured, skipping", "job", name)
			continue
		}
		err := manager.RegisterStep(name, job.interval, stepTimeout, func(ctx context.Context) error {
			return cliutil.Track(ctx, debugLog, "worker."+name, nil, func() (map[string]any, error) {
				step := maintenance.RunStep(ctx, name)
				if !step.Success {
					return nil, errors.New(step.Error)
				}
				return map[string]any{"duration_ms": step.DurationMS}, nil
			})
		})
		if err != nil {
			log.Fatalw("failed to register maintenance job", "job", name, "error", err)
		}
	}

	manager.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Infow("received signal, shutting down", "signal", sig)
	cancel()
	if err := manager.Stop(); err != nil {
		log.Errorw("scheduler stopped with error", "error", err)
	}
	log.Infow("maintenance worker stopped")
}

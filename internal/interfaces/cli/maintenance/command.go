// Package maintenance implements the run-maintenance command.
package maintenance

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/orris-inc/helpdesk/internal/application/maintenance/usecases"
	"github.com/orris-inc/helpdesk/internal/domain/debuglog"
	"github.com/orris-inc/helpdesk/internal/interfaces/cli/cliutil"
)

const channel = "cli.run-maintenance"

type Runner interface {
	Execute(ctx context.Context) *usecases.MaintenanceResult
}

func NewCommand(flags *cliutil.GlobalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run-maintenance",
		Short: "Run recurring tickets, email ingest and the update check once",
		Long: `Run every maintenance step in order: recurring ticket generation, email
ingest, then the release update check. A failing step does not stop the
others. Exits with status 2 when any step failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cliutil.Bootstrap(flags, cliutil.Options{LogToStderr: asJSON})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			container, err := env.Container(ctx)
			if err != nil {
				return err
			}
			defer container.Shutdown()

			return execute(ctx, cmd.OutOrStdout(), container.RunMaintenanceUseCase(), container.DebugLog(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the step results as JSON")

	return cmd
}

func execute(ctx context.Context, out io.Writer, runner Runner, w debuglog.Writer, asJSON bool) error {
	var result *usecases.MaintenanceResult
	err := cliutil.Track(ctx, w, channel, nil, func() (map[string]any, error) {
		result = runner.Execute(ctx)
		if result.Failed() {
			return nil, failedSteps(result)
		}
		return map[string]any{"steps": len(result.Steps)}, nil
	})

	if asJSON {
		if perr := cliutil.PrintJSON(out, result); perr != nil {
			return perr
		}
	} else {
		printSummary(out, result)
	}

	if err != nil {
		return cliutil.Fail(err)
	}
	return nil
}

func failedSteps(r *usecases.MaintenanceResult) error {
	var names []string
	for _, s := range r.Steps {
		if !s.Success {
			names = append(names, s.Name)
		}
	}
	return fmt.Errorf("maintenance steps failed: %v", names)
}

func printSummary(out io.Writer, r *usecases.MaintenanceResult) {
	for _, s := range r.Steps {
		status := "ok"
		if !s.Success {
			status = "FAILED: " + s.Error
		}
		fmt.Fprintf(out, "%-16s %6dms  %s\n", s.Name, s.DurationMS, status)
	}
}

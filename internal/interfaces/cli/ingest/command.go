// Package ingest implements the ingest-emails command.
package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/orris-inc/helpdesk/internal/application/mailingest/usecases"
	"github.com/orris-inc/helpdesk/internal/domain/debuglog"
	"github.com/orris-inc/helpdesk/internal/domain/mailingest"
	"github.com/orris-inc/helpdesk/internal/interfaces/cli/cliutil"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

const channel = "cli.ingest-emails"

type Runner interface {
	Execute(ctx context.Context, cmd usecases.RunIngestCommand) (*mailingest.RunResult, error)
}

type options struct {
	Limit  int  `json:"limit" validate:"gte=0,lte=500"`
	DryRun bool `json:"dry_run"`
	JSON   bool `json:"json"`
}

func NewCommand(flags *cliutil.GlobalFlags) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "ingest-emails",
		Short: "Fetch unread support mail and turn it into tickets and comments",
		Long: `Connect to the configured IMAP mailbox, convert unread messages into tickets
or comments, and move each message to the processed or failed folder.
Exits with status 2 when the run itself fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.ValidateStruct(opts); err != nil {
				return err
			}

			env, err := cliutil.Bootstrap(flags, cliutil.Options{LogToStderr: opts.JSON})
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

			return execute(ctx, cmd.OutOrStdout(), container.RunIngestUseCase(), container.DebugLog(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of messages to fetch (default: imap.batch_limit)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Parse and report without writing tickets or moving mail")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the run result as JSON")

	return cmd
}

func execute(ctx context.Context, out io.Writer, runner Runner, w debuglog.Writer, opts options) error {
	fields := map[string]any{"limit": opts.Limit, "dry_run": opts.DryRun}

	var result *mailingest.RunResult
	err := cliutil.Track(ctx, w, channel, fields, func() (map[string]any, error) {
		var err error
		result, err = runner.Execute(ctx, usecases.RunIngestCommand{Limit: opts.Limit, DryRun: opts.DryRun})
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"checked":   result.Checked,
			"processed": result.Processed,
			"skipped":   result.Skipped,
			"failed":    result.Failed,
		}, nil
	})
	if err != nil {
		if opts.JSON {
			_ = cliutil.PrintJSON(out, map[string]any{"success": false, "error": err.Error()})
		}
		return cliutil.Fail(err)
	}

	if opts.JSON {
		return cliutil.PrintJSON(out, result)
	}
	printSummary(out, result)
	return nil
}

func printSummary(out io.Writer, r *mailingest.RunResult) {
	if r.Disabled {
		fmt.Fprintln(out, "Email ingest is disabled: imap host, username and password must be set.")
		return
	}
	prefix := ""
	if r.DryRun {
		prefix = "[dry-run] "
	}
	fmt.Fprintf(out, "%sChecked %d, processed %d, skipped %d, failed %d\n",
		prefix, r.Checked, r.Processed, r.Skipped, r.Failed)
	for _, d := range r.Details {
		line := fmt.Sprintf("  uid=%d %s", d.UID, d.Status)
		if d.Action != "" {
			line += " " + string(d.Action)
		}
		if d.TicketID != nil {
			line += fmt.Sprintf(" ticket=%d", *d.TicketID)
		}
		if d.Reason != "" {
			line += " reason=" + d.Reason
		}
		if d.Error != "" {
			line += " error=" + d.Error
		}
		fmt.Fprintln(out, line)
	}
}

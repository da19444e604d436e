package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/helpdesk/internal/interfaces/cli/cliutil"
	"github.com/orris-inc/helpdesk/internal/interfaces/cli/ingest"
	"github.com/orris-inc/helpdesk/internal/interfaces/cli/maintenance"
	"github.com/orris-inc/helpdesk/internal/interfaces/cli/migrate"
	"github.com/orris-inc/helpdesk/internal/interfaces/cli/server"
	"github.com/orris-inc/helpdesk/internal/interfaces/cli/token"
	"github.com/orris-inc/helpdesk/internal/shared/version"
)

func main() {
	flags := &cliutil.GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:           "helpdesk",
		Short:         "Helpdesk - tickets, time tracking and email ingest",
		Long:          `Helpdesk serves the ticket API and runs the migration, ingest and maintenance jobs.`,
		Version:       version.Current(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.Register(rootCmd)

	rootCmd.AddCommand(
		server.NewCommand(flags),
		migrate.NewCommand(flags),
		ingest.NewCommand(flags),
		maintenance.NewCommand(flags),
		token.NewCommand(flags),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cliutil.ExitCode(err))
	}
}

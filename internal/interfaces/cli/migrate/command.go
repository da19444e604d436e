package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orris-inc/helpdesk/internal/infrastructure/migration"
	"github.com/orris-inc/helpdesk/internal/interfaces/cli/cliutil"
)

var (
	strategyName string
	name         string
	steps        int
)

func NewCommand(flags *cliutil.GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVar(&strategyName, "strategy", "",
		"Migration strategy: goose, golang-migrate or automigrate (default: goose, automigrate in development or on non-mysql drivers)")

	cmd.AddCommand(
		newUpCommand(flags),
		newDownCommand(flags),
		newStatusCommand(flags),
		newCreateCommand(flags),
	)

	return cmd
}

func newUpCommand(flags *cliutil.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(flags)
		},
	}
}

func newDownCommand(flags *cliutil.GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDown(flags)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand(flags *cliutil.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, flags)
		},
	}
}

func newCreateCommand(flags *cliutil.GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new goose SQL migration under ` + migration.DefaultCreatePath + `.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initManager(flags *cliutil.GlobalFlags) (*cliutil.Env, *migration.Manager, error) {
	env, err := cliutil.Bootstrap(flags, cliutil.Options{})
	if err != nil {
		return nil, nil, err
	}

	manager, err := migration.NewManager(env.Name, env.Cfg.Database.Driver, strategyName, env.Log)
	if err != nil {
		env.Close()
		return nil, nil, err
	}
	return env, manager, nil
}

func runUp(flags *cliutil.GlobalFlags) error {
	env, manager, err := initManager(flags)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Log.Infow("running up migrations", "environment", env.Name, "strategy", manager.GetStrategy().GetName())

	return manager.Migrate(env.DB)
}

func runDown(flags *cliutil.GlobalFlags) error {
	env, manager, err := initManager(flags)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Log.Infow("running down migrations", "environment", env.Name, "steps", steps)

	switch s := manager.GetStrategy().(type) {
	case *migration.GooseStrategy:
		err = s.MigrateDown(env.DB, steps)
	case *migration.GolangMigrateStrategy:
		err = s.MigrateDown(env.DB, steps)
	default:
		return fmt.Errorf("down migration is not supported with %s strategy", s.GetName())
	}
	if err != nil {
		env.Log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	env.Log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, flags *cliutil.GlobalFlags) error {
	env, manager, err := initManager(flags)
	if err != nil {
		return err
	}
	defer env.Close()

	gooseStrategy, ok := manager.GetStrategy().(*migration.GooseStrategy)
	if !ok {
		return fmt.Errorf("status check is only supported with goose strategy")
	}

	version, err := gooseStrategy.GetVersion(env.DB)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env.Name)
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if err := gooseStrategy.Status(env.DB); err != nil {
		return fmt.Errorf("failed to get detailed status: %w", err)
	}
	return nil
}

func runCreate(cmd *cobra.Command, flags *cliutil.GlobalFlags) error {
	env, err := cliutil.Bootstrap(flags, cliutil.Options{SkipDatabase: true})
	if err != nil {
		return err
	}

	if err := migration.NewGooseStrategy(migration.DefaultCreatePath, env.Log).Create(name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created in %s\n", name, migration.DefaultCreatePath)
	return nil
}

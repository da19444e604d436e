// Package cliutil holds the bootstrap shared by the helpdesk commands.
package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/infrastructure/config"
	"github.com/orris-inc/helpdesk/internal/infrastructure/database"
	"github.com/orris-inc/helpdesk/internal/shared/constants"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// GlobalFlags are registered on the root command.
type GlobalFlags struct {
	Env        string
	ConfigPath string
}

func (f *GlobalFlags) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&f.Env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
}

// Environment returns the ENV variable when set, otherwise the flag.
func (f *GlobalFlags) Environment() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return f.Env
}

// Env is a loaded configuration, logger and database connection.
type Env struct {
	Name string
	Cfg  *config.Config
	Log  logger.Interface
	DB   *gorm.DB
}

// Options adjust Bootstrap.
type Options struct {
	// LogToStderr keeps stdout free for JSON output.
	LogToStderr bool
	// SkipDatabase loads config and logger only.
	SkipDatabase bool
}

// Bootstrap loads configuration, initializes the logger and opens the database.
func Bootstrap(flags *GlobalFlags, opts Options) (*Env, error) {
	name := flags.Environment()

	cfg, err := config.Load(name, flags.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.LogToStderr && (cfg.Logger.OutputPath == "" || cfg.Logger.OutputPath == "stdout") {
		cfg.Logger.OutputPath = "stderr"
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.IsDebug()); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	env := &Env{Name: name, Cfg: cfg, Log: logger.NewLogger()}
	if opts.SkipDatabase {
		return env, nil
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	env.DB = database.Get()
	return env, nil
}

// Close releases the database connection.
func (e *Env) Close() {
	if e.DB == nil {
		return
	}
	if err := database.Close(); err != nil {
		e.Log.Warnw("failed to close database", "error", err)
	}
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Package migration creates and upgrades the helpdesk schema.
package migration

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/shared/constants"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

const (
	StrategyGoose         = "goose"
	StrategyGolangMigrate = "golang-migrate"
	StrategyAutoMigrate   = "automigrate"

	// DefaultCreatePath is where new goose scripts are written.
	DefaultCreatePath = "./internal/infrastructure/migration/scripts/goose"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks a strategy. The SQL scripts use the MySQL dialect, so other
// drivers and the development environment fall back to gorm AutoMigrate.
func NewManager(environment, driver, strategyName string, log logger.Interface) (*Manager, error) {
	var strategy Strategy
	switch {
	case strategyName == StrategyAutoMigrate,
		strategyName == "" && strings.EqualFold(environment, constants.EnvDevelopment),
		driver != "" && driver != "mysql":
		strategy = NewGormAutoMigrateStrategy(log)
	case strategyName == "" || strategyName == StrategyGoose:
		strategy = NewGooseStrategy(DefaultCreatePath, log)
	case strategyName == StrategyGolangMigrate:
		strategy = NewGolangMigrateStrategy(log)
	default:
		return nil, fmt.Errorf("unknown migration strategy: %s", strategyName)
	}

	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}, nil
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/domain/debuglog"
	"github.com/orris-inc/helpdesk/internal/domain/recurring"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/mapper"
)

type RecurringTaskRepository struct {
	db *gorm.DB
}

func NewRecurringTaskRepository(db *gorm.DB) *RecurringTaskRepository {
	return &RecurringTaskRepository{db: db}
}

func (r *RecurringTaskRepository) ListDue(ctx context.Context, now time.Time) ([]*recurring.Task, error) {
	var rows []models.RecurringTaskModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Where("is_active = ? AND next_run_at <= ?", true, now.UnixMilli()).
		Order("next_run_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list due recurring tasks: %w", err)
	}
	return mapper.Rows(rows, mappers.RecurringTaskToDomain), nil
}

func (r *RecurringTaskRepository) Create(ctx context.Context, task *recurring.Task) error {
	model := mappers.RecurringTaskToModel(task)
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create recurring task: %w", err)
	}
	task.ID = model.ID
	return nil
}

// UpdateSchedule moves next_run_at only if no other run advanced it first.
func (r *RecurringTaskRepository) UpdateSchedule(ctx context.Context, task *recurring.Task, previous time.Time) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.RecurringTaskModel{}).
		Where("id = ? AND next_run_at = ?", task.ID, previous.UnixMilli()).
		Updates(map[string]any{
			"next_run_at": task.NextRunAt.UnixMilli(),
			"updated_at":  task.UpdatedAt.UnixMilli(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to advance recurring task: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

type DebugLogRepository struct {
	db *gorm.DB
}

func NewDebugLogRepository(db *gorm.DB) *DebugLogRepository {
	return &DebugLogRepository{db: db}
}

func (r *DebugLogRepository) Append(ctx context.Context, entry *debuglog.Entry) error {
	model, err := mappers.DebugLogToModel(entry)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to write debug log: %w", err)
	}
	entry.ID = model.ID
	return nil
}

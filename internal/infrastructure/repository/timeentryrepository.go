package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/mapper"
)

// TimeEntryRepository persists the time ledger. The single-active-timer rule is
// enforced by the unique active_key column and by state-guarded updates.
type TimeEntryRepository struct {
	db     *gorm.DB
	mapper mappers.TimeEntryMapper
}

func NewTimeEntryRepository(db *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db, mapper: mappers.NewTimeEntryMapper()}
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry *timetracking.TimeEntry) error {
	model := r.mapper.ToModel(entry)
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return timetracking.ErrActiveTimerExists
		}
		return fmt.Errorf("failed to create time entry: %w", err)
	}
	return entry.SetID(model.ID)
}

func (r *TimeEntryRepository) GetByID(ctx context.Context, id uint) (*timetracking.TimeEntry, error) {
	var model models.TimeEntryModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find time entry: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *TimeEntryRepository) GetActive(ctx context.Context, ticketID, userID uint) (*timetracking.TimeEntry, error) {
	var model models.TimeEntryModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Scopes(db.RunningEntries()).
		Where("ticket_id = ? AND user_id = ?", ticketID, userID).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active timer: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

// Transition writes the timer columns only if the row is still in state from.
func (r *TimeEntryRepository) Transition(ctx context.Context, entry *timetracking.TimeEntry, from timetracking.State) error {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.TimeEntryModel{}).
		Where("id = ?", entry.ID()).
		Scopes(db.RunningEntries())

	switch from {
	case timetracking.StateRunning:
		query = query.Where("paused_at IS NULL")
	case timetracking.StatePaused:
		query = query.Where("paused_at IS NOT NULL")
	default:
		return fmt.Errorf("cannot transition a timer from state %s", from)
	}

	model := r.mapper.ToModel(entry)
	result := query.Updates(map[string]any{
		"paused_at":        model.PausedAt,
		"paused_seconds":   model.PausedSeconds,
		"ended_at":         model.EndedAt,
		"duration_minutes": model.DurationMinutes,
		"comment_id":       model.CommentID,
		"active_key":       model.ActiveKey,
		"updated_at":       model.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update timer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return timetracking.ErrStateChanged
	}
	return nil
}

func (r *TimeEntryRepository) DeleteActive(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Scopes(db.RunningEntries()).Where("id = ?", id).Delete(&models.TimeEntryModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to discard timer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return timetracking.ErrStateChanged
	}
	return nil
}

// Update saves an edited entry that has already ended.
func (r *TimeEntryRepository) Update(ctx context.Context, entry *timetracking.TimeEntry) error {
	model := r.mapper.ToModel(entry)
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.TimeEntryModel{}).
		Where("id = ? AND ended_at IS NOT NULL", entry.ID()).
		Updates(map[string]any{
			"started_at":       model.StartedAt,
			"ended_at":         model.EndedAt,
			"duration_minutes": model.DurationMinutes,
			"is_billable":      model.IsBillable,
			"billable_rate":    model.BillableRate,
			"cost_rate":        model.CostRate,
			"comment_id":       model.CommentID,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update time entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return timetracking.ErrStateChanged
	}
	return nil
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.TimeEntryModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete time entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("time entry not found")
	}
	return nil
}

func (r *TimeEntryRepository) DetachComment(ctx context.Context, commentID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.TimeEntryModel{}).
		Where("comment_id = ?", commentID).
		Update("comment_id", nil)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to detach time entries: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListByTicket returns entries ordered by start time.
func (r *TimeEntryRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*timetracking.TimeEntry, error) {
	var rows []models.TimeEntryModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("ticket_id = ?", ticketID).
		Order("started_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	return r.toDomain(rows)
}

func (r *TimeEntryRepository) ListActive(ctx context.Context, ticketIDs []uint, userID *uint) ([]*timetracking.TimeEntry, error) {
	if len(ticketIDs) == 0 {
		return []*timetracking.TimeEntry{}, nil
	}
	var rows []models.TimeEntryModel
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Scopes(db.RunningEntries()).Where("ticket_id IN ?", ticketIDs)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if err := query.Order("started_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list running timers: %w", err)
	}
	return r.toDomain(rows)
}

func (r *TimeEntryRepository) toDomain(rows []models.TimeEntryModel) ([]*timetracking.TimeEntry, error) {
	return mapper.RowsWithError(rows, r.mapper.ToDomain)
}

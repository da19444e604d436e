package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/mapper"
)

// ActivityLogRepository is append-only: it exposes no update or delete.
type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Append(ctx context.Context, entry *ticket.ActivityLogEntry) error {
	model, err := mappers.ActivityToModel(entry)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	entry.ID = model.ID
	return nil
}

func (r *ActivityLogRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.ActivityLogEntry, error) {
	var rows []models.ActivityLogModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	return mapper.RowsWithError(rows, mappers.ActivityToDomain)
}

// HistoryRepository is append-only.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, entries []*ticket.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.TicketHistoryModel, len(entries))
	for i, e := range entries {
		rows[i] = mappers.HistoryToModel(e)
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	for i, row := range rows {
		entries[i].ID = row.ID
	}
	return nil
}

// ListByTicket returns field changes oldest first.
func (r *HistoryRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.HistoryEntry, error) {
	var rows []models.TicketHistoryModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return mapper.Rows(rows, mappers.HistoryToDomain), nil
}

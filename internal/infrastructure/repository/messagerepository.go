package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/mapper"
)

// MessageRepository stores mail threading identifiers in ticket_messages.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, message *ticket.Message) error {
	model := mappers.MessageToModel(message)
	if model.MessageID == "" {
		return errors.NewValidationError("message id is required")
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("message already recorded", model.MessageID)
		}
		return fmt.Errorf("failed to save message: %w", err)
	}
	message.ID = model.ID
	return nil
}

func (r *MessageRepository) ExistsByMessageID(ctx context.Context, messageID string) (bool, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.TicketMessageModel{}).
		Where("message_id = ?", ticket.NormalizeMessageID(messageID)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check message id: %w", err)
	}
	return count > 0, nil
}

// FindTicketIDByMessageIDs loads all stored candidates in one query and
// returns the ticket of the earliest id in argument order.
func (r *MessageRepository) FindTicketIDByMessageIDs(ctx context.Context, messageIDs []string) (uint, bool, error) {
	if len(messageIDs) == 0 {
		return 0, false, nil
	}
	normalized := make([]string, 0, len(messageIDs))
	for _, id := range messageIDs {
		if id = ticket.NormalizeMessageID(id); id != "" {
			normalized = append(normalized, id)
		}
	}
	if len(normalized) == 0 {
		return 0, false, nil
	}

	var rows []models.TicketMessageModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Select("message_id", "ticket_id").
		Where("message_id IN ?", normalized).
		Find(&rows).Error; err != nil {
		return 0, false, fmt.Errorf("failed to match message ids: %w", err)
	}
	byID := make(map[string]uint, len(rows))
	for _, row := range rows {
		byID[row.MessageID] = row.TicketID
	}
	for _, id := range normalized {
		if ticketID, ok := byID[id]; ok {
			return ticketID, true, nil
		}
	}
	return 0, false, nil
}

func (r *MessageRepository) LatestForTicket(ctx context.Context, ticketID uint) (*ticket.Message, error) {
	var model models.TicketMessageModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at DESC").
		Order("id DESC").
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load latest message: %w", err)
	}
	return mappers.MessageToDomain(&model), nil
}

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *ticket.Attachment) error {
	model := mappers.AttachmentToModel(attachment)
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save attachment: %w", err)
	}
	attachment.ID = model.ID
	return nil
}

func (r *AttachmentRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Attachment, error) {
	var rows []models.AttachmentModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("ticket_id = ?", ticketID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return mapper.Rows(rows, mappers.AttachmentToDomain), nil
}

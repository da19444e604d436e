package mappers

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
)

// ActivityToModel encodes the details map as a JSON column.
func ActivityToModel(e *ticket.ActivityLogEntry) (*models.ActivityLogModel, error) {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode activity details: %w", err)
	}
	return &models.ActivityLogModel{
		ID:        e.ID,
		TicketID:  e.TicketID,
		UserID:    e.UserID,
		Action:    e.Action,
		Details:   datatypes.JSON(details),
		CreatedAt: e.CreatedAt.UnixMilli(),
	}, nil
}

func ActivityToDomain(model *models.ActivityLogModel) (*ticket.ActivityLogEntry, error) {
	details := map[string]any{}
	if len(model.Details) > 0 {
		if err := json.Unmarshal(model.Details, &details); err != nil {
			return nil, fmt.Errorf("failed to decode activity details (id=%d): %w", model.ID, err)
		}
	}
	return &ticket.ActivityLogEntry{
		ID:        model.ID,
		TicketID:  model.TicketID,
		UserID:    model.UserID,
		Action:    model.Action,
		Details:   details,
		CreatedAt: millisToTime(model.CreatedAt),
	}, nil
}

func HistoryToModel(e *ticket.HistoryEntry) *models.TicketHistoryModel {
	return &models.TicketHistoryModel{
		ID:        e.ID,
		TicketID:  e.TicketID,
		UserID:    e.UserID,
		FieldName: e.FieldName,
		OldValue:  e.OldValue,
		NewValue:  e.NewValue,
		CreatedAt: e.CreatedAt.UnixMilli(),
	}
}

func HistoryToDomain(model *models.TicketHistoryModel) *ticket.HistoryEntry {
	return &ticket.HistoryEntry{
		ID:        model.ID,
		TicketID:  model.TicketID,
		UserID:    model.UserID,
		FieldName: model.FieldName,
		OldValue:  model.OldValue,
		NewValue:  model.NewValue,
		CreatedAt: millisToTime(model.CreatedAt),
	}
}

func MessageToModel(m *ticket.Message) *models.TicketMessageModel {
	return &models.TicketMessageModel{
		ID:          m.ID,
		TicketID:    m.TicketID,
		CommentID:   m.CommentID,
		Direction:   string(m.Direction),
		MessageID:   ticket.NormalizeMessageID(m.MessageID),
		InReplyTo:   ticket.NormalizeMessageID(m.InReplyTo),
		References:  strings.Join(m.References, " "),
		FromAddress: m.FromAddress,
		Subject:     m.Subject,
		CreatedAt:   m.CreatedAt.UnixMilli(),
	}
}

func MessageToDomain(model *models.TicketMessageModel) *ticket.Message {
	return &ticket.Message{
		ID:          model.ID,
		TicketID:    model.TicketID,
		CommentID:   model.CommentID,
		Direction:   ticket.MessageDirection(model.Direction),
		MessageID:   model.MessageID,
		InReplyTo:   model.InReplyTo,
		References:  strings.Fields(model.References),
		FromAddress: model.FromAddress,
		Subject:     model.Subject,
		CreatedAt:   millisToTime(model.CreatedAt),
	}
}

func AttachmentToModel(a *ticket.Attachment) *models.AttachmentModel {
	return &models.AttachmentModel{
		ID:          a.ID,
		TicketID:    a.TicketID,
		CommentID:   a.CommentID,
		UserID:      a.UserID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Size:        a.Size,
		StorageKey:  a.StorageKey,
		CreatedAt:   a.CreatedAt.UnixMilli(),
	}
}

func AttachmentToDomain(model *models.AttachmentModel) *ticket.Attachment {
	return &ticket.Attachment{
		ID:          model.ID,
		TicketID:    model.TicketID,
		CommentID:   model.CommentID,
		UserID:      model.UserID,
		Filename:    model.Filename,
		ContentType: model.ContentType,
		Size:        model.Size,
		StorageKey:  model.StorageKey,
		CreatedAt:   millisToTime(model.CreatedAt),
	}
}

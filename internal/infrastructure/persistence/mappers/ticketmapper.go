package mappers

import (
	"fmt"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between Ticket domain entities and persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	CommentToModel(c *ticket.Comment) *models.CommentModel
	CommentToDomain(model *models.CommentModel) (*ticket.Comment, error)
}

// TicketMapperImpl is the concrete implementation of TicketMapper.
type TicketMapperImpl struct{}

// NewTicketMapper creates a new TicketMapper.
func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

// ToModel converts a ticket domain entity to a persistence model. Version is
// the value to write; the repository guards on OriginalVersion.
func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:             t.ID(),
		Hash:           t.Hash(),
		Title:          t.Title(),
		Description:    t.Description(),
		Status:         t.Status().String(),
		Priority:       t.Priority().String(),
		Type:           t.Type().String(),
		Source:         t.Source().String(),
		OrganizationID: t.OrganizationID(),
		CreatorID:      t.CreatorID(),
		AssigneeID:     t.AssigneeID(),
		Tags:           ticket.JoinTags(t.Tags()),
		DueDate:        optionalMillis(t.DueDate()),
		IsArchived:     t.IsArchived(),
		Version:        t.Version(),
		CreatedAt:      t.CreatedAt().UnixMilli(),
		UpdatedAt:      t.UpdatedAt().UnixMilli(),
		ClosedAt:       optionalMillis(t.ClosedAt()),
	}
}

// ToDomain converts a ticket persistence model to a domain entity.
func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", model.ID, err)
	}
	priority, err := vo.NewPriority(model.Priority)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", model.ID, err)
	}
	ticketType, err := vo.NewTicketType(model.Type)
	if err != nil {
		ticketType = vo.TypeQuestion
	}

	return ticket.ReconstructTicket(ticket.ReconstructParams{
		ID:             model.ID,
		Hash:           model.Hash,
		Title:          model.Title,
		Description:    model.Description,
		Status:         status,
		Priority:       priority,
		Type:           ticketType,
		Source:         vo.Source(model.Source),
		OrganizationID: model.OrganizationID,
		CreatorID:      model.CreatorID,
		AssigneeID:     model.AssigneeID,
		Tags:           ticket.ParseTags(model.Tags),
		DueDate:        optionalTime(model.DueDate),
		IsArchived:     model.IsArchived,
		Version:        model.Version,
		CreatedAt:      millisToTime(model.CreatedAt),
		UpdatedAt:      millisToTime(model.UpdatedAt),
		ClosedAt:       optionalTime(model.ClosedAt),
	})
}

func (m *TicketMapperImpl) CommentToModel(c *ticket.Comment) *models.CommentModel {
	return &models.CommentModel{
		ID:         c.ID(),
		TicketID:   c.TicketID(),
		UserID:     c.UserID(),
		Content:    c.Content(),
		IsInternal: c.IsInternal(),
		TimeSpent:  c.TimeSpent(),
		CreatedAt:  c.CreatedAt().UnixMilli(),
		UpdatedAt:  c.UpdatedAt().UnixMilli(),
		EditedAt:   optionalMillis(c.EditedAt()),
	}
}

// CommentToDomain converts a comment persistence model to a domain entity.
func (m *TicketMapperImpl) CommentToDomain(model *models.CommentModel) (*ticket.Comment, error) {
	return ticket.ReconstructComment(
		model.ID,
		model.TicketID,
		model.UserID,
		model.Content,
		model.IsInternal,
		model.TimeSpent,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
		optionalTime(model.EditedAt),
	)
}

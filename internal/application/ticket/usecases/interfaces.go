package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
)

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error)
}

type AddCommentExecutor interface {
	Execute(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error)
}

type GetTimelineExecutor interface {
	Execute(ctx context.Context, query GetTimelineQuery) (*dto.TimelineDTO, error)
}

// Notifier dispatches outbound notifications after a change commits. Delivery
// failures are handled by the implementation and never returned.
type Notifier interface {
	TicketCreated(ctx context.Context, t *ticket.Ticket, ccUserIDs []uint, actorID uint)
	CommentAdded(ctx context.Context, t *ticket.Ticket, c *ticket.Comment, ccUserIDs []uint, actorID uint)
	StatusChanged(ctx context.Context, t *ticket.Ticket, oldStatus string, actorID uint)
	TicketAssigned(ctx context.Context, t *ticket.Ticket, actorID uint)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) TicketCreated(context.Context, *ticket.Ticket, []uint, uint)                 {}
func (NopNotifier) CommentAdded(context.Context, *ticket.Ticket, *ticket.Comment, []uint, uint) {}
func (NopNotifier) StatusChanged(context.Context, *ticket.Ticket, string, uint)                 {}
func (NopNotifier) TicketAssigned(context.Context, *ticket.Ticket, uint)                        {}

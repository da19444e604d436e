package ticket

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/application/ticket/usecases"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
)

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.CreateTicketCommand) (*dto.TicketDTO, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, ticketID uint, actor authorization.Actor) (*dto.TicketDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query usecases.ListTicketsQuery) (*usecases.ListTicketsResult, error)
}

type GetTimelineExecutor interface {
	Execute(ctx context.Context, query usecases.GetTimelineQuery) (*dto.TimelineDTO, error)
}

type AddCommentExecutor interface {
	Execute(ctx context.Context, cmd usecases.AddCommentCommand) (*usecases.AddCommentResult, error)
}

type EditCommentExecutor interface {
	Execute(ctx context.Context, cmd usecases.EditCommentCommand) (*dto.CommentDTO, error)
}

type DeleteCommentExecutor interface {
	Execute(ctx context.Context, cmd usecases.DeleteCommentCommand) error
}

type ChangeStatusExecutor interface {
	Execute(ctx context.Context, cmd usecases.ChangeStatusCommand) (*dto.TicketDTO, error)
}

type AssignTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.AssignTicketCommand) (*dto.TicketDTO, error)
}

type UpdateTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.UpdateTicketCommand) (*dto.TicketDTO, error)
}

type ArchiveTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.ArchiveTicketCommand) (*dto.TicketDTO, error)
}

type DeleteTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.DeleteTicketCommand) error
}

// UseCases groups the executors the ticket handler dispatches to.
type UseCases struct {
	Create        CreateTicketExecutor
	Get           GetTicketExecutor
	List          ListTicketsExecutor
	Timeline      GetTimelineExecutor
	AddComment    AddCommentExecutor
	EditComment   EditCommentExecutor
	DeleteComment DeleteCommentExecutor
	ChangeStatus  ChangeStatusExecutor
	Assign        AssignTicketExecutor
	Update        UpdateTicketExecutor
	Archive       ArchiveTicketExecutor
	Delete        DeleteTicketExecutor
}

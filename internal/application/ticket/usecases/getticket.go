package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type GetTicketUseCase struct {
	repos  Repositories
	logger logger.Interface
}

func NewGetTicketUseCase(repos Repositories, logger logger.Interface) *GetTicketUseCase {
	return &GetTicketUseCase{repos: repos, logger: logger}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, ticketID uint, actor authorization.Actor) (*dto.TicketDTO, error) {
	t, err := loadVisibleTicket(ctx, uc.repos.Tickets, ticketID, actor)
	if err != nil {
		return nil, err
	}
	return dto.ToTicketDTO(t), nil
}

type ListTicketsQuery struct {
	Actor    authorization.Actor
	Status   string
	Priority string
	Mine     bool
	Archived bool
	Page     int
	PageSize int
}

type ListTicketsResult struct {
	Tickets []*dto.TicketDTO `json:"tickets"`
	Total   int64            `json:"total"`
}

type ListTicketsUseCase struct {
	repos  Repositories
	logger logger.Interface
}

func NewListTicketsUseCase(repos Repositories, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{repos: repos, logger: logger}
}

// Execute lists tickets; customers only see their own.
func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	filter := ticket.TicketFilter{
		Archived: query.Archived,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		s, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Status = &s
	}
	if query.Priority != "" {
		p, err := vo.NewPriority(query.Priority)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Priority = &p
	}
	userID := query.Actor.UserID
	switch {
	case !query.Actor.IsAgent():
		filter.CreatorID = &userID
	case query.Mine:
		filter.AssigneeID = &userID
	}

	tickets, total, err := uc.repos.Tickets.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, err
	}
	out := make([]*dto.TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, dto.ToTicketDTO(t))
	}
	return &ListTicketsResult{Tickets: out, Total: total}, nil
}

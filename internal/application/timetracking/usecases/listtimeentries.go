package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/timetracking/dto"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type ListTicketTimeEntriesQuery struct {
	TicketID uint
	Actor    authorization.Actor
}

type ListTicketTimeEntriesUseCase struct {
	entryRepo timetracking.Repository
	logger    logger.Interface
}

func NewListTicketTimeEntriesUseCase(entryRepo timetracking.Repository, logger logger.Interface) *ListTicketTimeEntriesUseCase {
	return &ListTicketTimeEntriesUseCase{entryRepo: entryRepo, logger: logger}
}

func (uc *ListTicketTimeEntriesUseCase) Execute(ctx context.Context, query ListTicketTimeEntriesQuery) ([]*dto.TimeEntryDTO, error) {
	if !query.Actor.IsAgent() {
		return nil, errors.NewForbiddenError("only agents can view time entries")
	}
	entries, err := uc.entryRepo.ListByTicket(ctx, query.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to list time entries", "ticket_id", query.TicketID, "error", err)
		return nil, translateError(err)
	}
	return dto.ToTimeEntryDTOs(entries), nil
}

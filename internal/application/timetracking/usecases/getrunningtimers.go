package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/timetracking/dto"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type GetRunningTimersQuery struct {
	TicketIDs []uint
	// OnlyMine limits the result to the actor's own timers.
	OnlyMine bool
	Actor    authorization.Actor
}

type GetRunningTimersUseCase struct {
	entryRepo timetracking.Repository
	clock     clock.Clock
	logger    logger.Interface
}

func NewGetRunningTimersUseCase(entryRepo timetracking.Repository, clk clock.Clock, logger logger.Interface) *GetRunningTimersUseCase {
	return &GetRunningTimersUseCase{entryRepo: entryRepo, clock: clk, logger: logger}
}

func (uc *GetRunningTimersUseCase) Execute(ctx context.Context, query GetRunningTimersQuery) ([]*dto.RunningTimerDTO, error) {
	if !query.Actor.IsAgent() {
		return nil, errors.NewForbiddenError("only agents can view timers")
	}
	if len(query.TicketIDs) == 0 {
		return []*dto.RunningTimerDTO{}, nil
	}

	var userID *uint
	if query.OnlyMine {
		id := query.Actor.UserID
		userID = &id
	}
	entries, err := uc.entryRepo.ListActive(ctx, query.TicketIDs, userID)
	if err != nil {
		uc.logger.Errorw("failed to list running timers", "ticket_count", len(query.TicketIDs), "error", err)
		return nil, translateError(err)
	}

	now := uc.clock.Now()
	out := make([]*dto.RunningTimerDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToRunningTimerDTO(e, now))
	}
	return out, nil
}

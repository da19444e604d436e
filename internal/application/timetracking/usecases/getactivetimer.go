package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/timetracking/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type GetActiveTimerUseCase struct {
	timerSupport
}

func NewGetActiveTimerUseCase(
	ticketRepo ticket.TicketRepository,
	entryRepo timetracking.Repository,
	clk clock.Clock,
	logger logger.Interface,
) *GetActiveTimerUseCase {
	return &GetActiveTimerUseCase{
		timerSupport: timerSupport{ticketRepo: ticketRepo, entryRepo: entryRepo, clock: clk, logger: logger},
	}
}

// Execute returns the caller's active timer on the ticket, or nil when none runs.
func (uc *GetActiveTimerUseCase) Execute(ctx context.Context, query TimerCommand) (*dto.RunningTimerDTO, error) {
	if err := query.validate(); err != nil {
		return nil, err
	}
	entry, err := uc.entryRepo.GetActive(ctx, query.TicketID, query.Actor.UserID)
	if err != nil {
		uc.logger.Errorw("failed to load active timer", "ticket_id", query.TicketID, "error", err)
		return nil, translateError(err)
	}
	return dto.ToRunningTimerDTO(entry, uc.clock.Now()), nil
}

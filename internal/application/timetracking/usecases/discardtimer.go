package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/timetracking/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type DiscardTimerUseCase struct {
	timerSupport
}

func NewDiscardTimerUseCase(
	ticketRepo ticket.TicketRepository,
	entryRepo timetracking.Repository,
	clk clock.Clock,
	logger logger.Interface,
) *DiscardTimerUseCase {
	return &DiscardTimerUseCase{
		timerSupport: timerSupport{ticketRepo: ticketRepo, entryRepo: entryRepo, clock: clk, logger: logger},
	}
}

// Execute deletes the active timer without recording time.
func (uc *DiscardTimerUseCase) Execute(ctx context.Context, cmd TimerCommand) (*dto.TimerActionResult, error) {
	uc.logger.Infow("executing discard timer use case", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID)

	entry, err := uc.requireActive(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if err := uc.entryRepo.DeleteActive(ctx, entry.ID()); err != nil {
		uc.logger.Warnw("failed to discard timer", "entry_id", entry.ID(), "error", err)
		return nil, translateError(err)
	}

	uc.logger.Infow("timer discarded", "entry_id", entry.ID())
	return &dto.TimerActionResult{Success: true, Message: "Timer discarded", EntryID: entry.ID()}, nil
}

package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/timetracking/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type StartTimerUseCase struct {
	timerSupport
	rates timetracking.Rates
}

func NewStartTimerUseCase(
	ticketRepo ticket.TicketRepository,
	entryRepo timetracking.Repository,
	rates timetracking.Rates,
	clk clock.Clock,
	logger logger.Interface,
) *StartTimerUseCase {
	return &StartTimerUseCase{
		timerSupport: timerSupport{ticketRepo: ticketRepo, entryRepo: entryRepo, clock: clk, logger: logger},
		rates:        rates,
	}
}

func (uc *StartTimerUseCase) Execute(ctx context.Context, cmd TimerCommand) (*dto.TimerActionResult, error) {
	uc.logger.Infow("executing start timer use case", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID)

	if err := cmd.validate(); err != nil {
		return nil, err
	}
	if _, err := uc.requireTicket(ctx, cmd.TicketID); err != nil {
		return nil, err
	}

	existing, err := uc.entryRepo.GetActive(ctx, cmd.TicketID, cmd.Actor.UserID)
	if err != nil {
		uc.logger.Errorw("failed to check active timer", "ticket_id", cmd.TicketID, "error", err)
		return nil, translateError(err)
	}
	if existing != nil {
		return nil, errors.NewConflictError(timetracking.ErrActiveTimerExists.Error())
	}

	entry, err := timetracking.StartTimer(cmd.TicketID, cmd.Actor.UserID, uc.rates, uc.clock.Now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	// A concurrent start loses on the unique active key.
	if err := uc.entryRepo.Create(ctx, entry); err != nil {
		uc.logger.Warnw("failed to start timer", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID, "error", err)
		return nil, translateError(err)
	}

	var elapsed int64
	uc.logger.Infow("timer started", "entry_id", entry.ID(), "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID)
	return &dto.TimerActionResult{
		Success:        true,
		Message:        "Timer started",
		ElapsedSeconds: &elapsed,
		EntryID:        entry.ID(),
	}, nil
}

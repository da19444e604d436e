package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/timetracking/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type PauseTimerUseCase struct {
	timerSupport
}

func NewPauseTimerUseCase(
	ticketRepo ticket.TicketRepository,
	entryRepo timetracking.Repository,
	clk clock.Clock,
	logger logger.Interface,
) *PauseTimerUseCase {
	return &PauseTimerUseCase{
		timerSupport: timerSupport{ticketRepo: ticketRepo, entryRepo: entryRepo, clock: clk, logger: logger},
	}
}

func (uc *PauseTimerUseCase) Execute(ctx context.Context, cmd TimerCommand) (*dto.TimerActionResult, error) {
	uc.logger.Infow("executing pause timer use case", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID)

	entry, err := uc.requireActive(ctx, cmd)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	from := entry.State()
	if err := entry.Pause(now); err != nil {
		return nil, translateError(err)
	}
	if err := uc.entryRepo.Transition(ctx, entry, from); err != nil {
		uc.logger.Warnw("failed to pause timer", "entry_id", entry.ID(), "error", err)
		return nil, translateError(err)
	}

	elapsed := entry.ElapsedSeconds(now)
	paused := entry.PausedSeconds()
	uc.logger.Infow("timer paused", "entry_id", entry.ID(), "elapsed_seconds", elapsed)
	return &dto.TimerActionResult{
		Success:        true,
		Message:        "Timer paused",
		ElapsedSeconds: &elapsed,
		PausedSeconds:  &paused,
		EntryID:        entry.ID(),
	}, nil
}

package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/timetracking/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type ResumeTimerUseCase struct {
	timerSupport
}

func NewResumeTimerUseCase(
	ticketRepo ticket.TicketRepository,
	entryRepo timetracking.Repository,
	clk clock.Clock,
	logger logger.Interface,
) *ResumeTimerUseCase {
	return &ResumeTimerUseCase{
		timerSupport: timerSupport{ticketRepo: ticketRepo, entryRepo: entryRepo, clock: clk, logger: logger},
	}
}

// Execute resumes a paused timer and reports the accumulated paused seconds so
// a client clock can realign.
func (uc *ResumeTimerUseCase) Execute(ctx context.Context, cmd TimerCommand) (*dto.TimerActionResult, error) {
	uc.logger.Infow("executing resume timer use case", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID)

	entry, err := uc.requireActive(ctx, cmd)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	from := entry.State()
	paused, err := entry.Resume(now)
	if err != nil {
		return nil, translateError(err)
	}
	if err := uc.entryRepo.Transition(ctx, entry, from); err != nil {
		uc.logger.Warnw("failed to resume timer", "entry_id", entry.ID(), "error", err)
		return nil, translateError(err)
	}

	elapsed := entry.ElapsedSeconds(now)
	uc.logger.Infow("timer resumed", "entry_id", entry.ID(), "paused_seconds", paused)
	return &dto.TimerActionResult{
		Success:        true,
		Message:        "Timer resumed",
		ElapsedSeconds: &elapsed,
		PausedSeconds:  &paused,
		EntryID:        entry.ID(),
	}, nil
}

package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/helpdesk/internal/application/timetracking/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type StopTimerCommand struct {
	TimerCommand
	CommentID *uint
}

type StopTimerUseCase struct {
	timerSupport
	commentRepo  ticket.CommentRepository
	activityRepo ticket.ActivityLogRepository
	txMgr        db.Transactor
}

func NewStopTimerUseCase(
	ticketRepo ticket.TicketRepository,
	entryRepo timetracking.Repository,
	commentRepo ticket.CommentRepository,
	activityRepo ticket.ActivityLogRepository,
	txMgr db.Transactor,
	clk clock.Clock,
	logger logger.Interface,
) *StopTimerUseCase {
	return &StopTimerUseCase{
		timerSupport: timerSupport{ticketRepo: ticketRepo, entryRepo: entryRepo, clock: clk, logger: logger},
		commentRepo:  commentRepo,
		activityRepo: activityRepo,
		txMgr:        txMgr,
	}
}

func (uc *StopTimerUseCase) Execute(ctx context.Context, cmd StopTimerCommand) (*dto.TimerActionResult, error) {
	uc.logger.Infow("executing stop timer use case", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID)

	entry, err := uc.requireActive(ctx, cmd.TimerCommand)
	if err != nil {
		return nil, err
	}
	if err := checkCommentOnTicket(ctx, uc.commentRepo, cmd.TicketID, cmd.CommentID); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	from := entry.State()
	minutes, err := entry.Stop(now, cmd.CommentID)
	if err != nil {
		return nil, translateError(err)
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.entryRepo.Transition(txCtx, entry, from); err != nil {
			return err
		}
		activity := ticket.NewActivity(cmd.TicketID, cmd.Actor.UserID, ticket.ActionTimeLogged, map[string]any{
			"entry_id":         entry.ID(),
			"duration_minutes": minutes,
			"source":           string(entry.Source()),
		}, now)
		return uc.activityRepo.Append(txCtx, activity)
	})
	if err != nil {
		uc.logger.Warnw("failed to stop timer", "entry_id", entry.ID(), "error", err)
		return nil, translateError(err)
	}

	elapsed := int64(minutes) * 60
	uc.logger.Infow("timer stopped", "entry_id", entry.ID(), "duration_minutes", minutes)
	return &dto.TimerActionResult{
		Success:         true,
		Message:         fmt.Sprintf("Timer stopped: %d minute(s) logged", minutes),
		ElapsedSeconds:  &elapsed,
		DurationMinutes: &minutes,
		EntryID:         entry.ID(),
	}, nil
}

// checkCommentOnTicket rejects a link to a comment on another ticket. Such an
// entry would be neither an orphan nor nested under a comment of its ticket.
func checkCommentOnTicket(ctx context.Context, comments ticket.CommentRepository, ticketID uint, commentID *uint) error {
	if commentID == nil || *commentID == 0 {
		return nil
	}
	c, err := comments.GetByID(ctx, *commentID)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if c == nil || c.TicketID() != ticketID {
		return errors.NewValidationError("comment does not belong to this ticket")
	}
	return nil
}

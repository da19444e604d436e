package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type DeleteTimeEntryCommand struct {
	EntryID uint
	Actor   authorization.Actor
}

type DeleteTimeEntryUseCase struct {
	entryRepo    timetracking.Repository
	activityRepo ticket.ActivityLogRepository
	txMgr        db.Transactor
	clock        clock.Clock
	logger       logger.Interface
}

func NewDeleteTimeEntryUseCase(
	entryRepo timetracking.Repository,
	activityRepo ticket.ActivityLogRepository,
	txMgr db.Transactor,
	clk clock.Clock,
	logger logger.Interface,
) *DeleteTimeEntryUseCase {
	return &DeleteTimeEntryUseCase{entryRepo: entryRepo, activityRepo: activityRepo, txMgr: txMgr, clock: clk, logger: logger}
}

// Execute removes a single entry. The linked comment is left untouched.
func (uc *DeleteTimeEntryUseCase) Execute(ctx context.Context, cmd DeleteTimeEntryCommand) error {
	uc.logger.Infow("executing delete time entry use case", "entry_id", cmd.EntryID, "user_id", cmd.Actor.UserID)

	entry, err := loadOwnedEntry(ctx, uc.entryRepo, cmd.EntryID, cmd.Actor)
	if err != nil {
		return err
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.entryRepo.Delete(txCtx, entry.ID()); err != nil {
			return err
		}
		return uc.activityRepo.Append(txCtx, ticket.NewActivity(entry.TicketID(), cmd.Actor.UserID, ticket.ActionTimeEntryDelete, map[string]any{
			"entry_id":         entry.ID(),
			"duration_minutes": entry.DurationMinutes(),
		}, uc.clock.Now()))
	})
	if err != nil {
		uc.logger.Errorw("failed to delete time entry", "entry_id", cmd.EntryID, "error", err)
		return translateError(err)
	}

	uc.logger.Infow("time entry deleted", "entry_id", entry.ID())
	return nil
}

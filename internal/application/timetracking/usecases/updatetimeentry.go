package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/helpdesk/internal/application/timetracking/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type UpdateTimeEntryCommand struct {
	EntryID    uint
	Actor      authorization.Actor
	StartedAt  time.Time
	EndedAt    time.Time
	IsBillable bool
	// Rates keeps the entry's current rates when nil.
	Rates *timetracking.Rates
}

type UpdateTimeEntryUseCase struct {
	entryRepo    timetracking.Repository
	activityRepo ticket.ActivityLogRepository
	txMgr        db.Transactor
	clock        clock.Clock
	logger       logger.Interface
}

func NewUpdateTimeEntryUseCase(
	entryRepo timetracking.Repository,
	activityRepo ticket.ActivityLogRepository,
	txMgr db.Transactor,
	clk clock.Clock,
	logger logger.Interface,
) *UpdateTimeEntryUseCase {
	return &UpdateTimeEntryUseCase{entryRepo: entryRepo, activityRepo: activityRepo, txMgr: txMgr, clock: clk, logger: logger}
}

func (uc *UpdateTimeEntryUseCase) Execute(ctx context.Context, cmd UpdateTimeEntryCommand) (*dto.TimeEntryDTO, error) {
	uc.logger.Infow("executing update time entry use case", "entry_id", cmd.EntryID, "user_id", cmd.Actor.UserID)

	entry, err := loadOwnedEntry(ctx, uc.entryRepo, cmd.EntryID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	rates := entry.Rates()
	if cmd.Rates != nil {
		rates = *cmd.Rates
	}
	before := entry.DurationMinutes()
	now := uc.clock.Now()
	if err := entry.Edit(cmd.StartedAt.UTC(), cmd.EndedAt.UTC(), cmd.IsBillable, rates, now); err != nil {
		return nil, translateError(err)
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.entryRepo.Update(txCtx, entry); err != nil {
			return err
		}
		return uc.activityRepo.Append(txCtx, ticket.NewActivity(entry.TicketID(), cmd.Actor.UserID, ticket.ActionTimeEntryEdited, map[string]any{
			"entry_id":    entry.ID(),
			"old_minutes": before,
			"new_minutes": entry.DurationMinutes(),
			"is_billable": entry.IsBillable(),
		}, now))
	})
	if err != nil {
		uc.logger.Errorw("failed to update time entry", "entry_id", cmd.EntryID, "error", err)
		return nil, translateError(err)
	}

	uc.logger.Infow("time entry updated", "entry_id", entry.ID())
	return dto.ToTimeEntryDTO(entry), nil
}

// loadOwnedEntry loads an entry the actor may modify: admins any, agents their own.
func loadOwnedEntry(ctx context.Context, repo timetracking.Repository, entryID uint, actor authorization.Actor) (*timetracking.TimeEntry, error) {
	if !actor.IsAgent() {
		return nil, errors.NewForbiddenError("only agents can modify time entries")
	}
	entry, err := repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, translateError(err)
	}
	if entry == nil {
		return nil, errors.NewNotFoundError("time entry not found")
	}
	if !authorization.CanModifyOwned(actor, entry.UserID()) {
		return nil, errors.NewForbiddenError("cannot modify another agent's time entry")
	}
	return entry, nil
}

package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// ManualTime is time logged together with a comment.
type ManualTime struct {
	StartedAt  time.Time
	EndedAt    time.Time
	IsBillable bool
}

type AddCommentCommand struct {
	TicketID   uint
	Actor      authorization.Actor
	Content    string
	IsInternal bool
	// TimeSpent is the legacy minutes summary stored on the comment.
	TimeSpent        int
	SkipNotification bool
	CCUserIDs        []uint
	// LogTimer stops the actor's running timer on the ticket and links it to the comment.
	LogTimer bool
	Manual   *ManualTime
}

type AddCommentResult struct {
	CommentID     uint      `json:"comment_id"`
	CreatedAt     time.Time `json:"created_at"`
	TimeEntryID   *uint     `json:"time_entry_id,omitempty"`
	LoggedMinutes int       `json:"logged_minutes"`
	Reopened      bool      `json:"reopened"`
}

type AddCommentUseCase struct {
	repos        Repositories
	entryRepo    timetracking.Repository
	defaultRates timetracking.Rates
	txMgr        db.Transactor
	notifier     Notifier
	clock        clock.Clock
	logger       logger.Interface
}

func NewAddCommentUseCase(
	repos Repositories,
	entryRepo timetracking.Repository,
	defaultRates timetracking.Rates,
	txMgr db.Transactor,
	notifier Notifier,
	clk clock.Clock,
	logger logger.Interface,
) *AddCommentUseCase {
	return &AddCommentUseCase{
		repos:        repos,
		entryRepo:    entryRepo,
		defaultRates: defaultRates,
		txMgr:        txMgr,
		notifier:     notifier,
		clock:        clk,
		logger:       logger,
	}
}

// Execute writes the comment, any linked time entry, the activity entry and a
// reopen on customer reply in one transaction, then notifies unless skipped.
func (uc *AddCommentUseCase) Execute(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error) {
	uc.logger.Infow("executing add comment use case", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID)

	t, err := loadVisibleTicket(ctx, uc.repos.Tickets, cmd.TicketID, cmd.Actor)
	if err != nil {
		return nil, err
	}
	if t.IsArchived() {
		return nil, errors.NewInvalidStateError("cannot comment on an archived ticket")
	}
	if cmd.IsInternal && !cmd.Actor.IsAgent() {
		uc.logger.Warnw("user cannot create internal comment", "user_id", cmd.Actor.UserID)
		return nil, errors.NewForbiddenError("only agents can create internal comments")
	}
	if (cmd.LogTimer || cmd.Manual != nil) && !cmd.Actor.IsAgent() {
		return nil, errors.NewForbiddenError("only agents can log time")
	}
	if cmd.LogTimer && cmd.Manual != nil {
		return nil, errors.NewValidationError("choose either the running timer or manual time")
	}

	now := uc.clock.Now()
	comment, err := ticket.NewComment(cmd.TicketID, cmd.Actor.UserID, cmd.Content, cmd.IsInternal, cmd.TimeSpent, now)
	if err != nil {
		return nil, wrapDomainError(err)
	}

	result := &AddCommentResult{}
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.repos.Comments.Create(txCtx, comment); err != nil {
			return fmt.Errorf("failed to save comment: %w", err)
		}

		entry, err := uc.logTime(txCtx, cmd, comment.ID(), now)
		if err != nil {
			return err
		}
		details := map[string]any{"comment_id": comment.ID(), "is_internal": comment.IsInternal()}
		if entry != nil {
			id := entry.ID()
			result.TimeEntryID = &id
			result.LoggedMinutes = entry.DurationMinutes()
			details["time_entry_id"] = id
			details["duration_minutes"] = entry.DurationMinutes()
		}

		var changes []ticket.FieldChange
		if t.IsOwnedBy(cmd.Actor.UserID) && !cmd.Actor.IsAgent() {
			if change, ok := t.ReopenOnReply(now); ok {
				changes = append(changes, change)
				result.Reopened = true
			}
		}
		t.Touch(now)
		return saveChanges(txCtx, uc.repos, t, cmd.Actor.UserID, ticket.ActionCommentAdded, changes, details, now)
	})
	if txErr != nil {
		uc.logger.Errorw("failed to add comment", "ticket_id", cmd.TicketID, "error", txErr)
		return nil, translateTimeError(txErr)
	}

	if !cmd.SkipNotification {
		uc.notifier.CommentAdded(ctx, t, comment, cmd.CCUserIDs, cmd.Actor.UserID)
	}

	result.CommentID = comment.ID()
	result.CreatedAt = comment.CreatedAt()
	uc.logger.Infow("comment added successfully", "comment_id", result.CommentID, "ticket_id", cmd.TicketID)
	return result, nil
}

func (uc *AddCommentUseCase) logTime(ctx context.Context, cmd AddCommentCommand, commentID uint, now time.Time) (*timetracking.TimeEntry, error) {
	switch {
	case cmd.LogTimer:
		entry, err := uc.entryRepo.GetActive(ctx, cmd.TicketID, cmd.Actor.UserID)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, timetracking.ErrNoActiveTimer
		}
		from := entry.State()
		if _, err := entry.Stop(now, &commentID); err != nil {
			return nil, err
		}
		if err := uc.entryRepo.Transition(ctx, entry, from); err != nil {
			return nil, err
		}
		return entry, nil
	case cmd.Manual != nil:
		entry, err := timetracking.NewManualEntry(timetracking.ManualEntryParams{
			TicketID:   cmd.TicketID,
			UserID:     cmd.Actor.UserID,
			CommentID:  &commentID,
			StartedAt:  cmd.Manual.StartedAt.UTC(),
			EndedAt:    cmd.Manual.EndedAt.UTC(),
			IsBillable: cmd.Manual.IsBillable,
			Rates:      uc.defaultRates,
		}, now)
		if err != nil {
			return nil, err
		}
		if err := uc.entryRepo.Create(ctx, entry); err != nil {
			return nil, err
		}
		return entry, nil
	}
	return nil, nil
}

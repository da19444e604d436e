package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type DeleteCommentCommand struct {
	CommentID uint
	Actor     authorization.Actor
}

type DeleteCommentUseCase struct {
	repos     Repositories
	entryRepo timetracking.Repository
	txMgr     db.Transactor
	clock     clock.Clock
	logger    logger.Interface
}

func NewDeleteCommentUseCase(
	repos Repositories,
	entryRepo timetracking.Repository,
	txMgr db.Transactor,
	clk clock.Clock,
	logger logger.Interface,
) *DeleteCommentUseCase {
	return &DeleteCommentUseCase{repos: repos, entryRepo: entryRepo, txMgr: txMgr, clock: clk, logger: logger}
}

// Execute deletes a comment. Linked time entries stay and become orphans.
func (uc *DeleteCommentUseCase) Execute(ctx context.Context, cmd DeleteCommentCommand) error {
	uc.logger.Infow("executing delete comment use case", "comment_id", cmd.CommentID, "user_id", cmd.Actor.UserID)

	if err := requireAgent(cmd.Actor, "delete comments"); err != nil {
		return err
	}
	c, err := uc.repos.Comments.GetByID(ctx, cmd.CommentID)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if c == nil {
		return errors.NewNotFoundError("comment not found")
	}
	if !authorization.CanModifyOwned(cmd.Actor, c.UserID()) {
		return errors.NewForbiddenError("cannot delete another user's comment")
	}
	t, err := loadTicket(ctx, uc.repos.Tickets, c.TicketID())
	if err != nil {
		return err
	}

	now := uc.clock.Now()
	return uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		detached, err := uc.entryRepo.DetachComment(txCtx, c.ID())
		if err != nil {
			return fmt.Errorf("failed to detach time entries: %w", err)
		}
		if err := uc.repos.Comments.Delete(txCtx, c.ID()); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		t.Touch(now)
		return saveChanges(txCtx, uc.repos, t, cmd.Actor.UserID, ticket.ActionCommentDeleted, nil, map[string]any{
			"comment_id":       c.ID(),
			"detached_entries": detached,
		}, now)
	})
}

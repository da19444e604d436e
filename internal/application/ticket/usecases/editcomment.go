package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type EditCommentCommand struct {
	CommentID uint
	Actor     authorization.Actor
	Content   string
}

type EditCommentUseCase struct {
	repos  Repositories
	txMgr  db.Transactor
	clock  clock.Clock
	logger logger.Interface
}

func NewEditCommentUseCase(repos Repositories, txMgr db.Transactor, clk clock.Clock, logger logger.Interface) *EditCommentUseCase {
	return &EditCommentUseCase{repos: repos, txMgr: txMgr, clock: clk, logger: logger}
}

// Execute lets the author or an admin change a comment and records the old text in history.
func (uc *EditCommentUseCase) Execute(ctx context.Context, cmd EditCommentCommand) (*dto.CommentDTO, error) {
	uc.logger.Infow("executing edit comment use case", "comment_id", cmd.CommentID, "user_id", cmd.Actor.UserID)

	c, err := uc.repos.Comments.GetByID(ctx, cmd.CommentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("comment not found")
	}
	if c.UserID() != cmd.Actor.UserID && !cmd.Actor.IsAdmin() {
		return nil, errors.NewForbiddenError("cannot edit another user's comment")
	}
	t, err := loadTicket(ctx, uc.repos.Tickets, c.TicketID())
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	change, changed, err := c.Edit(cmd.Content, now)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if !changed {
		return dto.ToCommentDTO(c), nil
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.repos.Comments.Update(txCtx, c); err != nil {
			return fmt.Errorf("failed to update comment: %w", err)
		}
		t.Touch(now)
		return saveChanges(txCtx, uc.repos, t, cmd.Actor.UserID, ticket.ActionCommentEdited,
			[]ticket.FieldChange{change}, map[string]any{"comment_id": c.ID()}, now)
	})
	if err != nil {
		uc.logger.Errorw("failed to edit comment", "comment_id", cmd.CommentID, "error", err)
		return nil, err
	}
	return dto.ToCommentDTO(c), nil
}

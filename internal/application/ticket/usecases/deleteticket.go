package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type DeleteTicketCommand struct {
	TicketID uint
	Actor    authorization.Actor
}

type DeleteTicketUseCase struct {
	repos  Repositories
	logger logger.Interface
}

func NewDeleteTicketUseCase(repos Repositories, logger logger.Interface) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{repos: repos, logger: logger}
}

// Execute hard-deletes an archived ticket. Only admins may delete.
func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) error {
	uc.logger.Infow("executing delete ticket use case", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID)

	if !cmd.Actor.IsAdmin() {
		return errors.NewForbiddenError("only admins can delete tickets")
	}
	t, err := loadTicket(ctx, uc.repos.Tickets, cmd.TicketID)
	if err != nil {
		return err
	}
	if err := t.EnsureDeletable(); err != nil {
		return errors.NewInvalidStateError(err.Error())
	}
	if err := uc.repos.Tickets.Delete(ctx, t.ID()); err != nil {
		uc.logger.Errorw("failed to delete ticket", "ticket_id", cmd.TicketID, "error", err)
		return err
	}

	uc.logger.Infow("ticket deleted", "ticket_id", cmd.TicketID)
	return nil
}

package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/user"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type AssignTicketCommand struct {
	TicketID uint
	Actor    authorization.Actor
	// AssigneeID nil or 0 unassigns.
	AssigneeID       *uint
	SkipNotification bool
}

type AssignTicketUseCase struct {
	repos    Repositories
	userRepo user.Repository
	txMgr    db.Transactor
	notifier Notifier
	clock    clock.Clock
	logger   logger.Interface
}

func NewAssignTicketUseCase(
	repos Repositories,
	userRepo user.Repository,
	txMgr db.Transactor,
	notifier Notifier,
	clk clock.Clock,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{repos: repos, userRepo: userRepo, txMgr: txMgr, notifier: notifier, clock: clk, logger: logger}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing assign ticket use case", "ticket_id", cmd.TicketID, "assignee_id", cmd.AssigneeID)

	if err := requireAgent(cmd.Actor, "assign tickets"); err != nil {
		return nil, err
	}
	if cmd.AssigneeID != nil && *cmd.AssigneeID != 0 {
		assignee, err := uc.userRepo.GetByID(ctx, *cmd.AssigneeID)
		if err != nil {
			return nil, err
		}
		if assignee == nil || !assignee.IsAgent() {
			return nil, errors.NewValidationError("assignee must be an agent")
		}
	}
	t, err := loadTicket(ctx, uc.repos.Tickets, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	change, changed := t.AssignTo(cmd.AssigneeID, now)
	if !changed {
		return dto.ToTicketDTO(t), nil
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return saveChanges(txCtx, uc.repos, t, cmd.Actor.UserID, ticket.ActionTicketAssigned, []ticket.FieldChange{change}, nil, now)
	})
	if err != nil {
		uc.logger.Errorw("failed to assign ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	if !cmd.SkipNotification && t.AssigneeID() != nil {
		uc.notifier.TicketAssigned(ctx, t, cmd.Actor.UserID)
	}
	uc.logger.Infow("ticket assigned", "ticket_id", t.ID(), "assignee_id", t.AssigneeID())
	return dto.ToTicketDTO(t), nil
}

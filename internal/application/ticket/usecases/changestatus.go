package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type ChangeStatusCommand struct {
	TicketID         uint
	Actor            authorization.Actor
	Status           string
	SkipNotification bool
}

type ChangeStatusUseCase struct {
	repos    Repositories
	txMgr    db.Transactor
	notifier Notifier
	clock    clock.Clock
	logger   logger.Interface
}

func NewChangeStatusUseCase(repos Repositories, txMgr db.Transactor, notifier Notifier, clk clock.Clock, logger logger.Interface) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{repos: repos, txMgr: txMgr, notifier: notifier, clock: clk, logger: logger}
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing change status use case", "ticket_id", cmd.TicketID, "status", cmd.Status)

	if err := requireAgent(cmd.Actor, "change ticket status"); err != nil {
		return nil, err
	}
	status, err := vo.NewTicketStatus(cmd.Status)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	t, err := loadTicket(ctx, uc.repos.Tickets, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	old := t.Status().String()
	now := uc.clock.Now()
	change, changed, err := t.ChangeStatus(status, now)
	if err != nil {
		return nil, translateTimeError(err)
	}
	if !changed {
		return dto.ToTicketDTO(t), nil
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return saveChanges(txCtx, uc.repos, t, cmd.Actor.UserID, ticket.ActionStatusChanged, []ticket.FieldChange{change}, nil, now)
	})
	if err != nil {
		uc.logger.Errorw("failed to change status", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	if !cmd.SkipNotification {
		uc.notifier.StatusChanged(ctx, t, old, cmd.Actor.UserID)
	}
	uc.logger.Infow("ticket status changed", "ticket_id", t.ID(), "from", old, "to", status)
	return dto.ToTicketDTO(t), nil
}

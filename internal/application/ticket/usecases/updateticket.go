package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// UpdateTicketCommand changes only the fields that are set.
type UpdateTicketCommand struct {
	TicketID    uint
	Actor       authorization.Actor
	Description *string
	Tags        *[]string
	Priority    *string
	// ClearDueDate removes the due date; DueDate sets it.
	DueDate      *time.Time
	ClearDueDate bool
}

type UpdateTicketUseCase struct {
	repos  Repositories
	txMgr  db.Transactor
	clock  clock.Clock
	logger logger.Interface
}

func NewUpdateTicketUseCase(repos Repositories, txMgr db.Transactor, clk clock.Clock, logger logger.Interface) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{repos: repos, txMgr: txMgr, clock: clk, logger: logger}
}

func (uc *UpdateTicketUseCase) Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing update ticket use case", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID)

	if err := requireAgent(cmd.Actor, "edit tickets"); err != nil {
		return nil, err
	}
	t, err := loadTicket(ctx, uc.repos.Tickets, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var changes []ticket.FieldChange
	if cmd.Description != nil {
		change, changed, err := t.UpdateDescription(*cmd.Description, now)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		if changed {
			changes = append(changes, change)
		}
	}
	if cmd.Priority != nil {
		p, err := vo.NewPriority(*cmd.Priority)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		change, changed, err := t.ChangePriority(p, now)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		if changed {
			changes = append(changes, change)
		}
	}
	if cmd.Tags != nil {
		if change, changed := t.SetTags(*cmd.Tags, now); changed {
			changes = append(changes, change)
		}
	}
	if cmd.DueDate != nil || cmd.ClearDueDate {
		due := cmd.DueDate
		if cmd.ClearDueDate {
			due = nil
		}
		if change, changed := t.SetDueDate(due, now); changed {
			changes = append(changes, change)
		}
	}
	if len(changes) == 0 {
		return dto.ToTicketDTO(t), nil
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return saveChanges(txCtx, uc.repos, t, cmd.Actor.UserID, ticket.ActionTicketUpdated, changes, nil, now)
	})
	if err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket updated", "ticket_id", t.ID(), "changes", len(changes))
	return dto.ToTicketDTO(t), nil
}

package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type ArchiveTicketCommand struct {
	TicketID uint
	Actor    authorization.Actor
	// Restore brings an archived ticket back instead.
	Restore bool
}

type ArchiveTicketUseCase struct {
	repos  Repositories
	txMgr  db.Transactor
	clock  clock.Clock
	logger logger.Interface
}

func NewArchiveTicketUseCase(repos Repositories, txMgr db.Transactor, clk clock.Clock, logger logger.Interface) *ArchiveTicketUseCase {
	return &ArchiveTicketUseCase{repos: repos, txMgr: txMgr, clock: clk, logger: logger}
}

func (uc *ArchiveTicketUseCase) Execute(ctx context.Context, cmd ArchiveTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing archive ticket use case", "ticket_id", cmd.TicketID, "restore", cmd.Restore)

	if err := requireAgent(cmd.Actor, "archive tickets"); err != nil {
		return nil, err
	}
	t, err := loadTicket(ctx, uc.repos.Tickets, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	action := ticket.ActionTicketArchived
	if cmd.Restore {
		action = ticket.ActionTicketRestored
		err = t.Restore(now)
	} else {
		err = t.Archive(now)
	}
	if err != nil {
		return nil, translateTimeError(err)
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return saveChanges(txCtx, uc.repos, t, cmd.Actor.UserID, action, nil, nil, now)
	})
	if err != nil {
		uc.logger.Errorw("failed to archive ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket archive state changed", "ticket_id", t.ID(), "archived", t.IsArchived())
	return dto.ToTicketDTO(t), nil
}

package usecases

import (
	"context"
	"fmt"
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

type CreateTicketCommand struct {
	Actor       authorization.Actor
	Title       string
	Description string
	Priority    string
	Type        string
	Tags        []string
	DueDate     *time.Time
	// AssigneeID is honoured for agents only.
	AssigneeID       *uint
	SkipNotification bool
	CCUserIDs        []uint
}

type CreateTicketUseCase struct {
	repos    Repositories
	hashGen  ticket.HashGenerator
	txMgr    db.Transactor
	notifier Notifier
	clock    clock.Clock
	logger   logger.Interface
}

func NewCreateTicketUseCase(
	repos Repositories,
	hashGen ticket.HashGenerator,
	txMgr db.Transactor,
	notifier Notifier,
	clk clock.Clock,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{repos: repos, hashGen: hashGen, txMgr: txMgr, notifier: notifier, clock: clk, logger: logger}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing create ticket use case", "user_id", cmd.Actor.UserID)

	priority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	ticketType, err := vo.NewTicketType(cmd.Type)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	hash, err := uc.hashGen.Generate()
	if err != nil {
		uc.logger.Errorw("failed to generate ticket hash", "error", err)
		return nil, errors.NewInternalError("failed to generate ticket hash")
	}

	now := uc.clock.Now()
	t, err := ticket.NewTicket(ticket.NewTicketParams{
		Hash:        hash,
		Title:       cmd.Title,
		Description: cmd.Description,
		Priority:    priority,
		Type:        ticketType,
		Source:      vo.SourceWeb,
		CreatorID:   cmd.Actor.UserID,
		Tags:        cmd.Tags,
		DueDate:     cmd.DueDate,
	}, now)
	if err != nil {
		return nil, wrapDomainError(err)
	}
	if cmd.AssigneeID != nil && cmd.Actor.IsAgent() {
		t.AssignTo(cmd.AssigneeID, now)
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.repos.Tickets.Create(txCtx, t); err != nil {
			return fmt.Errorf("failed to create ticket: %w", err)
		}
		return uc.repos.Activity.Append(txCtx, ticket.NewActivity(t.ID(), cmd.Actor.UserID, ticket.ActionTicketCreated, map[string]any{
			"title":  t.Title(),
			"source": t.Source().String(),
		}, now))
	})
	if err != nil {
		uc.logger.Errorw("failed to create ticket", "error", err)
		return nil, err
	}

	if !cmd.SkipNotification {
		uc.notifier.TicketCreated(ctx, t, cmd.CCUserIDs, cmd.Actor.UserID)
	}
	uc.logger.Infow("ticket created successfully", "ticket_id", t.ID(), "hash", t.Hash())
	return dto.ToTicketDTO(t), nil
}

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

type LogManualTimeCommand struct {
	TicketID   uint
	Actor      authorization.Actor
	StartedAt  time.Time
	EndedAt    time.Time
	IsBillable bool
	// Rates overrides the configured default rates when set.
	Rates     *timetracking.Rates
	CommentID *uint
}

type LogManualTimeUseCase struct {
	ticketRepo   ticket.TicketRepository
	entryRepo    timetracking.Repository
	commentRepo  ticket.CommentRepository
	activityRepo ticket.ActivityLogRepository
	txMgr        db.Transactor
	defaultRates timetracking.Rates
	clock        clock.Clock
	logger       logger.Interface
}

func NewLogManualTimeUseCase(
	ticketRepo ticket.TicketRepository,
	entryRepo timetracking.Repository,
	commentRepo ticket.CommentRepository,
	activityRepo ticket.ActivityLogRepository,
	txMgr db.Transactor,
	defaultRates timetracking.Rates,
	clk clock.Clock,
	logger logger.Interface,
) *LogManualTimeUseCase {
	return &LogManualTimeUseCase{
		ticketRepo:   ticketRepo,
		entryRepo:    entryRepo,
		commentRepo:  commentRepo,
		activityRepo: activityRepo,
		txMgr:        txMgr,
		defaultRates: defaultRates,
		clock:        clk,
		logger:       logger,
	}
}

func (uc *LogManualTimeUseCase) Execute(ctx context.Context, cmd LogManualTimeCommand) (*dto.TimeEntryDTO, error) {
	uc.logger.Infow("executing log manual time use case", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID)

	if !cmd.Actor.IsAgent() {
		return nil, errors.NewForbiddenError("only agents can log time")
	}
	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, translateError(err)
	}
	if t == nil {
		return nil, errors.NewNotFoundError("ticket not found")
	}
	if err := checkCommentOnTicket(ctx, uc.commentRepo, cmd.TicketID, cmd.CommentID); err != nil {
		return nil, err
	}

	rates := uc.defaultRates
	if cmd.Rates != nil {
		rates = *cmd.Rates
	}
	now := uc.clock.Now()
	entry, err := timetracking.NewManualEntry(timetracking.ManualEntryParams{
		TicketID:   cmd.TicketID,
		UserID:     cmd.Actor.UserID,
		CommentID:  cmd.CommentID,
		StartedAt:  cmd.StartedAt.UTC(),
		EndedAt:    cmd.EndedAt.UTC(),
		IsBillable: cmd.IsBillable,
		Rates:      rates,
	}, now)
	if err != nil {
		return nil, translateError(err)
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.entryRepo.Create(txCtx, entry); err != nil {
			return err
		}
		return uc.activityRepo.Append(txCtx, ticket.NewActivity(cmd.TicketID, cmd.Actor.UserID, ticket.ActionTimeLogged, map[string]any{
			"entry_id":         entry.ID(),
			"duration_minutes": entry.DurationMinutes(),
			"source":           string(entry.Source()),
		}, now))
	})
	if err != nil {
		uc.logger.Errorw("failed to log manual time", "ticket_id", cmd.TicketID, "error", err)
		return nil, translateError(err)
	}

	uc.logger.Infow("manual time logged", "entry_id", entry.ID(), "duration_minutes", entry.DurationMinutes())
	return dto.ToTimeEntryDTO(entry), nil
}

package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// TimerCommand addresses the caller's timer on a ticket.
type TimerCommand struct {
	TicketID uint
	Actor    authorization.Actor
}

func (c TimerCommand) validate() error {
	if c.TicketID == 0 {
		return errors.NewValidationError("ticket_id is required")
	}
	if !c.Actor.IsAgent() {
		return errors.NewForbiddenError("only agents can track time")
	}
	return nil
}

// timerSupport holds what every timer action needs.
type timerSupport struct {
	ticketRepo ticket.TicketRepository
	entryRepo  timetracking.Repository
	clock      clock.Clock
	logger     logger.Interface
}

func (s *timerSupport) requireTicket(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	t, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		s.logger.Errorw("failed to load ticket", "ticket_id", ticketID, "error", err)
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	if t == nil {
		return nil, errors.NewNotFoundError("ticket not found")
	}
	return t, nil
}

func (s *timerSupport) requireActive(ctx context.Context, cmd TimerCommand) (*timetracking.TimeEntry, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	if _, err := s.requireTicket(ctx, cmd.TicketID); err != nil {
		return nil, err
	}
	entry, err := s.entryRepo.GetActive(ctx, cmd.TicketID, cmd.Actor.UserID)
	if err != nil {
		s.logger.Errorw("failed to load active timer", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.UserID, "error", err)
		return nil, fmt.Errorf("failed to load active timer: %w", err)
	}
	if entry == nil {
		return nil, errors.NewNotFoundError(timetracking.ErrNoActiveTimer.Error())
	}
	return entry, nil
}

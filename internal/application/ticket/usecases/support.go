package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
)

// Repositories groups the ticket aggregate stores shared by the use cases.
type Repositories struct {
	Tickets  ticket.TicketRepository
	Comments ticket.CommentRepository
	Activity ticket.ActivityLogRepository
	History  ticket.HistoryRepository
}

func loadTicket(ctx context.Context, repo ticket.TicketRepository, id uint) (*ticket.Ticket, error) {
	t, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	if t == nil {
		return nil, errors.NewNotFoundError("ticket not found")
	}
	return t, nil
}

// loadVisibleTicket hides tickets the actor may not see behind not found.
func loadVisibleTicket(ctx context.Context, repo ticket.TicketRepository, id uint, actor authorization.Actor) (*ticket.Ticket, error) {
	t, err := loadTicket(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	if !t.CanBeViewedBy(actor) {
		return nil, errors.NewNotFoundError("ticket not found")
	}
	return t, nil
}

func requireAgent(actor authorization.Actor, action string) error {
	if !actor.IsAgent() {
		return errors.NewForbiddenError("only agents can " + action)
	}
	return nil
}

// saveChanges persists the ticket, its history rows and one activity entry in the caller's transaction.
func saveChanges(
	ctx context.Context,
	repos Repositories,
	t *ticket.Ticket,
	actorID uint,
	action string,
	changes []ticket.FieldChange,
	details map[string]any,
	now time.Time,
) error {
	if err := repos.Tickets.Update(ctx, t); err != nil {
		return err
	}
	if len(changes) > 0 {
		if err := repos.History.Append(ctx, ticket.NewHistoryEntries(t.ID(), actorID, changes, now)); err != nil {
			return fmt.Errorf("failed to write history: %w", err)
		}
	}
	if details == nil {
		details = make(map[string]any, len(changes))
	}
	for _, c := range changes {
		details[c.Field] = map[string]string{"old": c.OldValue, "new": c.NewValue}
	}
	if err := repos.Activity.Append(ctx, ticket.NewActivity(t.ID(), actorID, action, details, now)); err != nil {
		return fmt.Errorf("failed to write activity: %w", err)
	}
	return nil
}

// wrapDomainError turns plain domain validation failures into validation errors.
func wrapDomainError(err error) error {
	if err == nil || errors.IsAppError(err) {
		return err
	}
	return errors.NewValidationError(err.Error())
}

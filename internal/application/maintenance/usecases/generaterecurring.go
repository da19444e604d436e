package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/orris-inc/helpdesk/internal/domain/recurring"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// TicketNotifier is the notification hook raised for generated tickets.
type TicketNotifier interface {
	TicketCreated(ctx context.Context, t *ticket.Ticket, ccUserIDs []uint, actorID uint)
}

type RecurringResult struct {
	Due     int      `json:"due"`
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

type GenerateRecurringTicketsUseCase struct {
	tasks    recurring.Repository
	tickets  ticket.TicketRepository
	activity ticket.ActivityLogRepository
	hashGen  ticket.HashGenerator
	txMgr    db.Transactor
	notifier TicketNotifier
	clock    clock.Clock
	logger   logger.Interface
}

func NewGenerateRecurringTicketsUseCase(
	tasks recurring.Repository,
	tickets ticket.TicketRepository,
	activity ticket.ActivityLogRepository,
	hashGen ticket.HashGenerator,
	txMgr db.Transactor,
	notifier TicketNotifier,
	clk clock.Clock,
	logger logger.Interface,
) *GenerateRecurringTicketsUseCase {
	return &GenerateRecurringTicketsUseCase{
		tasks:    tasks,
		tickets:  tickets,
		activity: activity,
		hashGen:  hashGen,
		txMgr:    txMgr,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

// Execute opens one ticket per due task and moves each task's next run past
// now. A task another run already advanced is skipped. Failed tasks are
// reported in the result and joined into the returned error.
func (uc *GenerateRecurringTicketsUseCase) Execute(ctx context.Context) (*RecurringResult, error) {
	now := uc.clock.Now()
	due, err := uc.tasks.ListDue(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to list due recurring tasks", "error", err)
		return nil, err
	}

	result := &RecurringResult{Due: len(due)}
	var errs []error
	for _, task := range due {
		created, err := uc.generate(ctx, task)
		switch {
		case err != nil:
			uc.logger.Errorw("failed to generate recurring ticket", "task_id", task.ID, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("task %d: %v", task.ID, err))
			errs = append(errs, fmt.Errorf("recurring task %d: %w", task.ID, err))
		case created == nil:
			result.Skipped++
		default:
			result.Created++
			uc.notifier.TicketCreated(ctx, created, nil, task.CreatorID)
		}
	}

	uc.logger.Infow("recurring tasks processed",
		"due", result.Due, "created", result.Created, "skipped", result.Skipped)
	return result, stderrors.Join(errs...)
}

func (uc *GenerateRecurringTicketsUseCase) generate(ctx context.Context, task *recurring.Task) (*ticket.Ticket, error) {
	now := uc.clock.Now()
	previous := task.NextRunAt
	if _, err := task.Advance(now); err != nil {
		return nil, err
	}

	hash, err := uc.hashGen.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ticket hash: %w", err)
	}
	priority := task.Priority
	if !priority.IsValid() {
		priority = vo.PriorityMedium
	}
	t, err := ticket.NewTicket(ticket.NewTicketParams{
		Hash:        hash,
		Title:       task.Title,
		Description: task.Description,
		Priority:    priority,
		Type:        vo.TypeTask,
		Source:      vo.SourceWeb,
		CreatorID:   task.CreatorID,
	}, now)
	if err != nil {
		return nil, err
	}
	if task.AssigneeID != nil {
		t.AssignTo(task.AssigneeID, now)
	}

	var created *ticket.Ticket
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		advanced, err := uc.tasks.UpdateSchedule(txCtx, task, previous)
		if err != nil {
			return err
		}
		if !advanced {
			return nil
		}
		if err := uc.tickets.Create(txCtx, t); err != nil {
			return fmt.Errorf("failed to create ticket: %w", err)
		}
		if err := uc.activity.Append(txCtx, ticket.NewActivity(t.ID(), task.CreatorID, ticket.ActionTicketCreated, map[string]any{
			"title":             t.Title(),
			"recurring_task_id": task.ID,
		}, now)); err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

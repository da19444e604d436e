package usecases

import (
	"context"
	"time"

	mailusecases "github.com/orris-inc/helpdesk/internal/application/mailingest/usecases"
	"github.com/orris-inc/helpdesk/internal/domain/mailingest"
	"github.com/orris-inc/helpdesk/internal/domain/recurring"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/services"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type mockTaskRepository struct {
	tasks    []*recurring.Task
	advanced map[uint]time.Time

	UpdateScheduleFunc func(ctx context.Context, task *recurring.Task, previous time.Time) (bool, error)
}

func newTaskRepo(tasks ...*recurring.Task) *mockTaskRepository {
	return &mockTaskRepository{tasks: tasks, advanced: map[uint]time.Time{}}
}

func (m *mockTaskRepository) ListDue(ctx context.Context, now time.Time) ([]*recurring.Task, error) {
	var out []*recurring.Task
	for _, t := range m.tasks {
		if t.IsDue(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTaskRepository) Create(ctx context.Context, task *recurring.Task) error {
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *mockTaskRepository) UpdateSchedule(ctx context.Context, task *recurring.Task, previous time.Time) (bool, error) {
	if m.UpdateScheduleFunc != nil {
		return m.UpdateScheduleFunc(ctx, task, previous)
	}
	m.advanced[task.ID] = task.NextRunAt
	return true, nil
}

type mockTicketRepository struct {
	created []*ticket.Ticket

	CreateFunc func(ctx context.Context, t *ticket.Ticket) error
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	if err := t.SetID(uint(len(m.created) + 1)); err != nil {
		return err
	}
	m.created = append(m.created, t)
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error { return nil }
func (m *mockTicketRepository) Delete(ctx context.Context, id uint) error          { return nil }
func (m *mockTicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	return nil, nil
}
func (m *mockTicketRepository) GetByHash(ctx context.Context, hash string) (*ticket.Ticket, error) {
	return nil, nil
}
func (m *mockTicketRepository) List(ctx context.Context, f ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	return nil, 0, nil
}

type mockActivityRepository struct {
	entries []*ticket.ActivityLogEntry
}

func (m *mockActivityRepository) Append(ctx context.Context, e *ticket.ActivityLogEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockActivityRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.ActivityLogEntry, error) {
	return m.entries, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedHash string

func (h fixedHash) Generate() (string, error) { return string(h), nil }

type recordingNotifier struct {
	created []uint
}

func (n *recordingNotifier) TicketCreated(ctx context.Context, t *ticket.Ticket, cc []uint, actorID uint) {
	n.created = append(n.created, t.ID())
}

// =====================================================================
// Step executors
// =====================================================================

type stubRecurring struct {
	calls int
	err   error
}

func (s *stubRecurring) Execute(ctx context.Context) (*RecurringResult, error) {
	s.calls++
	return &RecurringResult{}, s.err
}

type stubIngest struct {
	calls int
	err   error
	panic bool
}

func (s *stubIngest) Execute(ctx context.Context, cmd mailusecases.RunIngestCommand) (*mailingest.RunResult, error) {
	s.calls++
	if s.panic {
		panic("boom")
	}
	if s.err != nil {
		return nil, s.err
	}
	return mailingest.NewRunResult(false), nil
}

type stubUpdateCheck struct {
	calls int
	err   error
}

func (s *stubUpdateCheck) Execute(ctx context.Context) (*services.UpdateStatus, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &services.UpdateStatus{CurrentVersion: "1.0.0", LatestVersion: "1.0.0"}, nil
}

type stubReleaseChecker struct {
	status *services.UpdateStatus
	err    error
}

func (s stubReleaseChecker) Check(ctx context.Context, current string) (*services.UpdateStatus, error) {
	return s.status, s.err
}

package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/domain/user"
	uservo "github.com/orris-inc/helpdesk/internal/domain/user/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
)

// =====================================================================
// Ticket repositories
// =====================================================================

type mockTicketRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*ticket.Ticket, error)
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error { return nil }
func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error { return nil }
func (m *mockTicketRepository) Delete(ctx context.Context, id uint) error          { return nil }

func (m *mockTicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTicketRepository) GetByHash(ctx context.Context, hash string) (*ticket.Ticket, error) {
	return nil, nil
}

func (m *mockTicketRepository) List(ctx context.Context, f ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	return nil, 0, nil
}

type mockCommentRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*ticket.Comment, error)
}

func (m *mockCommentRepository) Create(ctx context.Context, c *ticket.Comment) error { return nil }
func (m *mockCommentRepository) Update(ctx context.Context, c *ticket.Comment) error { return nil }
func (m *mockCommentRepository) Delete(ctx context.Context, id uint) error           { return nil }

func (m *mockCommentRepository) GetByID(ctx context.Context, id uint) (*ticket.Comment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCommentRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Comment, error) {
	return nil, nil
}

type mockActivityRepository struct {
	entries   []*ticket.ActivityLogEntry
	AppendErr error
}

func (m *mockActivityRepository) Append(ctx context.Context, e *ticket.ActivityLogEntry) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockActivityRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.ActivityLogEntry, error) {
	return m.entries, nil
}

type mockUserRepository struct {
	users map[uint]*user.User
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error { return nil }

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

func (m *mockUserRepository) ListAgents(ctx context.Context) ([]*user.User, error) { return nil, nil }

// passThroughTx runs fn without a real transaction.
type passThroughTx struct{}

func (passThroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// =====================================================================
// In-memory time entry store
// =====================================================================

// memEntryRepo mimics the database: stored rows are snapshots, the active key
// is unique and transitions are guarded by the stored state.
type memEntryRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*timetracking.TimeEntry

	GetActiveFunc func(ctx context.Context, ticketID, userID uint) (*timetracking.TimeEntry, error)
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{rows: make(map[uint]*timetracking.TimeEntry)}
}

func cloneEntry(e *timetracking.TimeEntry) *timetracking.TimeEntry {
	c, err := timetracking.ReconstructTimeEntry(timetracking.ReconstructParams{
		ID:              e.ID(),
		TicketID:        e.TicketID(),
		UserID:          e.UserID(),
		CommentID:       e.CommentID(),
		StartedAt:       e.StartedAt(),
		EndedAt:         e.EndedAt(),
		PausedAt:        e.PausedAt(),
		PausedSeconds:   e.PausedSeconds(),
		DurationMinutes: e.DurationMinutes(),
		IsBillable:      e.IsBillable(),
		IsManual:        e.IsManual(),
		Rates:           e.Rates(),
		Source:          e.Source(),
		CreatedAt:       e.CreatedAt(),
		UpdatedAt:       e.UpdatedAt(),
	})
	if err != nil {
		panic(err)
	}
	return c
}

func (m *memEntryRepo) Create(ctx context.Context, e *timetracking.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key := e.ActiveKey(); key != nil {
		for _, row := range m.rows {
			if k := row.ActiveKey(); k != nil && *k == *key {
				return timetracking.ErrActiveTimerExists
			}
		}
	}
	m.nextID++
	if err := e.SetID(m.nextID); err != nil {
		return err
	}
	m.rows[e.ID()] = cloneEntry(e)
	return nil
}

func (m *memEntryRepo) GetByID(ctx context.Context, id uint) (*timetracking.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[id]; ok {
		return cloneEntry(row), nil
	}
	return nil, nil
}

func (m *memEntryRepo) GetActive(ctx context.Context, ticketID, userID uint) (*timetracking.TimeEntry, error) {
	if m.GetActiveFunc != nil {
		return m.GetActiveFunc(ctx, ticketID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.TicketID() == ticketID && row.UserID() == userID && row.IsActive() {
			return cloneEntry(row), nil
		}
	}
	return nil, nil
}

func (m *memEntryRepo) Transition(ctx context.Context, e *timetracking.TimeEntry, from timetracking.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[e.ID()]
	if !ok || row.State() != from {
		return timetracking.ErrStateChanged
	}
	m.rows[e.ID()] = cloneEntry(e)
	return nil
}

func (m *memEntryRepo) DeleteActive(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || !row.IsActive() {
		return timetracking.ErrStateChanged
	}
	delete(m.rows, id)
	return nil
}

func (m *memEntryRepo) Update(ctx context.Context, e *timetracking.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[e.ID()] = cloneEntry(e)
	return nil
}

func (m *memEntryRepo) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memEntryRepo) DetachComment(ctx context.Context, commentID uint) (int64, error) {
	return 0, nil
}

func (m *memEntryRepo) ListByTicket(ctx context.Context, ticketID uint) ([]*timetracking.TimeEntry, error) {
	return m.list(func(e *timetracking.TimeEntry) bool { return e.TicketID() == ticketID }), nil
}

func (m *memEntryRepo) ListActive(ctx context.Context, ticketIDs []uint, userID *uint) ([]*timetracking.TimeEntry, error) {
	want := make(map[uint]bool, len(ticketIDs))
	for _, id := range ticketIDs {
		want[id] = true
	}
	return m.list(func(e *timetracking.TimeEntry) bool {
		return e.IsActive() && want[e.TicketID()] && (userID == nil || *userID == e.UserID())
	}), nil
}

func (m *memEntryRepo) list(keep func(*timetracking.TimeEntry) bool) []*timetracking.TimeEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*timetracking.TimeEntry
	for _, row := range m.rows {
		if keep(row) {
			out = append(out, cloneEntry(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (m *memEntryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// =====================================================================
// Fixtures
// =====================================================================

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

var (
	agentActor    = authorization.Actor{UserID: 3, Role: authorization.RoleAgent}
	otherAgent    = authorization.Actor{UserID: 4, Role: authorization.RoleAgent}
	adminActor    = authorization.Actor{UserID: 1, Role: authorization.RoleAdmin}
	customerActor = authorization.Actor{UserID: 9, Role: authorization.RoleUser}
)

func testTicket(id uint) *ticket.Ticket {
	t, err := ticket.ReconstructTicket(ticket.ReconstructParams{
		ID:        id,
		Hash:      "Ab12Cd34Ef56",
		Title:     "Printer on fire",
		Status:    vo.StatusOpen,
		Priority:  vo.PriorityMedium,
		Type:      vo.TypeIncident,
		Source:    vo.SourceWeb,
		CreatorID: 9,
		Version:   1,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	})
	if err != nil {
		panic(err)
	}
	return t
}

func ticketRepoWith(ids ...uint) *mockTicketRepository {
	known := make(map[uint]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			if known[id] {
				return testTicket(id), nil
			}
			return nil, nil
		},
	}
}

func testUser(id uint, role authorization.UserRole, ai bool) *user.User {
	email, err := uservo.NewEmail(fmt.Sprintf("user%d@example.com", id))
	if err != nil {
		panic(err)
	}
	u, err := user.ReconstructUser(id, "User", email, role, ai, nil, testNow, testNow)
	if err != nil {
		panic(err)
	}
	return u
}

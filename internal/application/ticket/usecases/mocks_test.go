package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/domain/user"
	uservo "github.com/orris-inc/helpdesk/internal/domain/user/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

var (
	adminActor    = authorization.Actor{UserID: 1, Role: authorization.RoleAdmin}
	agentActor    = authorization.Actor{UserID: 3, Role: authorization.RoleAgent}
	otherAgent    = authorization.Actor{UserID: 4, Role: authorization.RoleAgent}
	customerActor = authorization.Actor{UserID: 9, Role: authorization.RoleUser}
	strangerActor = authorization.Actor{UserID: 10, Role: authorization.RoleUser}
)

// =====================================================================
// Ticket store
// =====================================================================

type mockTicketRepository struct {
	tickets map[uint]*ticket.Ticket
	updates int
	deleted []uint

	CreateFunc func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc func(ctx context.Context, t *ticket.Ticket) error
	ListFunc   func(ctx context.Context, f ticket.TicketFilter) ([]*ticket.Ticket, int64, error)
}

func newTicketRepo(tickets ...*ticket.Ticket) *mockTicketRepository {
	m := &mockTicketRepository{tickets: make(map[uint]*ticket.Ticket)}
	for _, t := range tickets {
		m.tickets[t.ID()] = t
	}
	return m
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	if err := t.SetID(uint(len(m.tickets) + 100)); err != nil {
		return err
	}
	m.tickets[t.ID()] = t
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	m.updates++
	return nil
}

func (m *mockTicketRepository) Delete(ctx context.Context, id uint) error {
	m.deleted = append(m.deleted, id)
	delete(m.tickets, id)
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	return m.tickets[id], nil
}

func (m *mockTicketRepository) GetByHash(ctx context.Context, hash string) (*ticket.Ticket, error) {
	for _, t := range m.tickets {
		if t.Hash() == hash {
			return t, nil
		}
	}
	return nil, nil
}

func (m *mockTicketRepository) List(ctx context.Context, f ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

type mockCommentRepository struct {
	comments map[uint]*ticket.Comment
	order    []uint
	nextID   uint
	deleted  []uint
}

func newCommentRepo(comments ...*ticket.Comment) *mockCommentRepository {
	m := &mockCommentRepository{comments: make(map[uint]*ticket.Comment), nextID: 500}
	for _, c := range comments {
		m.comments[c.ID()] = c
		m.order = append(m.order, c.ID())
	}
	return m
}

func (m *mockCommentRepository) Create(ctx context.Context, c *ticket.Comment) error {
	m.nextID++
	if err := c.SetID(m.nextID); err != nil {
		return err
	}
	m.comments[c.ID()] = c
	m.order = append(m.order, c.ID())
	return nil
}

func (m *mockCommentRepository) Update(ctx context.Context, c *ticket.Comment) error { return nil }

func (m *mockCommentRepository) GetByID(ctx context.Context, id uint) (*ticket.Comment, error) {
	return m.comments[id], nil
}

func (m *mockCommentRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Comment, error) {
	var out []*ticket.Comment
	for _, id := range m.order {
		if c, ok := m.comments[id]; ok && c.TicketID() == ticketID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, id uint) error {
	m.deleted = append(m.deleted, id)
	delete(m.comments, id)
	return nil
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

func (m *mockActivityRepository) actions() []string {
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}

type mockHistoryRepository struct {
	entries []*ticket.HistoryEntry
}

func (m *mockHistoryRepository) Append(ctx context.Context, entries []*ticket.HistoryEntry) error {
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *mockHistoryRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.HistoryEntry, error) {
	return m.entries, nil
}

type mockAttachmentRepository struct {
	attachments []*ticket.Attachment
}

func (m *mockAttachmentRepository) Create(ctx context.Context, a *ticket.Attachment) error {
	m.attachments = append(m.attachments, a)
	return nil
}

func (m *mockAttachmentRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Attachment, error) {
	return m.attachments, nil
}

// =====================================================================
// Time entries
// =====================================================================

type mockEntryRepository struct {
	active   *timetracking.TimeEntry
	created  []*timetracking.TimeEntry
	listed   []*timetracking.TimeEntry
	detached []uint

	TransitionFunc func(ctx context.Context, e *timetracking.TimeEntry, from timetracking.State) error
}

func (m *mockEntryRepository) Create(ctx context.Context, e *timetracking.TimeEntry) error {
	if err := e.SetID(uint(len(m.created) + 900)); err != nil {
		return err
	}
	m.created = append(m.created, e)
	return nil
}

func (m *mockEntryRepository) GetByID(ctx context.Context, id uint) (*timetracking.TimeEntry, error) {
	return nil, nil
}

func (m *mockEntryRepository) GetActive(ctx context.Context, ticketID, userID uint) (*timetracking.TimeEntry, error) {
	if m.active != nil && m.active.TicketID() == ticketID && m.active.UserID() == userID {
		return m.active, nil
	}
	return nil, nil
}

func (m *mockEntryRepository) Transition(ctx context.Context, e *timetracking.TimeEntry, from timetracking.State) error {
	if m.TransitionFunc != nil {
		return m.TransitionFunc(ctx, e, from)
	}
	return nil
}

func (m *mockEntryRepository) DeleteActive(ctx context.Context, id uint) error             { return nil }
func (m *mockEntryRepository) Update(ctx context.Context, e *timetracking.TimeEntry) error { return nil }
func (m *mockEntryRepository) Delete(ctx context.Context, id uint) error                   { return nil }

func (m *mockEntryRepository) DetachComment(ctx context.Context, commentID uint) (int64, error) {
	m.detached = append(m.detached, commentID)
	return 1, nil
}

func (m *mockEntryRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*timetracking.TimeEntry, error) {
	return m.listed, nil
}

func (m *mockEntryRepository) ListActive(ctx context.Context, ticketIDs []uint, userID *uint) ([]*timetracking.TimeEntry, error) {
	return nil, nil
}

// =====================================================================
// Users, notifications, transactions
// =====================================================================

type mockUserRepository struct {
	users map[uint]*user.User
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error { return nil }

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	return nil, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

func (m *mockUserRepository) ListAgents(ctx context.Context) ([]*user.User, error) { return nil, nil }

type notifyCall struct {
	kind    string
	ticket  uint
	comment uint
	cc      []uint
	actor   uint
}

type recordingNotifier struct {
	calls []notifyCall
}

func (n *recordingNotifier) TicketCreated(ctx context.Context, t *ticket.Ticket, cc []uint, actorID uint) {
	n.calls = append(n.calls, notifyCall{kind: "created", ticket: t.ID(), cc: cc, actor: actorID})
}

func (n *recordingNotifier) CommentAdded(ctx context.Context, t *ticket.Ticket, c *ticket.Comment, cc []uint, actorID uint) {
	n.calls = append(n.calls, notifyCall{kind: "comment", ticket: t.ID(), comment: c.ID(), cc: cc, actor: actorID})
}

func (n *recordingNotifier) StatusChanged(ctx context.Context, t *ticket.Ticket, old string, actorID uint) {
	n.calls = append(n.calls, notifyCall{kind: "status", ticket: t.ID(), actor: actorID})
}

func (n *recordingNotifier) TicketAssigned(ctx context.Context, t *ticket.Ticket, actorID uint) {
	n.calls = append(n.calls, notifyCall{kind: "assigned", ticket: t.ID(), actor: actorID})
}

// recordingTx runs fn directly and remembers whether it failed.
type recordingTx struct {
	calls  int
	failed bool
}

func (r *recordingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	err := fn(ctx)
	r.failed = err != nil
	return err
}

type fixedHash string

func (h fixedHash) Generate() (string, error) { return string(h), nil }

// =====================================================================
// Fixtures
// =====================================================================

type fixture struct {
	tickets  *mockTicketRepository
	comments *mockCommentRepository
	activity *mockActivityRepository
	history  *mockHistoryRepository
	entries  *mockEntryRepository
	notifier *recordingNotifier
	tx       *recordingTx
}

func newFixture(tickets ...*ticket.Ticket) *fixture {
	return &fixture{
		tickets:  newTicketRepo(tickets...),
		comments: newCommentRepo(),
		activity: &mockActivityRepository{},
		history:  &mockHistoryRepository{},
		entries:  &mockEntryRepository{},
		notifier: &recordingNotifier{},
		tx:       &recordingTx{},
	}
}

func (f *fixture) repos() Repositories {
	return Repositories{Tickets: f.tickets, Comments: f.comments, Activity: f.activity, History: f.history}
}

type ticketOpt func(*ticket.ReconstructParams)

func withStatus(s vo.TicketStatus) ticketOpt {
	return func(p *ticket.ReconstructParams) { p.Status = s }
}

func withAssignee(id uint) ticketOpt {
	return func(p *ticket.ReconstructParams) { p.AssigneeID = &id }
}

func archived() ticketOpt {
	return func(p *ticket.ReconstructParams) { p.IsArchived = true }
}

func testTicket(id uint, opts ...ticketOpt) *ticket.Ticket {
	p := ticket.ReconstructParams{
		ID:        id,
		Hash:      "Ab12Cd34Ef56",
		Title:     "VPN drops every hour",
		Status:    vo.StatusOpen,
		Priority:  vo.PriorityMedium,
		Type:      vo.TypeIncident,
		Source:    vo.SourceWeb,
		CreatorID: customerActor.UserID,
		Version:   1,
		CreatedAt: testNow.Add(-time.Hour),
		UpdatedAt: testNow.Add(-time.Hour),
	}
	for _, o := range opts {
		o(&p)
	}
	t, err := ticket.ReconstructTicket(p)
	if err != nil {
		panic(err)
	}
	return t
}

func testComment(id, ticketID, userID uint, internal bool, at time.Time) *ticket.Comment {
	c, err := ticket.ReconstructComment(id, ticketID, userID, "text", internal, 0, at, at, nil)
	if err != nil {
		panic(err)
	}
	return c
}

func testAgentUser(id uint) *user.User {
	email, _ := uservo.NewEmail("agent@example.com")
	u, err := user.ReconstructUser(id, "Agent", email, authorization.RoleAgent, false, nil, testNow, testNow)
	if err != nil {
		panic(err)
	}
	return u
}

func conflictOnUpdate(ctx context.Context, t *ticket.Ticket) error {
	return errors.NewConflictError("ticket was modified by another request")
}

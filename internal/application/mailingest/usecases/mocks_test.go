package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/mailingest"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/domain/user"
	uservo "github.com/orris-inc/helpdesk/internal/domain/user/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

// =====================================================================
// Mailbox
// =====================================================================

type fakeMailbox struct {
	messages []mailingest.RawMessage
	seen     map[uint32]bool
	moved    map[uint32]string
	MoveErr  error
	FetchErr error
	closed   bool
}

func newMailbox(msgs ...mailingest.RawMessage) *fakeMailbox {
	return &fakeMailbox{messages: msgs, seen: map[uint32]bool{}, moved: map[uint32]string{}}
}

func (m *fakeMailbox) FetchUnseen(ctx context.Context, limit int) ([]mailingest.RawMessage, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	var out []mailingest.RawMessage
	for _, msg := range m.messages {
		if m.seen[msg.UID] {
			continue
		}
		if _, gone := m.moved[msg.UID]; gone {
			continue
		}
		out = append(out, msg)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *fakeMailbox) MarkSeen(ctx context.Context, uid uint32) error {
	m.seen[uid] = true
	return nil
}

func (m *fakeMailbox) Move(ctx context.Context, uid uint32, folder string) error {
	if m.MoveErr != nil {
		return m.MoveErr
	}
	m.moved[uid] = folder
	return nil
}

func (m *fakeMailbox) Close() error {
	m.closed = true
	return nil
}

type fakeConnector struct {
	mailbox *fakeMailbox
	err     error
	calls   int
}

func (c *fakeConnector) Connect(ctx context.Context) (mailingest.Mailbox, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.mailbox, nil
}

// fakeParser maps raw bytes to prepared messages; unknown bytes fail to parse.
type fakeParser struct {
	byRaw map[string]*mailingest.InboundMessage
}

func (p *fakeParser) Parse(raw []byte) (*mailingest.InboundMessage, error) {
	msg, ok := p.byRaw[string(raw)]
	if !ok {
		return nil, fmt.Errorf("malformed MIME header")
	}
	clone := *msg
	return &clone, nil
}

type fakeLock struct {
	held     bool
	released bool
}

func (l *fakeLock) Acquire(ctx context.Context) (bool, error) { return !l.held, nil }

func (l *fakeLock) Release(ctx context.Context) error {
	l.released = true
	return nil
}

// =====================================================================
// Stores
// =====================================================================

type memTickets struct {
	byID   map[uint]*ticket.Ticket
	nextID uint
}

func (m *memTickets) Create(ctx context.Context, t *ticket.Ticket) error {
	m.nextID++
	if err := t.SetID(m.nextID); err != nil {
		return err
	}
	m.byID[t.ID()] = t
	return nil
}

func (m *memTickets) Update(ctx context.Context, t *ticket.Ticket) error { return nil }
func (m *memTickets) Delete(ctx context.Context, id uint) error          { return nil }

func (m *memTickets) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	return m.byID[id], nil
}

func (m *memTickets) GetByHash(ctx context.Context, hash string) (*ticket.Ticket, error) {
	for _, t := range m.byID {
		if t.Hash() == hash {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memTickets) List(ctx context.Context, f ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	return nil, 0, nil
}

type memComments struct {
	created   []*ticket.Comment
	CreateErr error
}

func (m *memComments) Create(ctx context.Context, c *ticket.Comment) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if err := c.SetID(uint(len(m.created) + 500)); err != nil {
		return err
	}
	m.created = append(m.created, c)
	return nil
}

func (m *memComments) Update(ctx context.Context, c *ticket.Comment) error { return nil }
func (m *memComments) Delete(ctx context.Context, id uint) error           { return nil }

func (m *memComments) GetByID(ctx context.Context, id uint) (*ticket.Comment, error) {
	return nil, nil
}

func (m *memComments) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Comment, error) {
	var out []*ticket.Comment
	for _, c := range m.created {
		if c.TicketID() == ticketID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memActivity struct {
	entries   []*ticket.ActivityLogEntry
	AppendErr error
}

func (m *memActivity) Append(ctx context.Context, e *ticket.ActivityLogEntry) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memActivity) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.ActivityLogEntry, error) {
	return m.entries, nil
}

type memHistory struct {
	entries []*ticket.HistoryEntry
}

func (m *memHistory) Append(ctx context.Context, entries []*ticket.HistoryEntry) error {
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *memHistory) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.HistoryEntry, error) {
	return m.entries, nil
}

type memMessages struct {
	stored []*ticket.Message
}

func (m *memMessages) Create(ctx context.Context, msg *ticket.Message) error {
	msg.ID = uint(len(m.stored) + 1)
	m.stored = append(m.stored, msg)
	return nil
}

func (m *memMessages) ExistsByMessageID(ctx context.Context, id string) (bool, error) {
	for _, s := range m.stored {
		if s.MessageID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memMessages) FindTicketIDByMessageIDs(ctx context.Context, ids []string) (uint, bool, error) {
	for _, id := range ids {
		for _, s := range m.stored {
			if s.MessageID == id {
				return s.TicketID, true, nil
			}
		}
	}
	return 0, false, nil
}

func (m *memMessages) LatestForTicket(ctx context.Context, ticketID uint) (*ticket.Message, error) {
	return nil, nil
}

func (m *memMessages) inbound() []*ticket.Message {
	var out []*ticket.Message
	for _, s := range m.stored {
		if s.Direction == ticket.DirectionInbound {
			out = append(out, s)
		}
	}
	return out
}

type memAttachments struct {
	created []*ticket.Attachment
}

func (m *memAttachments) Create(ctx context.Context, a *ticket.Attachment) error {
	m.created = append(m.created, a)
	return nil
}

func (m *memAttachments) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Attachment, error) {
	return m.created, nil
}

type memUsers struct {
	byID   map[uint]*user.User
	nextID uint
}

func (m *memUsers) Create(ctx context.Context, u *user.User) error {
	m.nextID++
	if err := u.SetID(m.nextID); err != nil {
		return err
	}
	m.byID[u.ID()] = u
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return m.byID[id], nil
}

func (m *memUsers) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	return nil, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range m.byID {
		if u.Email().String() == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) ListAgents(ctx context.Context) ([]*user.User, error) { return nil, nil }

type memStore struct {
	objects map[string][]byte
}

func (s *memStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.objects[key] = data
	return nil
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.objects[key], nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

type sequentialHash struct {
	n int
}

func (h *sequentialHash) Generate() (string, error) {
	h.n++
	return fmt.Sprintf("NewHash%05d", h.n), nil
}

type passThroughTx struct{}

func (passThroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type notifyCall struct {
	kind     string
	ticketID uint
	actorID  uint
}

type recordingNotifier struct {
	calls []notifyCall
}

func (n *recordingNotifier) TicketCreated(ctx context.Context, t *ticket.Ticket, cc []uint, actorID uint) {
	n.calls = append(n.calls, notifyCall{kind: "created", ticketID: t.ID(), actorID: actorID})
}

func (n *recordingNotifier) CommentAdded(ctx context.Context, t *ticket.Ticket, c *ticket.Comment, cc []uint, actorID uint) {
	n.calls = append(n.calls, notifyCall{kind: "comment", ticketID: t.ID(), actorID: actorID})
}

// =====================================================================
// Fixture
// =====================================================================

type ingestFixture struct {
	mailbox     *fakeMailbox
	connector   *fakeConnector
	parser      *fakeParser
	tickets     *memTickets
	comments    *memComments
	activity    *memActivity
	history     *memHistory
	messages    *memMessages
	attachments *memAttachments
	users       *memUsers
	store       *memStore
	notifier    *recordingNotifier
	settings    Settings
	lock        mailingest.RunLock
}

func newIngestFixture() *ingestFixture {
	mb := newMailbox()
	f := &ingestFixture{
		mailbox:     mb,
		connector:   &fakeConnector{mailbox: mb},
		parser:      &fakeParser{byRaw: map[string]*mailingest.InboundMessage{}},
		tickets:     &memTickets{byID: map[uint]*ticket.Ticket{}, nextID: 100},
		comments:    &memComments{},
		activity:    &memActivity{},
		history:     &memHistory{},
		messages:    &memMessages{},
		attachments: &memAttachments{},
		users:       &memUsers{byID: map[uint]*user.User{}, nextID: 1000},
		store:       &memStore{objects: map[string][]byte{}},
		notifier:    &recordingNotifier{},
		settings: Settings{
			Enabled:         true,
			BatchLimit:      50,
			ProcessedFolder: "Processed",
			FailedFolder:    "Failed",
			Policy:          mailingest.SenderPolicy{AllowedDomains: []string{"customer.test"}},
		},
	}
	f.addUser(9, "alice@customer.test", authorization.RoleUser)
	f.addUser(3, "bob@helpdesk.test", authorization.RoleAgent)
	return f
}

func (f *ingestFixture) useCase() *RunIngestUseCase {
	return NewRunIngestUseCase(
		f.settings,
		f.connector,
		f.parser,
		f.lock,
		Repositories{
			Tickets:     f.tickets,
			Comments:    f.comments,
			Activity:    f.activity,
			History:     f.history,
			Messages:    f.messages,
			Attachments: f.attachments,
			Users:       f.users,
		},
		f.store,
		&sequentialHash{},
		passThroughTx{},
		f.notifier,
		clock.Fake(testNow),
		logger.NewDiscard(),
	)
}

func (f *ingestFixture) addUser(id uint, address string, role authorization.UserRole) {
	email, err := uservo.NewEmail(address)
	if err != nil {
		panic(err)
	}
	u, err := user.ReconstructUser(id, strings.Split(address, "@")[0], email, role, false, nil, testNow, testNow)
	if err != nil {
		panic(err)
	}
	f.users.byID[id] = u
}

func (f *ingestFixture) addTicket(id uint, hash string, creatorID uint, status vo.TicketStatus, archived bool) *ticket.Ticket {
	t, err := ticket.ReconstructTicket(ticket.ReconstructParams{
		ID: id, Hash: hash, Title: "Printer on fire", Status: status,
		Priority: vo.PriorityMedium, Type: vo.TypeIncident, Source: vo.SourceEmail,
		CreatorID: creatorID, IsArchived: archived, Version: 1,
		CreatedAt: testNow.Add(-24 * time.Hour), UpdatedAt: testNow.Add(-24 * time.Hour),
	})
	if err != nil {
		panic(err)
	}
	f.tickets.byID[id] = t
	return t
}

// deliver queues a raw message and the parse result it should produce.
func (f *ingestFixture) deliver(uid uint32, msg *mailingest.InboundMessage) {
	raw := fmt.Sprintf("raw-%d", uid)
	f.mailbox.messages = append(f.mailbox.messages, mailingest.RawMessage{UID: uid, Data: []byte(raw)})
	if msg != nil {
		f.parser.byRaw[raw] = msg
	}
}

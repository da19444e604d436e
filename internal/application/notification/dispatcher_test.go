package notification

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/domain/notification"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/domain/user"
	uservo "github.com/orris-inc/helpdesk/internal/domain/user/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/services/markdown"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type fakeUsers struct {
	byID map[uint]*user.User
}

func (f *fakeUsers) Create(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUsers) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

func (f *fakeUsers) ListAgents(ctx context.Context) ([]*user.User, error) { return nil, nil }

type fakeMessages struct {
	latest  *ticket.Message
	created []*ticket.Message
}

func (f *fakeMessages) Create(ctx context.Context, m *ticket.Message) error {
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMessages) ExistsByMessageID(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (f *fakeMessages) FindTicketIDByMessageIDs(ctx context.Context, ids []string) (uint, bool, error) {
	return 0, false, nil
}

func (f *fakeMessages) LatestForTicket(ctx context.Context, ticketID uint) (*ticket.Message, error) {
	return f.latest, nil
}

type fakeSender struct {
	sent []*notification.Email
	err  error
}

func (f *fakeSender) Send(ctx context.Context, e *notification.Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, e)
	return nil
}

func person(id uint, role authorization.UserRole) *user.User {
	email, err := uservo.NewEmail(fmt.Sprintf("user%d@example.com", id))
	if err != nil {
		panic(err)
	}
	u, err := user.ReconstructUser(id, fmt.Sprintf("User %d", id), email, role, false, nil, testNow, testNow)
	if err != nil {
		panic(err)
	}
	return u
}

func directory() *fakeUsers {
	return &fakeUsers{byID: map[uint]*user.User{
		1:  person(1, authorization.RoleAdmin),
		3:  person(3, authorization.RoleAgent),
		4:  person(4, authorization.RoleAgent),
		9:  person(9, authorization.RoleUser),
		12: person(12, authorization.RoleUser),
	}}
}

func openTicket(t *testing.T) *ticket.Ticket {
	t.Helper()
	assignee := uint(3)
	tk, err := ticket.ReconstructTicket(ticket.ReconstructParams{
		ID: 7, Hash: "Ab12Cd34Ef56", Title: "VPN drops", Description: "It **drops**",
		Status: vo.StatusOpen, Priority: vo.PriorityMedium, Type: vo.TypeIncident, Source: vo.SourceWeb,
		CreatorID: 9, AssigneeID: &assignee, Version: 1, CreatedAt: testNow, UpdatedAt: testNow,
	})
	require.NoError(t, err)
	return tk
}

func newTestDispatcher(sender *fakeSender, messages *fakeMessages) *Dispatcher {
	return NewDispatcher(directory(), messages, sender, markdown.NewMarkdownService(), Config{
		FromAddress: "support@helpdesk.test",
		BaseURL:     "https://helpdesk.test/",
	}, clock.Fake(testNow), logger.NewDiscard())
}

func comment(t *testing.T, internal bool, content string) *ticket.Comment {
	t.Helper()
	c, err := ticket.ReconstructComment(21, 7, 3, content, internal, 0, testNow, testNow, nil)
	require.NoError(t, err)
	return c
}

func TestCommentAdded_PublicThreadsAndRecords(t *testing.T) {
	sender := &fakeSender{}
	messages := &fakeMessages{latest: &ticket.Message{MessageID: "first@mail.test", References: []string{"root@mail.test"}}}
	d := newTestDispatcher(sender, messages)

	d.CommentAdded(context.Background(), openTicket(t), comment(t, false, "Try **this**"), []uint{12, 9, 3, 0}, 3)

	require.Len(t, sender.sent, 1)
	mail := sender.sent[0]
	assert.Equal(t, []string{"user9@example.com"}, mail.To)
	assert.Equal(t, []string{"user12@example.com"}, mail.CC)
	assert.Equal(t, "[#Ab12Cd34Ef56] VPN drops", mail.Subject)
	assert.Contains(t, mail.HTMLBody, "<strong>this</strong>")
	assert.Contains(t, mail.TextBody, "https://helpdesk.test/tickets/7")
	assert.Regexp(t, `^[0-9a-f-]{36}@helpdesk\.test$`, mail.MessageID)
	assert.Equal(t, "first@mail.test", mail.InReplyTo)
	assert.Equal(t, []string{"root@mail.test", "first@mail.test"}, mail.References)

	require.Len(t, messages.created, 1)
	rec := messages.created[0]
	assert.Equal(t, ticket.DirectionOutbound, rec.Direction)
	assert.Equal(t, mail.MessageID, rec.MessageID)
	require.NotNil(t, rec.CommentID)
	assert.Equal(t, uint(21), *rec.CommentID)
}

func TestCommentAdded_InternalNeverReachesCustomers(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(sender, &fakeMessages{})
	tk := openTicket(t)

	d.CommentAdded(context.Background(), tk, comment(t, true, "customer is on an old client"), []uint{12, 4}, 1)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"user3@example.com"}, sender.sent[0].To)
	assert.Equal(t, []string{"user4@example.com"}, sender.sent[0].CC)
	assert.Contains(t, sender.sent[0].TextBody, "internal note")
}

func TestCommentAdded_NobodyToTell(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(sender, &fakeMessages{})

	// The assignee writes an internal note with no CC: the only candidate is the actor.
	d.CommentAdded(context.Background(), openTicket(t), comment(t, true, "note to self"), nil, 3)

	assert.Empty(t, sender.sent)
}

func TestSendFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: fmt.Errorf("smtp: 421 try later")}
	messages := &fakeMessages{}
	d := newTestDispatcher(sender, messages)

	assert.NotPanics(t, func() {
		d.StatusChanged(context.Background(), openTicket(t), "open", 3)
	})
	assert.Empty(t, messages.created)
}

func TestTicketCreated_WithoutMessageStore(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(directory(), nil, sender, markdown.NewMarkdownService(), Config{FromAddress: "support@helpdesk.test"}, clock.Fake(testNow), logger.NewDiscard())

	d.TicketCreated(context.Background(), openTicket(t), nil, 9)

	require.Len(t, sender.sent, 1)
	assert.ElementsMatch(t, []string{"user9@example.com", "user3@example.com"}, sender.sent[0].To)
	assert.Empty(t, sender.sent[0].InReplyTo)
}

func TestTicketAssigned(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(sender, &fakeMessages{})

	d.TicketAssigned(context.Background(), openTicket(t), 1)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"user3@example.com"}, sender.sent[0].To)
	assert.Contains(t, sender.sent[0].TextBody, "User 1 assigned this ticket to you.")
}

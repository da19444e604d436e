package ticket

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newValidTicket(t *testing.T) *Ticket {
	t.Helper()
	tk, err := NewTicket(NewTicketParams{
		Hash:        "Ab12Cd34Ef56",
		Title:       "VPN drops every hour",
		Description: "Since Monday",
		Priority:    vo.PriorityMedium,
		Type:        vo.TypeIncident,
		Source:      vo.SourceWeb,
		CreatorID:   10,
		Tags:        []string{"vpn", " VPN ", "network"},
	}, testNow)
	require.NoError(t, err)
	return tk
}

func reconstructedTicket(t *testing.T, status vo.TicketStatus) *Ticket {
	t.Helper()
	tk, err := ReconstructTicket(ReconstructParams{
		ID:        7,
		Hash:      "Zz99Yy88Xx77",
		Title:     "Printer on fire",
		Status:    status,
		Priority:  vo.PriorityHigh,
		Type:      vo.TypeIncident,
		Source:    vo.SourceEmail,
		CreatorID: 10,
		Version:   3,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	})
	require.NoError(t, err)
	return tk
}

// ---------------------------------------------------------------------------
// Constructor
// ---------------------------------------------------------------------------

func TestNewTicket_Defaults(t *testing.T) {
	tk := newValidTicket(t)

	assert.Equal(t, vo.StatusNew, tk.Status())
	assert.Equal(t, []string{"vpn", "network"}, tk.Tags())
	assert.Equal(t, 1, tk.Version())
	assert.False(t, tk.IsArchived())
	assert.Equal(t, "[#Ab12Cd34Ef56]", tk.SubjectRef())
}

func TestNewTicket_Validation(t *testing.T) {
	base := NewTicketParams{
		Hash: "h", Title: "t", Priority: vo.PriorityLow, Type: vo.TypeTask,
		Source: vo.SourceWeb, CreatorID: 1,
	}
	tests := []struct {
		name   string
		mutate func(p *NewTicketParams)
	}{
		{"blank title", func(p *NewTicketParams) { p.Title = "   " }},
		{"title too long", func(p *NewTicketParams) { p.Title = strings.Repeat("x", 256) }},
		{"missing hash", func(p *NewTicketParams) { p.Hash = "" }},
		{"bad priority", func(p *NewTicketParams) { p.Priority = "critical" }},
		{"bad source", func(p *NewTicketParams) { p.Source = "fax" }},
		{"no creator", func(p *NewTicketParams) { p.CreatorID = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := NewTicket(p, testNow)
			assert.Error(t, err)
		})
	}
}

func TestNewTicket_EmptyDescriptionAllowed(t *testing.T) {
	_, err := NewTicket(NewTicketParams{
		Hash: "h", Title: "(no subject)", Priority: vo.PriorityMedium, Type: vo.TypeQuestion,
		Source: vo.SourceEmail, CreatorID: 3,
	}, testNow)
	assert.NoError(t, err)
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func TestTicket_AssignTo_OpensNewTicket(t *testing.T) {
	tk := newValidTicket(t)
	agent := uint(4)

	change, changed := tk.AssignTo(&agent, testNow)

	assert.True(t, changed)
	assert.Equal(t, FieldChange{Field: FieldAssignee, OldValue: "", NewValue: "4"}, change)
	assert.Equal(t, vo.StatusOpen, tk.Status())

	_, changed = tk.AssignTo(&agent, testNow)
	assert.False(t, changed)
}

func TestTicket_AssignTo_ZeroClears(t *testing.T) {
	tk := newValidTicket(t)
	agent := uint(4)
	tk.AssignTo(&agent, testNow)

	zero := uint(0)
	change, changed := tk.AssignTo(&zero, testNow)

	assert.True(t, changed)
	assert.Nil(t, tk.AssigneeID())
	assert.Equal(t, "4", change.OldValue)
}

func TestTicket_ChangeStatus(t *testing.T) {
	tk := reconstructedTicket(t, vo.StatusInProgress)

	change, changed, err := tk.ChangeStatus(vo.StatusClosed, testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "in_progress", change.OldValue)
	require.NotNil(t, tk.ClosedAt())

	_, _, err = tk.ChangeStatus(vo.StatusInProgress, testNow)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	_, changed, err = tk.ChangeStatus(vo.StatusReopened, testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, tk.ClosedAt())
}

func TestTicket_ChangeStatus_SameStatusNoop(t *testing.T) {
	tk := reconstructedTicket(t, vo.StatusPending)
	_, changed, err := tk.ChangeStatus(vo.StatusPending, testNow)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 3, tk.Version())
}

func TestTicket_VersionBumpsOncePerLoad(t *testing.T) {
	tk := reconstructedTicket(t, vo.StatusOpen)

	tk.SetTags([]string{"a"}, testNow)
	tk.ChangePriority(vo.PriorityLow, testNow)

	assert.Equal(t, 4, tk.Version())
	assert.Equal(t, 3, tk.OriginalVersion())
}

func TestTicket_ReopenOnReply(t *testing.T) {
	resolved := reconstructedTicket(t, vo.StatusResolved)
	_, changed := resolved.ReopenOnReply(testNow)
	assert.True(t, changed)
	assert.Equal(t, vo.StatusReopened, resolved.Status())

	open := reconstructedTicket(t, vo.StatusOpen)
	_, changed = open.ReopenOnReply(testNow)
	assert.False(t, changed)
}

func TestTicket_SetDueDateAndDescription(t *testing.T) {
	tk := newValidTicket(t)
	due := testNow.Add(48 * time.Hour)

	change, changed := tk.SetDueDate(&due, testNow)
	assert.True(t, changed)
	assert.Equal(t, "2026-03-04T10:00:00Z", change.NewValue)

	_, changed = tk.SetDueDate(&due, testNow)
	assert.False(t, changed)

	change, changed, err := tk.UpdateDescription("Still broken", testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Since Monday", change.OldValue)
}

func TestTicket_ArchiveLifecycle(t *testing.T) {
	tk := reconstructedTicket(t, vo.StatusClosed)

	assert.ErrorIs(t, tk.EnsureDeletable(), ErrNotArchived)
	require.NoError(t, tk.Archive(testNow))
	assert.ErrorIs(t, tk.Archive(testNow), ErrAlreadyArchived)
	assert.NoError(t, tk.EnsureDeletable())
	require.NoError(t, tk.Restore(testNow))
	assert.False(t, tk.IsArchived())
}

func TestTicket_CanBeViewedBy(t *testing.T) {
	tk := reconstructedTicket(t, vo.StatusOpen)

	assert.True(t, tk.CanBeViewedBy(authorization.Actor{UserID: 10, Role: authorization.RoleUser}))
	assert.False(t, tk.CanBeViewedBy(authorization.Actor{UserID: 11, Role: authorization.RoleUser}))
	assert.True(t, tk.CanBeViewedBy(authorization.Actor{UserID: 2, Role: authorization.RoleAgent}))
}

// ---------------------------------------------------------------------------
// Comments, tags and messages
// ---------------------------------------------------------------------------

func TestComment_Edit(t *testing.T) {
	c, err := ReconstructComment(12, 7, 4, "first", false, 0, testNow, testNow, nil)
	require.NoError(t, err)

	later := testNow.Add(time.Minute)
	change, changed, err := c.Edit("second", later)
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, "comment:12", change.Field)
	assert.Equal(t, "first", change.OldValue)
	require.NotNil(t, c.EditedAt())
	assert.Equal(t, later, *c.EditedAt())

	_, _, err = c.Edit("", later)
	assert.Error(t, err)
}

func TestNewComment_Validation(t *testing.T) {
	_, err := NewComment(0, 1, "x", false, 0, testNow)
	assert.Error(t, err)
	_, err = NewComment(1, 1, "", false, 0, testNow)
	assert.Error(t, err)
	_, err = NewComment(1, 1, "x", false, -5, testNow)
	assert.Error(t, err)
}

func TestParseAndJoinTags(t *testing.T) {
	assert.Equal(t, []string{"billing", "urgent"}, ParseTags("billing, urgent,,Billing"))
	assert.Equal(t, []string{}, ParseTags(" "))
	assert.Equal(t, "a,b", JoinTags([]string{"a", "b"}))
}

func TestHashFromSubject(t *testing.T) {
	hash, ok := HashFromSubject("Re: [#Ab12Cd34Ef56] VPN drops")
	assert.True(t, ok)
	assert.Equal(t, "Ab12Cd34Ef56", hash)

	_, ok = HashFromSubject("Re: [#12] too short")
	assert.False(t, ok)
}

func TestNormalizeMessageID(t *testing.T) {
	assert.Equal(t, "abc@mail.example.com", NormalizeMessageID(" <abc@mail.example.com> "))
}

func TestCleanFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":           "report.pdf",
		"../../etc/passwd":     "passwd",
		`C:\Users\me\shot.png`: "shot.png",
		"  ":                   "attachment",
		"what?.txt":            "what_.txt",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanFilename(in), in)
	}
	assert.Equal(t, "tickets/7/abc-log.txt", AttachmentKey(7, "abc", "dir/log.txt"))
}

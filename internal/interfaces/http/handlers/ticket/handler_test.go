package ticket

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ticketdto "github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/application/ticket/usecases"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreateUC struct {
	got usecases.CreateTicketCommand
	err error
}

func (m *mockCreateUC) Execute(_ context.Context, cmd usecases.CreateTicketCommand) (*ticketdto.TicketDTO, error) {
	m.got = cmd
	if m.err != nil {
		return nil, m.err
	}
	return &ticketdto.TicketDTO{ID: 7, Hash: "AbCdEf123456", Title: cmd.Title, Tags: cmd.Tags}, nil
}

type mockTimelineUC struct {
	got usecases.GetTimelineQuery
	err error
}

func (m *mockTimelineUC) Execute(_ context.Context, q usecases.GetTimelineQuery) (*ticketdto.TimelineDTO, error) {
	m.got = q
	if m.err != nil {
		return nil, m.err
	}
	return &ticketdto.TimelineDTO{Ticket: &ticketdto.TicketDTO{ID: q.TicketID}, Items: []ticketdto.TimelineItemDTO{}}, nil
}

type mockAddCommentUC struct {
	got usecases.AddCommentCommand
	err error
}

func (m *mockAddCommentUC) Execute(_ context.Context, cmd usecases.AddCommentCommand) (*usecases.AddCommentResult, error) {
	m.got = cmd
	if m.err != nil {
		return nil, m.err
	}
	return &usecases.AddCommentResult{CommentID: 31}, nil
}

type mockChangeStatusUC struct {
	err error
}

func (m *mockChangeStatusUC) Execute(_ context.Context, cmd usecases.ChangeStatusCommand) (*ticketdto.TicketDTO, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &ticketdto.TicketDTO{ID: cmd.TicketID, Status: cmd.Status}, nil
}

type mockAssignUC struct {
	got usecases.AssignTicketCommand
}

func (m *mockAssignUC) Execute(_ context.Context, cmd usecases.AssignTicketCommand) (*ticketdto.TicketDTO, error) {
	m.got = cmd
	return &ticketdto.TicketDTO{ID: cmd.TicketID, AssigneeID: cmd.AssigneeID}, nil
}

type mockUpdateUC struct {
	got usecases.UpdateTicketCommand
}

func (m *mockUpdateUC) Execute(_ context.Context, cmd usecases.UpdateTicketCommand) (*ticketdto.TicketDTO, error) {
	m.got = cmd
	return &ticketdto.TicketDTO{ID: cmd.TicketID}, nil
}

type mockDeleteUC struct {
	err error
}

func (m *mockDeleteUC) Execute(_ context.Context, _ usecases.DeleteTicketCommand) error {
	return m.err
}

func newHandler(uc UseCases) *TicketHandler {
	return NewTicketHandler(uc, logger.NewDiscard())
}

// =====================================================================
// Tests
// =====================================================================

func TestCreateTicket(t *testing.T) {
	create := &mockCreateUC{}
	h := newHandler(UseCases{Create: create})

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets", map[string]any{
		"title":             "Printer on fire",
		"priority":          "urgent",
		"tags":              "hardware, Urgent ,hardware",
		"due_date":          "2026-03-05",
		"skip_notification": true,
		"cc_user_ids":       "7,8",
	})
	testutil.SetAuthContext(c, 4, authorization.RoleUser)

	h.CreateTicket(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(4), create.got.Actor.UserID)
	assert.Equal(t, "urgent", create.got.Priority)
	assert.NotEmpty(t, create.got.Tags)
	require.NotNil(t, create.got.DueDate)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), *create.got.DueDate)
	assert.True(t, create.got.SkipNotification)
	assert.Equal(t, []uint{7, 8}, create.got.CCUserIDs)
}

func TestCreateTicket_Validation(t *testing.T) {
	h := newHandler(UseCases{Create: &mockCreateUC{}})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"description": "x"}},
		{"bad priority", map[string]any{"title": "x", "priority": "asap"}},
		{"bad due date", map[string]any{"title": "x", "due_date": "someday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testutil.NewTestContext(http.MethodPost, "/tickets", tt.body)
			testutil.SetAuthContext(c, 4, authorization.RoleUser)
			h.CreateTicket(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateTicket_Unauthenticated(t *testing.T) {
	h := newHandler(UseCases{Create: &mockCreateUC{}})
	c, w := testutil.NewTestContext(http.MethodPost, "/tickets", map[string]any{"title": "x"})

	h.CreateTicket(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetTimeline_PassesActor(t *testing.T) {
	timeline := &mockTimelineUC{}
	h := newHandler(UseCases{Timeline: timeline})

	c, w := testutil.NewTestContext(http.MethodGet, "/tickets/7/timeline", nil)
	testutil.SetURLParam(c, "id", "7")
	testutil.SetAuthContext(c, 3, authorization.RoleAgent)

	h.GetTimeline(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), timeline.got.TicketID)
	assert.Equal(t, authorization.Actor{UserID: 3, Role: authorization.RoleAgent}, timeline.got.Actor)

	c, w = testutil.NewTestContext(http.MethodGet, "/tickets/abc/timeline", nil)
	testutil.SetURLParam(c, "id", "abc")
	testutil.SetAuthContext(c, 3, authorization.RoleAgent)
	h.GetTimeline(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTimeline_NotFound(t *testing.T) {
	h := newHandler(UseCases{Timeline: &mockTimelineUC{err: errors.NewNotFoundError("ticket not found")}})

	c, w := testutil.NewTestContext(http.MethodGet, "/tickets/9/timeline", nil)
	testutil.SetURLParam(c, "id", "9")
	testutil.SetAuthContext(c, 4, authorization.RoleUser)
	h.GetTimeline(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddComment_FormWithManualTime(t *testing.T) {
	add := &mockAddCommentUC{}
	h := newHandler(UseCases{AddComment: add})

	c, w := testutil.NewFormContext(http.MethodPost, "/tickets/7/comments", url.Values{
		"content":           {"Replaced the toner"},
		"is_internal":       {"true"},
		"skip_notification": {"1"},
		"cc_user_ids":       {"5,6"},
		"manual_start":      {"2026-03-02T09:00"},
		"manual_end":        {"2026-03-02T09:45"},
		"manual_billable":   {"false"},
	})
	testutil.SetURLParam(c, "id", "7")
	testutil.SetAuthContext(c, 3, authorization.RoleAgent)

	h.AddComment(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, add.got.IsInternal)
	assert.True(t, add.got.SkipNotification)
	assert.Equal(t, []uint{5, 6}, add.got.CCUserIDs)
	require.NotNil(t, add.got.Manual)
	assert.Equal(t, 45*time.Minute, add.got.Manual.EndedAt.Sub(add.got.Manual.StartedAt))
	assert.False(t, add.got.Manual.IsBillable)
}

func TestAddComment_BadCCList(t *testing.T) {
	h := newHandler(UseCases{AddComment: &mockAddCommentUC{}})

	c, w := testutil.NewFormContext(http.MethodPost, "/tickets/7/comments", url.Values{
		"content":     {"hi"},
		"cc_user_ids": {"5,x"},
	})
	testutil.SetURLParam(c, "id", "7")
	testutil.SetAuthContext(c, 3, authorization.RoleAgent)
	h.AddComment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangeStatus_InvalidState(t *testing.T) {
	h := newHandler(UseCases{ChangeStatus: &mockChangeStatusUC{err: errors.NewInvalidStateError("ticket is archived")}})

	c, w := testutil.NewFormContext(http.MethodPatch, "/tickets/7/status", url.Values{"status": {"closed"}})
	testutil.SetURLParam(c, "id", "7")
	testutil.SetAuthContext(c, 3, authorization.RoleAgent)
	h.ChangeStatus(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, "invalid_state", resp.Error.Type)
}

func TestAssignTicket_ZeroUnassigns(t *testing.T) {
	assign := &mockAssignUC{}
	h := newHandler(UseCases{Assign: assign})

	c, w := testutil.NewFormContext(http.MethodPost, "/tickets/7/assign", url.Values{"assignee_id": {"0"}})
	testutil.SetURLParam(c, "id", "7")
	testutil.SetAuthContext(c, 3, authorization.RoleAgent)
	h.AssignTicket(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, assign.got.AssigneeID)
}

func TestUpdateTicket_OnlyPresentFields(t *testing.T) {
	update := &mockUpdateUC{}
	h := newHandler(UseCases{Update: update})

	c, w := testutil.NewTestContext(http.MethodPatch, "/tickets/7", map[string]any{
		"tags":     "a,b",
		"due_date": "",
	})
	testutil.SetURLParam(c, "id", "7")
	testutil.SetAuthContext(c, 3, authorization.RoleAgent)
	h.UpdateTicket(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, update.got.Description)
	assert.Nil(t, update.got.Priority)
	require.NotNil(t, update.got.Tags)
	assert.Equal(t, []string{"a", "b"}, *update.got.Tags)
	assert.True(t, update.got.ClearDueDate)
}

func TestDeleteTicket_NotArchived(t *testing.T) {
	h := newHandler(UseCases{Delete: &mockDeleteUC{err: errors.NewInvalidStateError("only archived tickets can be deleted")}})

	c, w := testutil.NewTestContext(http.MethodDelete, "/tickets/7", nil)
	testutil.SetURLParam(c, "id", "7")
	testutil.SetAuthContext(c, 1, authorization.RoleAdmin)
	h.DeleteTicket(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

func timelineFixture(t *testing.T) (*fixture, *mockAttachmentRepository) {
	t.Helper()
	f := newFixture(testTicket(7))
	f.comments = newCommentRepo(
		testComment(21, 7, customerActor.UserID, false, testNow.Add(-50*time.Minute)),
		testComment(22, 7, agentActor.UserID, true, testNow.Add(-40*time.Minute)),
		testComment(23, 7, agentActor.UserID, false, testNow.Add(-30*time.Minute)),
	)
	linked := uint(23)
	entry, err := timetracking.NewManualEntry(timetracking.ManualEntryParams{
		TicketID: 7, UserID: agentActor.UserID, CommentID: &linked,
		StartedAt: testNow.Add(-2 * time.Hour), EndedAt: testNow.Add(-90 * time.Minute),
		IsBillable: true, Rates: timetracking.Rates{Billable: 150, Cost: 42},
	}, testNow)
	require.NoError(t, err)
	require.NoError(t, entry.SetID(301))
	orphan, err := timetracking.NewManualEntry(timetracking.ManualEntryParams{
		TicketID: 7, UserID: agentActor.UserID,
		StartedAt: testNow.Add(-20 * time.Minute), EndedAt: testNow.Add(-10 * time.Minute),
	}, testNow)
	require.NoError(t, err)
	require.NoError(t, orphan.SetID(302))
	f.entries.listed = []*timetracking.TimeEntry{entry, orphan}

	internal := uint(22)
	attachments := &mockAttachmentRepository{attachments: []*ticket.Attachment{
		{ID: 1, TicketID: 7, Filename: "screenshot.png"},
		{ID: 2, TicketID: 7, CommentID: &internal, Filename: "server.log"},
	}}
	f.activity.entries = []*ticket.ActivityLogEntry{ticket.NewActivity(7, 9, ticket.ActionTicketCreated, nil, testNow)}
	f.history.entries = ticket.NewHistoryEntries(7, 3, []ticket.FieldChange{{Field: ticket.FieldStatus, OldValue: "new", NewValue: "open"}}, testNow)
	return f, attachments
}

func TestGetTimeline_AgentView(t *testing.T) {
	f, attachments := timelineFixture(t)
	uc := NewGetTimelineUseCase(f.repos(), f.entries, attachments, db.AllCapabilities(), logger.NewDiscard())

	got, err := uc.Execute(context.Background(), GetTimelineQuery{TicketID: 7, Actor: agentActor})

	require.NoError(t, err)
	require.Len(t, got.Items, 4)
	assert.Equal(t, uint(21), got.Items[0].Comment.ID)
	assert.Equal(t, uint(22), got.Items[1].Comment.ID)
	assert.Len(t, got.Items[1].Attachments, 1)
	assert.Equal(t, 30, got.Items[2].TimeBadgeMinutes)
	require.Len(t, got.Items[2].TimeEntries, 1)
	assert.InDelta(t, 42.0, got.Items[2].TimeEntries[0].CostRate, 0.001)
	require.NotNil(t, got.Items[3].TimeEntry)
	assert.Equal(t, uint(302), got.Items[3].TimeEntry.ID)
	assert.Len(t, got.Attachments, 1)
	assert.Len(t, got.Activity, 1)
	assert.Len(t, got.History, 1)
}

func TestGetTimeline_CustomerView(t *testing.T) {
	f, attachments := timelineFixture(t)
	uc := NewGetTimelineUseCase(f.repos(), f.entries, attachments, db.AllCapabilities(), logger.NewDiscard())

	got, err := uc.Execute(context.Background(), GetTimelineQuery{TicketID: 7, Actor: customerActor})

	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, uint(21), got.Items[0].Comment.ID)
	assert.Equal(t, uint(23), got.Items[1].Comment.ID)
	assert.Equal(t, 30, got.Items[1].TimeBadgeMinutes)
	assert.Empty(t, got.Items[1].TimeEntries, "rates and amounts stay with agents")
	for _, item := range got.Items {
		assert.Nil(t, item.TimeEntry)
	}
	assert.Len(t, got.Attachments, 1)
	assert.Nil(t, got.Activity)
	assert.Nil(t, got.History)
}

func TestGetTimeline_WithoutTimeTrackingTables(t *testing.T) {
	f, attachments := timelineFixture(t)
	caps := db.AllCapabilities()
	caps.TimeEntries = false
	caps.Attachments = false
	uc := NewGetTimelineUseCase(f.repos(), f.entries, attachments, caps, logger.NewDiscard())

	got, err := uc.Execute(context.Background(), GetTimelineQuery{TicketID: 7, Actor: agentActor})

	require.NoError(t, err)
	assert.Len(t, got.Items, 3)
	assert.Empty(t, got.Attachments)
}

func TestGetTimeline_StrangerGetsNotFound(t *testing.T) {
	f, attachments := timelineFixture(t)
	uc := NewGetTimelineUseCase(f.repos(), f.entries, attachments, db.AllCapabilities(), logger.NewDiscard())

	_, err := uc.Execute(context.Background(), GetTimelineQuery{TicketID: 7, Actor: strangerActor})

	assert.True(t, errors.IsNotFoundError(err))
}

func TestListTickets_ScopesCustomersToOwnTickets(t *testing.T) {
	f := newFixture()
	var seen ticket.TicketFilter
	f.tickets.ListFunc = func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
		seen = filter
		return []*ticket.Ticket{testTicket(7)}, 1, nil
	}
	uc := NewListTicketsUseCase(f.repos(), logger.NewDiscard())

	got, err := uc.Execute(context.Background(), ListTicketsQuery{Actor: customerActor, Status: "open", Mine: true})

	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Total)
	require.NotNil(t, seen.CreatorID)
	assert.Equal(t, customerActor.UserID, *seen.CreatorID)
	assert.Nil(t, seen.AssigneeID)
	require.NotNil(t, seen.Status)
	assert.Equal(t, vo.StatusOpen, *seen.Status)

	_, err = uc.Execute(context.Background(), ListTicketsQuery{Actor: agentActor, Mine: true})
	require.NoError(t, err)
	assert.Nil(t, seen.CreatorID)
	require.NotNil(t, seen.AssigneeID)
	assert.Equal(t, agentActor.UserID, *seen.AssigneeID)

	_, err = uc.Execute(context.Background(), ListTicketsQuery{Actor: agentActor, Priority: "whenever"})
	assert.True(t, errors.IsValidationError(err))
}

func TestGetTicket_Visibility(t *testing.T) {
	f := newFixture(testTicket(7))
	uc := NewGetTicketUseCase(f.repos(), logger.NewDiscard())

	got, err := uc.Execute(context.Background(), 7, customerActor)
	require.NoError(t, err)
	assert.Equal(t, "Ab12Cd34Ef56", got.Hash)

	_, err = uc.Execute(context.Background(), 7, strangerActor)
	assert.True(t, errors.IsNotFoundError(err))
}

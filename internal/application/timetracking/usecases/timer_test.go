package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type timerHarness struct {
	clock    *clock.FakeClock
	entries  *memEntryRepo
	activity *mockActivityRepository
	comments *mockCommentRepository
	start    *StartTimerUseCase
	pause    *PauseTimerUseCase
	resume   *ResumeTimerUseCase
	stop     *StopTimerUseCase
	discard  *DiscardTimerUseCase
	active   *GetActiveTimerUseCase
}

func newTimerHarness() *timerHarness {
	h := &timerHarness{
		clock:    clock.Fake(testNow),
		entries:  newMemEntryRepo(),
		activity: &mockActivityRepository{},
		comments: &mockCommentRepository{},
	}
	tickets := ticketRepoWith(7)
	log := logger.NewDiscard()
	rates := timetracking.Rates{Billable: 90, Cost: 45}
	h.start = NewStartTimerUseCase(tickets, h.entries, rates, h.clock, log)
	h.pause = NewPauseTimerUseCase(tickets, h.entries, h.clock, log)
	h.resume = NewResumeTimerUseCase(tickets, h.entries, h.clock, log)
	h.stop = NewStopTimerUseCase(tickets, h.entries, h.comments, h.activity, passThroughTx{}, h.clock, log)
	h.discard = NewDiscardTimerUseCase(tickets, h.entries, h.clock, log)
	h.active = NewGetActiveTimerUseCase(tickets, h.entries, h.clock, log)
	return h
}

var agentCmd = TimerCommand{TicketID: 7, Actor: agentActor}

func TestTimer_PauseResumeStopScenario(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()

	res, err := h.start.Execute(ctx, agentCmd)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(0), *res.ElapsedSeconds)

	h.clock.Advance(300 * time.Second)
	res, err = h.pause.Execute(ctx, agentCmd)
	require.NoError(t, err)
	assert.Equal(t, int64(300), *res.ElapsedSeconds)

	h.clock.Advance(300 * time.Second)
	res, err = h.resume.Execute(ctx, agentCmd)
	require.NoError(t, err)
	assert.Equal(t, int64(300), *res.PausedSeconds)

	h.clock.Advance(300 * time.Second)
	res, err = h.stop.Execute(ctx, StopTimerCommand{TimerCommand: agentCmd})
	require.NoError(t, err)
	assert.Equal(t, 10, *res.DurationMinutes)

	stored, err := h.entries.GetByID(ctx, res.EntryID)
	require.NoError(t, err)
	assert.Equal(t, timetracking.StateStopped, stored.State())
	assert.Equal(t, 10, stored.DurationMinutes())

	require.Len(t, h.activity.entries, 1)
	assert.Equal(t, ticket.ActionTimeLogged, h.activity.entries[0].Action)
	assert.Equal(t, 10, h.activity.entries[0].Details["duration_minutes"])

	active, err := h.active.Execute(ctx, agentCmd)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestTimer_StopFloorsMinutes(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()
	_, err := h.start.Execute(ctx, agentCmd)
	require.NoError(t, err)

	h.clock.Advance(119 * time.Second)
	res, err := h.stop.Execute(ctx, StopTimerCommand{TimerCommand: agentCmd})

	require.NoError(t, err)
	assert.Equal(t, 1, *res.DurationMinutes)
}

func TestTimer_StartTwiceConflicts(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()
	_, err := h.start.Execute(ctx, agentCmd)
	require.NoError(t, err)

	_, err = h.start.Execute(ctx, agentCmd)

	assert.True(t, errors.IsConflictError(err))
	assert.Equal(t, 1, h.entries.count())
}

func TestTimer_ConcurrentStartLosesOnUniqueKey(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()
	_, err := h.start.Execute(ctx, agentCmd)
	require.NoError(t, err)
	// The second request read before the first committed.
	h.entries.GetActiveFunc = func(ctx context.Context, ticketID, userID uint) (*timetracking.TimeEntry, error) {
		return nil, nil
	}

	_, err = h.start.Execute(ctx, agentCmd)

	assert.True(t, errors.IsConflictError(err))
	assert.Equal(t, 1, h.entries.count())
}

func TestTimer_SeparateUsersHaveSeparateTimers(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()

	_, err := h.start.Execute(ctx, agentCmd)
	require.NoError(t, err)
	_, err = h.start.Execute(ctx, TimerCommand{TicketID: 7, Actor: otherAgent})
	require.NoError(t, err)

	assert.Equal(t, 2, h.entries.count())
}

func TestTimer_PauseTwiceIsInvalidState(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()
	_, err := h.start.Execute(ctx, agentCmd)
	require.NoError(t, err)
	_, err = h.pause.Execute(ctx, agentCmd)
	require.NoError(t, err)

	_, err = h.pause.Execute(ctx, agentCmd)

	assert.True(t, errors.IsInvalidStateError(err))
}

func TestTimer_ResumeRunningIsInvalidState(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()
	_, err := h.start.Execute(ctx, agentCmd)
	require.NoError(t, err)

	_, err = h.resume.Execute(ctx, agentCmd)

	assert.True(t, errors.IsInvalidStateError(err))
}

func TestTimer_StaleTransitionConflicts(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()
	_, err := h.start.Execute(ctx, agentCmd)
	require.NoError(t, err)
	stale, err := h.entries.GetActive(ctx, 7, agentActor.UserID)
	require.NoError(t, err)
	_, err = h.pause.Execute(ctx, agentCmd)
	require.NoError(t, err)
	h.entries.GetActiveFunc = func(ctx context.Context, ticketID, userID uint) (*timetracking.TimeEntry, error) {
		return cloneEntry(stale), nil
	}

	_, err = h.pause.Execute(ctx, agentCmd)

	assert.True(t, errors.IsConflictError(err))
}

func TestTimer_WithoutActiveTimerIsNotFound(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()

	_, err := h.pause.Execute(ctx, agentCmd)
	assert.True(t, errors.IsNotFoundError(err))
	_, err = h.resume.Execute(ctx, agentCmd)
	assert.True(t, errors.IsNotFoundError(err))
	_, err = h.stop.Execute(ctx, StopTimerCommand{TimerCommand: agentCmd})
	assert.True(t, errors.IsNotFoundError(err))
	_, err = h.discard.Execute(ctx, agentCmd)
	assert.True(t, errors.IsNotFoundError(err))

	assert.Zero(t, h.entries.count())
}

func TestTimer_DiscardRemovesEntry(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()
	_, err := h.start.Execute(ctx, agentCmd)
	require.NoError(t, err)
	h.clock.Advance(10 * time.Minute)

	res, err := h.discard.Execute(ctx, agentCmd)

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Zero(t, h.entries.count())
	assert.Empty(t, h.activity.entries)
}

func TestTimer_CustomerForbidden(t *testing.T) {
	h := newTimerHarness()

	_, err := h.start.Execute(context.Background(), TimerCommand{TicketID: 7, Actor: customerActor})

	assert.True(t, errors.IsForbiddenError(err))
}

func TestTimer_UnknownTicket(t *testing.T) {
	h := newTimerHarness()

	_, err := h.start.Execute(context.Background(), TimerCommand{TicketID: 99, Actor: agentActor})

	assert.True(t, errors.IsNotFoundError(err))
}

func TestTimer_StopLinksComment(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()
	h.comments.GetByIDFunc = func(ctx context.Context, id uint) (*ticket.Comment, error) {
		return ticket.ReconstructComment(id, 7, 3, "done", false, 0, testNow, testNow, nil)
	}
	_, err := h.start.Execute(ctx, agentCmd)
	require.NoError(t, err)
	h.clock.Advance(5 * time.Minute)

	commentID := uint(21)
	res, err := h.stop.Execute(ctx, StopTimerCommand{TimerCommand: agentCmd, CommentID: &commentID})

	require.NoError(t, err)
	stored, err := h.entries.GetByID(ctx, res.EntryID)
	require.NoError(t, err)
	require.NotNil(t, stored.CommentID())
	assert.Equal(t, commentID, *stored.CommentID())
}

func TestTimer_StopRejectsForeignComment(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()
	h.comments.GetByIDFunc = func(ctx context.Context, id uint) (*ticket.Comment, error) {
		return ticket.ReconstructComment(id, 8, 3, "elsewhere", false, 0, testNow, testNow, nil)
	}
	_, err := h.start.Execute(ctx, agentCmd)
	require.NoError(t, err)

	commentID := uint(21)
	_, err = h.stop.Execute(ctx, StopTimerCommand{TimerCommand: agentCmd, CommentID: &commentID})

	assert.True(t, errors.IsValidationError(err))
	active, err := h.entries.GetActive(ctx, 7, agentActor.UserID)
	require.NoError(t, err)
	assert.NotNil(t, active)
}

func TestGetActiveTimer_ReportsLiveCounters(t *testing.T) {
	h := newTimerHarness()
	ctx := context.Background()
	_, err := h.start.Execute(ctx, agentCmd)
	require.NoError(t, err)
	h.clock.Advance(2 * time.Minute)
	_, err = h.pause.Execute(ctx, agentCmd)
	require.NoError(t, err)
	h.clock.Advance(30 * time.Second)

	got, err := h.active.Execute(ctx, agentCmd)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsPaused)
	assert.Equal(t, int64(120), got.ElapsedSeconds)
	assert.Equal(t, int64(30), got.PausedSeconds)
}

package timetracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func at(seconds int) time.Time {
	return testNow.Add(time.Duration(seconds) * time.Second)
}

func uintPtr(v uint) *uint { return &v }

func newRunning(t *testing.T) *TimeEntry {
	t.Helper()
	e, err := StartTimer(7, 3, Rates{Billable: 120, Cost: 60}, testNow)
	require.NoError(t, err)
	require.NoError(t, e.SetID(1))
	return e
}

// =====================================================================
// Transitions
// =====================================================================

func TestStartTimer(t *testing.T) {
	e := newRunning(t)

	assert.Equal(t, StateRunning, e.State())
	assert.Equal(t, SourceTimer, e.Source())
	assert.False(t, e.IsManual())
	assert.Zero(t, e.PausedSeconds())
	require.NotNil(t, e.ActiveKey())
	assert.Equal(t, "7:3", *e.ActiveKey())
}

func TestStartTimer_RequiresIDs(t *testing.T) {
	_, err := StartTimer(0, 3, Rates{}, testNow)
	assert.Error(t, err)
	_, err = StartTimer(7, 0, Rates{}, testNow)
	assert.Error(t, err)
}

func TestPauseResumeStop_TenMinuteScenario(t *testing.T) {
	e := newRunning(t)

	require.NoError(t, e.Pause(at(300)))
	assert.Equal(t, StatePaused, e.State())
	assert.Equal(t, int64(300), e.ElapsedSeconds(at(450)))

	paused, err := e.Resume(at(600))
	require.NoError(t, err)
	assert.Equal(t, int64(300), paused)
	assert.Equal(t, StateRunning, e.State())

	minutes, err := e.Stop(at(900), nil)
	require.NoError(t, err)
	assert.Equal(t, 10, minutes)
	assert.Equal(t, 10, e.DurationMinutes())
	assert.Equal(t, StateStopped, e.State())
	assert.Nil(t, e.ActiveKey())
	assert.Nil(t, e.PausedAt())
}

func TestStop_FloorsToMinutes(t *testing.T) {
	e := newRunning(t)

	minutes, err := e.Stop(at(119), nil)

	require.NoError(t, err)
	assert.Equal(t, 1, minutes)
}

func TestStop_WithinFirstMinuteRecordsZero(t *testing.T) {
	e := newRunning(t)

	minutes, err := e.Stop(at(59), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, minutes)
}

func TestStop_WhilePausedExcludesOpenPause(t *testing.T) {
	e := newRunning(t)
	require.NoError(t, e.Pause(at(180)))

	minutes, err := e.Stop(at(3600), uintPtr(11))

	require.NoError(t, err)
	assert.Equal(t, 3, minutes)
	assert.Equal(t, int64(3420), e.PausedSeconds())
	require.NotNil(t, e.CommentID())
	assert.Equal(t, uint(11), *e.CommentID())
}

func TestStop_ZeroCommentIDIgnored(t *testing.T) {
	e := newRunning(t)

	_, err := e.Stop(at(120), uintPtr(0))

	require.NoError(t, err)
	assert.True(t, e.IsOrphan())
}

func TestPause_AlreadyPaused(t *testing.T) {
	e := newRunning(t)
	require.NoError(t, e.Pause(at(10)))

	assert.ErrorIs(t, e.Pause(at(20)), ErrTimerPaused)
}

func TestResume_NotPaused(t *testing.T) {
	e := newRunning(t)

	_, err := e.Resume(at(10))

	assert.ErrorIs(t, err, ErrTimerNotPaused)
}

func TestTransitions_AfterStop(t *testing.T) {
	e := newRunning(t)
	_, err := e.Stop(at(60), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, e.Pause(at(70)), ErrNoActiveTimer)
	_, err = e.Resume(at(70))
	assert.ErrorIs(t, err, ErrNoActiveTimer)
	_, err = e.Stop(at(70), nil)
	assert.ErrorIs(t, err, ErrNoActiveTimer)
}

func TestPauseResume_RoundTripPreservesElapsed(t *testing.T) {
	e := newRunning(t)
	before := e.ElapsedSeconds(at(200))

	require.NoError(t, e.Pause(at(200)))
	_, err := e.Resume(at(200))
	require.NoError(t, err)

	assert.InDelta(t, before, e.ElapsedSeconds(at(200)), 1)
}

// =====================================================================
// Elapsed
// =====================================================================

func TestElapsedSeconds_Monotonic(t *testing.T) {
	e := newRunning(t)
	require.NoError(t, e.Pause(at(100)))
	_, err := e.Resume(at(160))
	require.NoError(t, err)

	prev := int64(-1)
	for s := 0; s <= 600; s += 7 {
		got := e.ElapsedSeconds(at(s))
		assert.GreaterOrEqual(t, got, prev, "elapsed decreased at %ds", s)
		prev = got
	}
}

func TestElapsedSeconds_FloorsSubSecond(t *testing.T) {
	e := newRunning(t)

	assert.Equal(t, int64(2), e.ElapsedSeconds(testNow.Add(2900*time.Millisecond)))
}

func TestElapsedSeconds_NeverNegative(t *testing.T) {
	e := newRunning(t)

	assert.Zero(t, e.ElapsedSeconds(testNow.Add(-time.Hour)))
}

func TestLiveMinutes(t *testing.T) {
	e := newRunning(t)
	assert.Equal(t, 2, e.LiveMinutes(at(179)))

	_, err := e.Stop(at(600), nil)
	require.NoError(t, err)
	assert.Equal(t, 10, e.LiveMinutes(at(99999)))
}

// =====================================================================
// Manual entries and edits
// =====================================================================

func TestNewManualEntry(t *testing.T) {
	e, err := NewManualEntry(ManualEntryParams{
		TicketID:   7,
		UserID:     3,
		StartedAt:  testNow,
		EndedAt:    testNow.Add(90 * time.Minute),
		IsBillable: true,
		Rates:      Rates{Billable: 100, Cost: 40},
	}, testNow)

	require.NoError(t, err)
	assert.True(t, e.IsManual())
	assert.Equal(t, SourceManual, e.Source())
	assert.Equal(t, 90, e.DurationMinutes())
	assert.Nil(t, e.ActiveKey())
	assert.InDelta(t, 150.0, e.BillableAmount(), 0.0001)
	assert.InDelta(t, 60.0, e.CostAmount(), 0.0001)
}

func TestNewManualEntry_Validation(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
		want error
	}{
		{"end before start", testNow.Add(-time.Minute), ErrInvalidRange},
		{"end equals start", testNow, ErrInvalidRange},
		{"under a minute", testNow.Add(59 * time.Second), ErrDurationTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManualEntry(ManualEntryParams{TicketID: 1, UserID: 1, StartedAt: testNow, EndedAt: tt.end}, testNow)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBillableAmount_NonBillableIsZero(t *testing.T) {
	e, err := NewManualEntry(ManualEntryParams{
		TicketID: 1, UserID: 1, StartedAt: testNow, EndedAt: testNow.Add(time.Hour),
		Rates: Rates{Billable: 100, Cost: 30},
	}, testNow)
	require.NoError(t, err)

	assert.Zero(t, e.BillableAmount())
	assert.InDelta(t, 30.0, e.CostAmount(), 0.0001)
}

func TestEdit(t *testing.T) {
	e := newRunning(t)
	assert.ErrorIs(t, e.Edit(testNow, at(600), true, Rates{}, at(700)), ErrEntryRunning)

	_, err := e.Stop(at(300), nil)
	require.NoError(t, err)

	require.NoError(t, e.Edit(testNow, at(1200), false, Rates{Cost: 10}, at(1300)))
	assert.Equal(t, 20, e.DurationMinutes())
	assert.False(t, e.IsBillable())

	assert.ErrorIs(t, e.Edit(testNow, at(30), true, Rates{}, at(1400)), ErrDurationTooShort)
	assert.Equal(t, 20, e.DurationMinutes())
}

// =====================================================================
// Aggregation
// =====================================================================

func TestComputeBreakdown(t *testing.T) {
	human, err := NewManualEntry(ManualEntryParams{TicketID: 7, UserID: 3, StartedAt: testNow, EndedAt: testNow.Add(30 * time.Minute)}, testNow)
	require.NoError(t, err)
	ai, err := NewManualEntry(ManualEntryParams{TicketID: 7, UserID: 9, StartedAt: testNow, EndedAt: testNow.Add(15 * time.Minute)}, testNow)
	require.NoError(t, err)
	running, err := StartTimer(7, 3, Rates{}, testNow)
	require.NoError(t, err)

	b := ComputeBreakdown([]*TimeEntry{human, ai, running}, func(id uint) bool { return id == 9 }, at(5*60+59))

	assert.Equal(t, Breakdown{Total: 50, Human: 35, AI: 15}, b)
}

func TestComputeBreakdown_NilPredicateCountsHuman(t *testing.T) {
	e, err := NewManualEntry(ManualEntryParams{TicketID: 7, UserID: 3, StartedAt: testNow, EndedAt: testNow.Add(5 * time.Minute)}, testNow)
	require.NoError(t, err)

	assert.Equal(t, Breakdown{Total: 5, Human: 5}, ComputeBreakdown([]*TimeEntry{e}, nil, testNow))
}

func TestLinkedMinutes(t *testing.T) {
	a, _ := NewManualEntry(ManualEntryParams{TicketID: 7, UserID: 3, CommentID: uintPtr(4), StartedAt: testNow, EndedAt: testNow.Add(5 * time.Minute)}, testNow)
	b, _ := NewManualEntry(ManualEntryParams{TicketID: 7, UserID: 3, CommentID: uintPtr(4), StartedAt: testNow, EndedAt: testNow.Add(7 * time.Minute)}, testNow)
	orphan, _ := NewManualEntry(ManualEntryParams{TicketID: 7, UserID: 3, StartedAt: testNow, EndedAt: testNow.Add(9 * time.Minute)}, testNow)

	assert.Equal(t, map[uint]int{4: 12}, LinkedMinutes([]*TimeEntry{a, b, orphan}))
}

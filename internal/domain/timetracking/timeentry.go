// Package timetracking models per-agent, per-ticket timers and the time entry ledger.
//
// A timer is the single entry of a (ticket, user) pair whose ended_at is unset.
// Its states are running, paused and stopped:
//
//	stopped -> running -> paused <-> running -> stopped
//
// Pause time is folded into paused_seconds on resume; all deltas are floored.
package timetracking

import (
	"fmt"
	"time"
)

type Source string

const (
	SourceTimer  Source = "timer"
	SourceManual Source = "manual"
)

type State string

const (
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateStopped State = "stopped"
)

// Rates are hourly amounts used for billing and cost reporting.
type Rates struct {
	Billable float64
	Cost     float64
}

type TimeEntry struct {
	id              uint
	ticketID        uint
	userID          uint
	commentID       *uint
	startedAt       time.Time
	endedAt         *time.Time
	pausedAt        *time.Time
	pausedSeconds   int64
	durationMinutes int
	isBillable      bool
	isManual        bool
	rates           Rates
	source          Source
	createdAt       time.Time
	updatedAt       time.Time
}

// StartTimer creates a running entry. Uniqueness of the active timer is enforced by storage.
func StartTimer(ticketID, userID uint, rates Rates, now time.Time) (*TimeEntry, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	return &TimeEntry{
		ticketID:   ticketID,
		userID:     userID,
		startedAt:  now,
		isBillable: true,
		rates:      rates,
		source:     SourceTimer,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ManualEntryParams describes time logged after the fact.
type ManualEntryParams struct {
	TicketID   uint
	UserID     uint
	CommentID  *uint
	StartedAt  time.Time
	EndedAt    time.Time
	IsBillable bool
	Rates      Rates
}

// NewManualEntry validates and creates an ended entry with source manual.
func NewManualEntry(p ManualEntryParams, now time.Time) (*TimeEntry, error) {
	if p.TicketID == 0 || p.UserID == 0 {
		return nil, fmt.Errorf("ticket ID and user ID are required")
	}
	minutes, err := ValidateRange(p.StartedAt, p.EndedAt)
	if err != nil {
		return nil, err
	}
	ended := p.EndedAt
	return &TimeEntry{
		ticketID:        p.TicketID,
		userID:          p.UserID,
		commentID:       normalizeCommentID(p.CommentID),
		startedAt:       p.StartedAt,
		endedAt:         &ended,
		durationMinutes: minutes,
		isBillable:      p.IsBillable,
		isManual:        true,
		rates:           p.Rates,
		source:          SourceManual,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ValidateRange requires end after start and at least one whole minute, returning the floored minutes.
func ValidateRange(start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, ErrInvalidRange
	}
	minutes := int(end.Sub(start) / time.Minute)
	if minutes < 1 {
		return 0, ErrDurationTooShort
	}
	return minutes, nil
}

// ReconstructParams mirrors every persisted time entry column.
type ReconstructParams struct {
	ID              uint
	TicketID        uint
	UserID          uint
	CommentID       *uint
	StartedAt       time.Time
	EndedAt         *time.Time
	PausedAt        *time.Time
	PausedSeconds   int64
	DurationMinutes int
	IsBillable      bool
	IsManual        bool
	Rates           Rates
	Source          Source
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func ReconstructTimeEntry(p ReconstructParams) (*TimeEntry, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("time entry ID cannot be zero")
	}
	source := p.Source
	if source == "" {
		source = SourceTimer
	}
	return &TimeEntry{
		id:              p.ID,
		ticketID:        p.TicketID,
		userID:          p.UserID,
		commentID:       p.CommentID,
		startedAt:       p.StartedAt,
		endedAt:         p.EndedAt,
		pausedAt:        p.PausedAt,
		pausedSeconds:   p.PausedSeconds,
		durationMinutes: p.DurationMinutes,
		isBillable:      p.IsBillable,
		isManual:        p.IsManual,
		rates:           p.Rates,
		source:          source,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}, nil
}

func (e *TimeEntry) ID() uint             { return e.id }
func (e *TimeEntry) TicketID() uint       { return e.ticketID }
func (e *TimeEntry) UserID() uint         { return e.userID }
func (e *TimeEntry) CommentID() *uint     { return e.commentID }
func (e *TimeEntry) StartedAt() time.Time { return e.startedAt }
func (e *TimeEntry) EndedAt() *time.Time  { return e.endedAt }
func (e *TimeEntry) PausedAt() *time.Time { return e.pausedAt }
func (e *TimeEntry) PausedSeconds() int64 { return e.pausedSeconds }
func (e *TimeEntry) DurationMinutes() int { return e.durationMinutes }
func (e *TimeEntry) IsBillable() bool     { return e.isBillable }
func (e *TimeEntry) IsManual() bool       { return e.isManual }
func (e *TimeEntry) Rates() Rates         { return e.rates }
func (e *TimeEntry) Source() Source       { return e.source }
func (e *TimeEntry) CreatedAt() time.Time { return e.createdAt }
func (e *TimeEntry) UpdatedAt() time.Time { return e.updatedAt }

func (e *TimeEntry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("time entry ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("time entry ID cannot be zero")
	}
	e.id = id
	return nil
}

// IsOrphan reports whether the entry is not attached to a comment.
func (e *TimeEntry) IsOrphan() bool { return e.commentID == nil }

func (e *TimeEntry) State() State {
	switch {
	case e.endedAt != nil:
		return StateStopped
	case e.pausedAt != nil:
		return StatePaused
	default:
		return StateRunning
	}
}

func (e *TimeEntry) IsActive() bool { return e.endedAt == nil }

func (e *TimeEntry) IsPaused() bool { return e.endedAt == nil && e.pausedAt != nil }

// ActiveKey is the value of the unique active_key column: set while the entry
// is running or paused, nil once stopped.
func (e *TimeEntry) ActiveKey() *string {
	if e.endedAt != nil {
		return nil
	}
	key := ActiveKeyFor(e.ticketID, e.userID)
	return &key
}

func ActiveKeyFor(ticketID, userID uint) string {
	return fmt.Sprintf("%d:%d", ticketID, userID)
}

// ElapsedSeconds is the worked time at now: wall time since start minus
// accumulated pauses minus the pause in progress, floored and never negative.
// Stopped entries report their recorded duration.
func (e *TimeEntry) ElapsedSeconds(now time.Time) int64 {
	if e.endedAt != nil {
		return int64(e.durationMinutes) * 60
	}
	elapsed := floorSeconds(now.Sub(e.startedAt)) - e.pausedSeconds
	if e.pausedAt != nil {
		elapsed -= floorSeconds(now.Sub(*e.pausedAt))
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// LiveMinutes is the entry's contribution to totals at now.
func (e *TimeEntry) LiveMinutes(now time.Time) int {
	if e.endedAt != nil {
		return e.durationMinutes
	}
	return int(e.ElapsedSeconds(now) / 60)
}

// Pause marks the running timer paused. The pause is folded into paused_seconds on resume.
func (e *TimeEntry) Pause(now time.Time) error {
	if e.endedAt != nil {
		return ErrNoActiveTimer
	}
	if e.pausedAt != nil {
		return ErrTimerPaused
	}
	paused := now
	e.pausedAt = &paused
	e.updatedAt = now
	return nil
}

// Resume folds the current pause into paused_seconds and returns the new total.
func (e *TimeEntry) Resume(now time.Time) (int64, error) {
	if e.endedAt != nil {
		return 0, ErrNoActiveTimer
	}
	if e.pausedAt == nil {
		return 0, ErrTimerNotPaused
	}
	if delta := floorSeconds(now.Sub(*e.pausedAt)); delta > 0 {
		e.pausedSeconds += delta
	}
	e.pausedAt = nil
	e.updatedAt = now
	return e.pausedSeconds, nil
}

// Stop ends the timer from running or paused, records floored whole minutes
// (zero is valid) and optionally links a comment.
func (e *TimeEntry) Stop(now time.Time, commentID *uint) (int, error) {
	if e.endedAt != nil {
		return 0, ErrNoActiveTimer
	}
	minutes := int(e.ElapsedSeconds(now) / 60)
	if e.pausedAt != nil {
		if delta := floorSeconds(now.Sub(*e.pausedAt)); delta > 0 {
			e.pausedSeconds += delta
		}
		e.pausedAt = nil
	}
	ended := now
	e.endedAt = &ended
	e.durationMinutes = minutes
	if c := normalizeCommentID(commentID); c != nil {
		e.commentID = c
	}
	e.updatedAt = now
	return minutes, nil
}

// AttachComment links the entry to a comment.
func (e *TimeEntry) AttachComment(commentID uint, now time.Time) {
	e.commentID = normalizeCommentID(&commentID)
	e.updatedAt = now
}

// Edit changes an ended entry. Edits need the same range as manual entries.
func (e *TimeEntry) Edit(start, end time.Time, billable bool, rates Rates, now time.Time) error {
	if e.endedAt == nil {
		return ErrEntryRunning
	}
	minutes, err := ValidateRange(start, end)
	if err != nil {
		return err
	}
	ended := end
	e.startedAt = start
	e.endedAt = &ended
	e.durationMinutes = minutes
	e.isBillable = billable
	e.rates = rates
	e.updatedAt = now
	return nil
}

// BillableAmount is duration_minutes/60 * billable rate, zero for non-billable entries.
func (e *TimeEntry) BillableAmount() float64 {
	if !e.isBillable {
		return 0
	}
	return float64(e.durationMinutes) / 60 * e.rates.Billable
}

// CostAmount is duration_minutes/60 * cost rate.
func (e *TimeEntry) CostAmount() float64 {
	return float64(e.durationMinutes) / 60 * e.rates.Cost
}

func floorSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

func normalizeCommentID(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

package dto

import (
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
)

// TimerActionResult is the JSON body of a timer action.
type TimerActionResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	ElapsedSeconds  *int64 `json:"elapsed_seconds,omitempty"`
	PausedSeconds   *int64 `json:"paused_seconds,omitempty"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
	EntryID         uint   `json:"entry_id,omitempty"`
}

type TimeEntryDTO struct {
	ID              uint       `json:"id"`
	TicketID        uint       `json:"ticket_id"`
	UserID          uint       `json:"user_id"`
	CommentID       *uint      `json:"comment_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationMinutes int        `json:"duration_minutes"`
	IsBillable      bool       `json:"is_billable"`
	IsManual        bool       `json:"is_manual"`
	Source          string     `json:"source"`
	BillableRate    float64    `json:"billable_rate"`
	CostRate        float64    `json:"cost_rate"`
	BillableAmount  float64    `json:"billable_amount"`
	CostAmount      float64    `json:"cost_amount"`
}

// RunningTimerDTO describes an active timer with live counters.
type RunningTimerDTO struct {
	EntryID        uint      `json:"entry_id"`
	TicketID       uint      `json:"ticket_id"`
	UserID         uint      `json:"user_id"`
	StartedAt      time.Time `json:"started_at"`
	ElapsedSeconds int64     `json:"elapsed_seconds"`
	PausedSeconds  int64     `json:"paused_seconds"`
	IsPaused       bool      `json:"is_paused"`
}

func ToTimeEntryDTO(e *timetracking.TimeEntry) *TimeEntryDTO {
	if e == nil {
		return nil
	}
	rates := e.Rates()
	return &TimeEntryDTO{
		ID:              e.ID(),
		TicketID:        e.TicketID(),
		UserID:          e.UserID(),
		CommentID:       e.CommentID(),
		StartedAt:       e.StartedAt(),
		EndedAt:         e.EndedAt(),
		DurationMinutes: e.DurationMinutes(),
		IsBillable:      e.IsBillable(),
		IsManual:        e.IsManual(),
		Source:          string(e.Source()),
		BillableRate:    rates.Billable,
		CostRate:        rates.Cost,
		BillableAmount:  e.BillableAmount(),
		CostAmount:      e.CostAmount(),
	}
}

func ToTimeEntryDTOs(entries []*timetracking.TimeEntry) []*TimeEntryDTO {
	out := make([]*TimeEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToTimeEntryDTO(e))
	}
	return out
}

func ToRunningTimerDTO(e *timetracking.TimeEntry, now time.Time) *RunningTimerDTO {
	if e == nil {
		return nil
	}
	paused := e.PausedSeconds()
	if p := e.PausedAt(); p != nil && now.After(*p) {
		paused += int64(now.Sub(*p) / time.Second)
	}
	return &RunningTimerDTO{
		EntryID:        e.ID(),
		TicketID:       e.TicketID(),
		UserID:         e.UserID(),
		StartedAt:      e.StartedAt(),
		ElapsedSeconds: e.ElapsedSeconds(now),
		PausedSeconds:  paused,
		IsPaused:       e.IsPaused(),
	}
}

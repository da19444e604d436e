package timetracking

import "errors"

var (
	ErrActiveTimerExists = errors.New("a timer is already running for this ticket")
	ErrNoActiveTimer     = errors.New("no active timer for this ticket")
	ErrTimerPaused       = errors.New("timer is already paused")
	ErrTimerNotPaused    = errors.New("timer is not paused")
	// ErrStateChanged is returned when a guarded update finds the row in a different state.
	ErrStateChanged     = errors.New("timer state changed by another request")
	ErrEntryRunning     = errors.New("running time entries cannot be edited")
	ErrInvalidRange     = errors.New("end time must be after start time")
	ErrDurationTooShort = errors.New("duration must be at least 1 minute")
)

// Package recurring models task templates that open a ticket every interval.
package recurring

import (
	"context"
	"fmt"
	"time"

	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
)

type Task struct {
	ID           uint
	Title        string
	Description  string
	CreatorID    uint
	AssigneeID   *uint
	Priority     vo.Priority
	IntervalDays int
	NextRunAt    time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t *Task) IsDue(now time.Time) bool {
	return t.IsActive && !t.NextRunAt.After(now)
}

// Advance moves NextRunAt forward by whole intervals until it is after now and
// returns how many intervals were skipped.
func (t *Task) Advance(now time.Time) (int, error) {
	if t.IntervalDays <= 0 {
		return 0, fmt.Errorf("recurring task %d has invalid interval %d", t.ID, t.IntervalDays)
	}
	step := time.Duration(t.IntervalDays) * 24 * time.Hour
	n := 0
	for !t.NextRunAt.After(now) {
		t.NextRunAt = t.NextRunAt.Add(step)
		n++
	}
	t.UpdatedAt = now
	return n, nil
}

type Repository interface {
	ListDue(ctx context.Context, now time.Time) ([]*Task, error)
	Create(ctx context.Context, task *Task) error
	// UpdateSchedule saves NextRunAt guarded by the previous value; a miss returns false.
	UpdateSchedule(ctx context.Context, task *Task, previous time.Time) (bool, error)
}

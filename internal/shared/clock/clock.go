// Package clock provides the time source used by time tracking and ingest.
// All storage and transport use UTC; production code injects Real and tests
// inject a Fake with deterministic time control.
package clock

import (
	"sync"
	"time"
)

// Clock abstracts reading the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// Real returns a Clock backed by the system time, always in UTC.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now().UTC() }

// FakeClock is a manually driven Clock for tests.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// Fake returns a FakeClock frozen at initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{now: initial.UTC()}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Set moves the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t.UTC()
	c.mu.Unlock()
}

// ToUnixMilli converts t to the millisecond timestamps used by persistence models.
func ToUnixMilli(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// FromUnixMilli converts a persisted millisecond timestamp to UTC time.
func FromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ToUnixMilliPtr converts an optional time, keeping nil as nil.
func ToUnixMilliPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := ToUnixMilli(*t)
	return &ms
}

// FromUnixMilliPtr converts an optional persisted timestamp, keeping nil as nil.
func FromUnixMilliPtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := FromUnixMilli(*ms)
	return &t
}

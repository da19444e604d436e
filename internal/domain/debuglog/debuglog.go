// Package debuglog records CLI run milestones for later inspection.
package debuglog

import (
	"context"
	"time"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

type Entry struct {
	ID        uint
	Channel   string
	Level     Level
	Message   string
	Context   map[string]any
	CreatedAt time.Time
}

type Repository interface {
	Append(ctx context.Context, entry *Entry) error
}

// Writer appends entries best-effort: errors are dropped.
type Writer interface {
	Write(ctx context.Context, channel string, level Level, message string, fields map[string]any)
}

package services

import (
	"context"
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/debuglog"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

const debugLogWriteTimeout = 2 * time.Second

// DebugLogWriter appends debug_log rows and swallows every failure. It is a
// no-op when the table is missing.
type DebugLogWriter struct {
	repo    debuglog.Repository
	enabled bool
	clock   clock.Clock
	logger  logger.Interface
}

func NewDebugLogWriter(repo debuglog.Repository, enabled bool, clk clock.Clock, log logger.Interface) *DebugLogWriter {
	return &DebugLogWriter{repo: repo, enabled: enabled && repo != nil, clock: clk, logger: log}
}

func (w *DebugLogWriter) Write(ctx context.Context, channel string, level debuglog.Level, message string, fields map[string]any) {
	if w == nil || !w.enabled {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.logger.Warnw("debug log write panicked", "channel", channel, "panic", r)
		}
	}()

	// A cancelled caller context must not drop the final "failed" row.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), debugLogWriteTimeout)
	defer cancel()

	entry := &debuglog.Entry{
		Channel:   channel,
		Level:     level,
		Message:   message,
		Context:   fields,
		CreatedAt: w.clock.Now(),
	}
	if err := w.repo.Append(writeCtx, entry); err != nil {
		w.logger.Debugw("failed to write debug log", "channel", channel, "error", err)
	}
}

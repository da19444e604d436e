package cliutil

import (
	"context"
	"maps"

	"github.com/orris-inc/helpdesk/internal/domain/debuglog"
)

// Track records start, success and failure entries for a command run on the
// debug log. fn returns extra fields for the success entry.
func Track(ctx context.Context, w debuglog.Writer, channel string, fields map[string]any, fn func() (map[string]any, error)) error {
	w.Write(ctx, channel, debuglog.LevelInfo, "started", fields)

	extra, err := fn()
	if err != nil {
		failed := maps.Clone(fields)
		if failed == nil {
			failed = map[string]any{}
		}
		failed["error"] = err.Error()
		w.Write(ctx, channel, debuglog.LevelError, "failed", failed)
		return err
	}

	done := maps.Clone(fields)
	if done == nil {
		done = map[string]any{}
	}
	maps.Copy(done, extra)
	w.Write(ctx, channel, debuglog.LevelInfo, "completed", done)
	return nil
}

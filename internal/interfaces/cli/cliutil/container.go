package cliutil

import (
	"context"
	"fmt"

	httpapi "github.com/orris-inc/helpdesk/internal/interfaces/http"
)

// Container wires the application against the open database. Callers must
// call Shutdown on the result.
func (e *Env) Container(ctx context.Context) (*httpapi.Container, error) {
	container, err := httpapi.NewContainer(ctx, e.DB, e.Cfg, e.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to build container: %w", err)
	}
	return container, nil
}

package storage

import (
	"context"
	"fmt"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/config"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// New returns the attachment store selected by cfg.Driver. An empty driver means local.
func New(ctx context.Context, cfg config.StorageConfig) (ticket.AttachmentStore, error) {
	switch cfg.Driver {
	case "", DriverLocal:
		path := cfg.LocalPath
		if path == "" {
			path = "./data/attachments"
		}
		return NewLocalStore(path)
	case DriverS3:
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

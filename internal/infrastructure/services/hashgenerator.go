package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/shared/constants"
	"github.com/orris-inc/helpdesk/internal/shared/id"
)

const (
	hashAttempts     = 5
	hashCheckTimeout = 2 * time.Second
)

// TicketHashGenerator draws random base62 hashes and skips ones already taken.
// The unique index on tickets.hash remains the final guard.
type TicketHashGenerator struct {
	db *gorm.DB
}

func NewTicketHashGenerator(db *gorm.DB) *TicketHashGenerator {
	return &TicketHashGenerator{db: db}
}

func (g *TicketHashGenerator) Generate() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), hashCheckTimeout)
	defer cancel()

	for range hashAttempts {
		hash, err := id.NewTicketHash()
		if err != nil {
			return "", err
		}
		var count int64
		if err := g.db.WithContext(ctx).
			Table(constants.TableTickets).
			Where("hash = ?", hash).
			Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check ticket hash: %w", err)
		}
		if count == 0 {
			return hash, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique ticket hash after %d attempts", hashAttempts)
}

package models

import (
	"github.com/orris-inc/helpdesk/internal/shared/constants"
)

// TimeEntryModel is one row of the time ledger. ActiveKey holds
// "<ticket_id>:<user_id>" while the timer runs and NULL once it ends; the
// unique index on it allows a single active timer per ticket and user.
type TimeEntryModel struct {
	ID              uint   `gorm:"primaryKey"`
	TicketID        uint   `gorm:"not null;index:idx_time_entries_ticket_user"`
	UserID          uint   `gorm:"not null;index:idx_time_entries_ticket_user"`
	CommentID       *uint  `gorm:"index"`
	StartedAt       int64  `gorm:"not null"`
	EndedAt         *int64 `gorm:"index"`
	PausedAt        *int64
	PausedSeconds   int64   `gorm:"not null;default:0"`
	DurationMinutes int     `gorm:"not null;default:0"`
	IsBillable      bool    `gorm:"not null"`
	IsManual        bool    `gorm:"not null;default:false"`
	BillableRate    float64 `gorm:"not null;default:0"`
	CostRate        float64 `gorm:"not null;default:0"`
	Source          string  `gorm:"size:10;not null;default:timer"`
	ActiveKey       *string `gorm:"size:64;uniqueIndex:uk_time_entries_active_key"`
	CreatedAt       int64   `gorm:"not null"`
	UpdatedAt       int64   `gorm:"not null"`
}

func (TimeEntryModel) TableName() string {
	return constants.TableTimeEntries
}

package models

import (
	"gorm.io/datatypes"

	"github.com/orris-inc/helpdesk/internal/shared/constants"
)

// ActivityLogModel is append-only.
type ActivityLogModel struct {
	ID        uint           `gorm:"primaryKey"`
	TicketID  uint           `gorm:"not null;index"`
	UserID    uint           `gorm:"not null"`
	Action    string         `gorm:"size:50;not null"`
	Details   datatypes.JSON `gorm:"type:json"`
	CreatedAt int64          `gorm:"not null;index"`
}

func (ActivityLogModel) TableName() string {
	return constants.TableActivityLog
}

// TicketHistoryModel is append-only.
type TicketHistoryModel struct {
	ID        uint   `gorm:"primaryKey"`
	TicketID  uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null"`
	FieldName string `gorm:"size:50;not null"`
	OldValue  string `gorm:"type:text"`
	NewValue  string `gorm:"type:text"`
	CreatedAt int64  `gorm:"not null"`
}

func (TicketHistoryModel) TableName() string {
	return constants.TableTicketHistory
}

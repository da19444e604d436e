package models

import (
	"gorm.io/datatypes"

	"github.com/orris-inc/helpdesk/internal/shared/constants"
)

type RecurringTaskModel struct {
	ID           uint   `gorm:"primaryKey"`
	Title        string `gorm:"size:255;not null"`
	Description  string `gorm:"type:text"`
	CreatorID    uint   `gorm:"not null"`
	AssigneeID   *uint
	Priority     string `gorm:"size:20;not null;default:medium"`
	IntervalDays int    `gorm:"not null"`
	NextRunAt    int64  `gorm:"not null;index"`
	IsActive     bool   `gorm:"not null;index"`
	CreatedAt    int64  `gorm:"not null"`
	UpdatedAt    int64  `gorm:"not null"`
}

func (RecurringTaskModel) TableName() string {
	return constants.TableRecurringTasks
}

type DebugLogModel struct {
	ID        uint           `gorm:"primaryKey"`
	Channel   string         `gorm:"size:50;not null;index"`
	Level     string         `gorm:"size:10;not null"`
	Message   string         `gorm:"type:text;not null"`
	Context   datatypes.JSON `gorm:"type:json"`
	CreatedAt int64          `gorm:"not null;index"`
}

func (DebugLogModel) TableName() string {
	return constants.TableDebugLog
}

// All returns every model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&TicketModel{},
		&CommentModel{},
		&TimeEntryModel{},
		&ActivityLogModel{},
		&TicketHistoryModel{},
		&TicketMessageModel{},
		&AttachmentModel{},
		&RecurringTaskModel{},
		&DebugLogModel{},
	}
}

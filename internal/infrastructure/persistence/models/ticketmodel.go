package models

import (
	"github.com/orris-inc/helpdesk/internal/shared/constants"
)

type TicketModel struct {
	ID             uint   `gorm:"primaryKey"`
	Hash           string `gorm:"uniqueIndex;size:32;not null"`
	Title          string `gorm:"size:255;not null"`
	Description    string `gorm:"type:text;not null"`
	Status         string `gorm:"size:20;not null;index"`
	Priority       string `gorm:"size:20;not null;index"`
	Type           string `gorm:"size:20;not null"`
	Source         string `gorm:"size:10;not null;default:web"`
	OrganizationID *uint  `gorm:"index"`
	CreatorID      uint   `gorm:"not null;index"`
	AssigneeID     *uint  `gorm:"index"`
	Tags           string `gorm:"size:1000;not null;default:''"`
	DueDate        *int64
	IsArchived     bool  `gorm:"not null;default:false;index"`
	Version        int   `gorm:"not null;default:1"`
	CreatedAt      int64 `gorm:"not null;index"`
	UpdatedAt      int64 `gorm:"not null"`
	ClosedAt       *int64

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

type CommentModel struct {
	ID         uint   `gorm:"primaryKey"`
	TicketID   uint   `gorm:"not null;index"`
	UserID     uint   `gorm:"not null;index"`
	Content    string `gorm:"type:text;not null"`
	IsInternal bool   `gorm:"not null;default:false"`
	TimeSpent  int    `gorm:"not null;default:0"`
	CreatedAt  int64  `gorm:"not null;index"`
	UpdatedAt  int64  `gorm:"not null"`
	EditedAt   *int64
}

func (CommentModel) TableName() string {
	return constants.TableTicketComments
}

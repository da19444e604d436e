package models

import (
	"github.com/orris-inc/helpdesk/internal/shared/constants"
)

// UserModel represents the database persistence model for users
type UserModel struct {
	ID             uint   `gorm:"primarykey"`
	Email          string `gorm:"uniqueIndex;not null;size:255"`
	Name           string `gorm:"not null;size:100"`
	Role           string `gorm:"not null;default:user;size:20;index"`
	IsAIAgent      bool   `gorm:"not null;default:false"`
	OrganizationID *uint  `gorm:"index"`
	CreatedAt      int64  `gorm:"not null"`
	UpdatedAt      int64  `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}

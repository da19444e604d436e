package models

import (
	"github.com/orris-inc/helpdesk/internal/shared/constants"
)

// TicketMessageModel keeps threading headers of inbound and outbound mail.
// References is stored space separated as in the mail header.
type TicketMessageModel struct {
	ID          uint   `gorm:"primaryKey"`
	TicketID    uint   `gorm:"not null;index"`
	CommentID   *uint  `gorm:"index"`
	Direction   string `gorm:"size:10;not null"`
	MessageID   string `gorm:"size:255;not null;uniqueIndex"`
	InReplyTo   string `gorm:"size:255"`
	References  string `gorm:"column:references_header;type:text"`
	FromAddress string `gorm:"size:255"`
	Subject     string `gorm:"size:500"`
	CreatedAt   int64  `gorm:"not null;index"`
}

func (TicketMessageModel) TableName() string {
	return constants.TableTicketMessages
}

type AttachmentModel struct {
	ID          uint   `gorm:"primaryKey"`
	TicketID    uint   `gorm:"not null;index"`
	CommentID   *uint  `gorm:"index"`
	UserID      uint   `gorm:"not null"`
	Filename    string `gorm:"size:255;not null"`
	ContentType string `gorm:"size:100;not null"`
	Size        int64  `gorm:"not null"`
	StorageKey  string `gorm:"size:500;not null"`
	CreatedAt   int64  `gorm:"not null"`
}

func (AttachmentModel) TableName() string {
	return constants.TableTicketAttachments
}

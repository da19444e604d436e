package ticket

import (
	"fmt"
	"strconv"
	"time"
)

const maxCommentLength = 65535

type Comment struct {
	id         uint
	ticketID   uint
	userID     uint
	content    string
	isInternal bool
	timeSpent  int
	createdAt  time.Time
	updatedAt  time.Time
	editedAt   *time.Time
}

// NewComment creates a comment. timeSpent is the legacy minutes summary and must not be negative.
func NewComment(
	ticketID uint,
	userID uint,
	content string,
	isInternal bool,
	timeSpent int,
	now time.Time,
) (*Comment, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}
	if timeSpent < 0 {
		return nil, fmt.Errorf("time spent cannot be negative")
	}

	return &Comment{
		ticketID:   ticketID,
		userID:     userID,
		content:    content,
		isInternal: isInternal,
		timeSpent:  timeSpent,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructComment(
	id uint,
	ticketID uint,
	userID uint,
	content string,
	isInternal bool,
	timeSpent int,
	createdAt, updatedAt time.Time,
	editedAt *time.Time,
) (*Comment, error) {
	if id == 0 {
		return nil, fmt.Errorf("comment ID cannot be zero")
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}

	return &Comment{
		id:         id,
		ticketID:   ticketID,
		userID:     userID,
		content:    content,
		isInternal: isInternal,
		timeSpent:  timeSpent,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		editedAt:   editedAt,
	}, nil
}

func (c *Comment) ID() uint             { return c.id }
func (c *Comment) TicketID() uint       { return c.ticketID }
func (c *Comment) UserID() uint         { return c.userID }
func (c *Comment) Content() string      { return c.content }
func (c *Comment) IsInternal() bool     { return c.isInternal }
func (c *Comment) TimeSpent() int       { return c.timeSpent }
func (c *Comment) CreatedAt() time.Time { return c.createdAt }
func (c *Comment) UpdatedAt() time.Time { return c.updatedAt }
func (c *Comment) EditedAt() *time.Time { return c.editedAt }

func (c *Comment) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("comment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("comment ID cannot be zero")
	}
	c.id = id
	return nil
}

// Edit replaces the content and returns the change for the ticket history.
func (c *Comment) Edit(content string, now time.Time) (FieldChange, bool, error) {
	if err := validateCommentContent(content); err != nil {
		return FieldChange{}, false, err
	}
	if content == c.content {
		return FieldChange{}, false, nil
	}
	change := FieldChange{
		Field:    FieldCommentPrefix + strconv.FormatUint(uint64(c.id), 10),
		OldValue: c.content,
		NewValue: content,
	}
	c.content = content
	c.updatedAt = now
	edited := now
	c.editedAt = &edited
	return change, true, nil
}

func validateCommentContent(content string) error {
	if len(content) == 0 {
		return fmt.Errorf("content cannot be empty")
	}
	if len(content) > maxCommentLength {
		return fmt.Errorf("content exceeds maximum length of %d bytes", maxCommentLength)
	}
	return nil
}

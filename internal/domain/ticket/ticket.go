package ticket

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 65535
)

type Ticket struct {
	id              uint
	hash            string
	title           string
	description     string
	status          vo.TicketStatus
	priority        vo.Priority
	ticketType      vo.TicketType
	source          vo.Source
	organizationID  *uint
	creatorID       uint
	assigneeID      *uint
	tags            []string
	dueDate         *time.Time
	isArchived      bool
	version         int
	originalVersion int
	createdAt       time.Time
	updatedAt       time.Time
	closedAt        *time.Time
}

// NewTicketParams carries the user-supplied fields of a new ticket.
type NewTicketParams struct {
	Hash           string
	Title          string
	Description    string
	Priority       vo.Priority
	Type           vo.TicketType
	Source         vo.Source
	CreatorID      uint
	OrganizationID *uint
	Tags           []string
	DueDate        *time.Time
}

func NewTicket(p NewTicketParams, now time.Time) (*Ticket, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, fmt.Errorf("title exceeds maximum length of %d characters", maxTitleLength)
	}
	if len(p.Description) > maxDescriptionLength {
		return nil, fmt.Errorf("description exceeds maximum length of %d bytes", maxDescriptionLength)
	}
	if p.Hash == "" {
		return nil, fmt.Errorf("ticket hash is required")
	}
	if !p.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if !p.Type.IsValid() {
		return nil, fmt.Errorf("invalid ticket type")
	}
	if !p.Source.IsValid() {
		return nil, fmt.Errorf("invalid source")
	}
	if p.CreatorID == 0 {
		return nil, fmt.Errorf("creator ID is required")
	}

	return &Ticket{
		hash:            p.Hash,
		title:           title,
		description:     p.Description,
		status:          vo.StatusNew,
		priority:        p.Priority,
		ticketType:      p.Type,
		source:          p.Source,
		organizationID:  p.OrganizationID,
		creatorID:       p.CreatorID,
		tags:            NormalizeTags(p.Tags),
		dueDate:         p.DueDate,
		version:         1,
		originalVersion: 1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructParams mirrors every persisted ticket column.
type ReconstructParams struct {
	ID             uint
	Hash           string
	Title          string
	Description    string
	Status         vo.TicketStatus
	Priority       vo.Priority
	Type           vo.TicketType
	Source         vo.Source
	OrganizationID *uint
	CreatorID      uint
	AssigneeID     *uint
	Tags           []string
	DueDate        *time.Time
	IsArchived     bool
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ClosedAt       *time.Time
}

func ReconstructTicket(p ReconstructParams) (*Ticket, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if p.Hash == "" {
		return nil, fmt.Errorf("ticket hash is required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", p.Status)
	}
	if !p.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", p.Priority)
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return &Ticket{
		id:              p.ID,
		hash:            p.Hash,
		title:           p.Title,
		description:     p.Description,
		status:          p.Status,
		priority:        p.Priority,
		ticketType:      p.Type,
		source:          p.Source,
		organizationID:  p.OrganizationID,
		creatorID:       p.CreatorID,
		assigneeID:      p.AssigneeID,
		tags:            tags,
		dueDate:         p.DueDate,
		isArchived:      p.IsArchived,
		version:         p.Version,
		originalVersion: p.Version,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
		closedAt:        p.ClosedAt,
	}, nil
}

func (t *Ticket) ID() uint                { return t.id }
func (t *Ticket) Hash() string            { return t.hash }
func (t *Ticket) Title() string           { return t.title }
func (t *Ticket) Description() string     { return t.description }
func (t *Ticket) Status() vo.TicketStatus { return t.status }
func (t *Ticket) Priority() vo.Priority   { return t.priority }
func (t *Ticket) Type() vo.TicketType     { return t.ticketType }
func (t *Ticket) Source() vo.Source       { return t.source }
func (t *Ticket) OrganizationID() *uint   { return t.organizationID }
func (t *Ticket) CreatorID() uint         { return t.creatorID }
func (t *Ticket) AssigneeID() *uint       { return t.assigneeID }
func (t *Ticket) DueDate() *time.Time     { return t.dueDate }
func (t *Ticket) IsArchived() bool        { return t.isArchived }
func (t *Ticket) Version() int            { return t.version }
func (t *Ticket) CreatedAt() time.Time    { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time    { return t.updatedAt }
func (t *Ticket) ClosedAt() *time.Time    { return t.closedAt }

// OriginalVersion is the version the ticket was loaded with; repositories use it
// as the optimistic lock when saving.
func (t *Ticket) OriginalVersion() int { return t.originalVersion }

// MarkSaved records that the current version is persisted.
func (t *Ticket) MarkSaved() { t.originalVersion = t.version }

func (t *Ticket) Tags() []string {
	return slices.Clone(t.tags)
}

// SubjectRef is the token placed in outbound subjects so replies can be matched.
func (t *Ticket) SubjectRef() string {
	return "[#" + t.hash + "]"
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

// IsOwnedBy reports whether userID created the ticket.
func (t *Ticket) IsOwnedBy(userID uint) bool {
	return t.creatorID == userID
}

// CanBeViewedBy allows staff and the ticket creator.
func (t *Ticket) CanBeViewedBy(actor authorization.Actor) bool {
	return actor.IsAgent() || t.creatorID == actor.UserID
}

func (t *Ticket) touch(now time.Time) {
	t.updatedAt = now
	if t.version == t.originalVersion {
		t.version++
	}
}

// Touch marks the ticket as updated, for example when a comment is added.
func (t *Ticket) Touch(now time.Time) {
	t.touch(now)
}

// AssignTo sets or clears (nil) the assignee. Assigning a new ticket opens it.
func (t *Ticket) AssignTo(assigneeID *uint, now time.Time) (FieldChange, bool) {
	if assigneeID != nil && *assigneeID == 0 {
		assigneeID = nil
	}
	if equalUintPtr(t.assigneeID, assigneeID) {
		return FieldChange{}, false
	}
	change := FieldChange{Field: FieldAssignee, OldValue: formatUintPtr(t.assigneeID), NewValue: formatUintPtr(assigneeID)}
	t.assigneeID = assigneeID
	if assigneeID != nil && t.status.IsNew() {
		t.status = vo.StatusOpen
	}
	t.touch(now)
	return change, true
}

// ChangeStatus moves the ticket along the status graph. Setting the current status is a no-op.
func (t *Ticket) ChangeStatus(newStatus vo.TicketStatus, now time.Time) (FieldChange, bool, error) {
	if !newStatus.IsValid() {
		return FieldChange{}, false, fmt.Errorf("invalid status: %s", newStatus)
	}
	if t.status == newStatus {
		return FieldChange{}, false, nil
	}
	if !t.status.CanTransitionTo(newStatus) {
		return FieldChange{}, false, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, t.status, newStatus)
	}

	change := FieldChange{Field: FieldStatus, OldValue: t.status.String(), NewValue: newStatus.String()}
	t.status = newStatus
	switch {
	case newStatus.IsClosed():
		if t.closedAt == nil {
			closed := now
			t.closedAt = &closed
		}
	case newStatus.IsReopened():
		t.closedAt = nil
	}
	t.touch(now)
	return change, true, nil
}

// ReopenOnReply reopens a resolved or closed ticket after a customer reply.
func (t *Ticket) ReopenOnReply(now time.Time) (FieldChange, bool) {
	if !t.status.IsTerminal() {
		return FieldChange{}, false
	}
	change, changed, err := t.ChangeStatus(vo.StatusReopened, now)
	if err != nil {
		return FieldChange{}, false
	}
	return change, changed
}

func (t *Ticket) ChangePriority(p vo.Priority, now time.Time) (FieldChange, bool, error) {
	if !p.IsValid() {
		return FieldChange{}, false, fmt.Errorf("invalid priority: %s", p)
	}
	if t.priority == p {
		return FieldChange{}, false, nil
	}
	change := FieldChange{Field: FieldPriority, OldValue: t.priority.String(), NewValue: p.String()}
	t.priority = p
	t.touch(now)
	return change, true, nil
}

func (t *Ticket) UpdateDescription(description string, now time.Time) (FieldChange, bool, error) {
	if len(description) > maxDescriptionLength {
		return FieldChange{}, false, fmt.Errorf("description exceeds maximum length of %d bytes", maxDescriptionLength)
	}
	if t.description == description {
		return FieldChange{}, false, nil
	}
	change := FieldChange{Field: FieldDescription, OldValue: t.description, NewValue: description}
	t.description = description
	t.touch(now)
	return change, true, nil
}

func (t *Ticket) SetTags(tags []string, now time.Time) (FieldChange, bool) {
	normalized := NormalizeTags(tags)
	if slices.Equal(t.tags, normalized) {
		return FieldChange{}, false
	}
	change := FieldChange{Field: FieldTags, OldValue: JoinTags(t.tags), NewValue: JoinTags(normalized)}
	t.tags = normalized
	t.touch(now)
	return change, true
}

func (t *Ticket) SetDueDate(due *time.Time, now time.Time) (FieldChange, bool) {
	if equalTimePtr(t.dueDate, due) {
		return FieldChange{}, false
	}
	change := FieldChange{Field: FieldDueDate, OldValue: formatTimePtr(t.dueDate), NewValue: formatTimePtr(due)}
	t.dueDate = due
	t.touch(now)
	return change, true
}

// Archive soft-deletes the ticket.
func (t *Ticket) Archive(now time.Time) error {
	if t.isArchived {
		return ErrAlreadyArchived
	}
	t.isArchived = true
	t.touch(now)
	return nil
}

// Restore brings an archived ticket back.
func (t *Ticket) Restore(now time.Time) error {
	if !t.isArchived {
		return ErrNotArchived
	}
	t.isArchived = false
	t.touch(now)
	return nil
}

// EnsureDeletable allows hard deletion only from the archive.
func (t *Ticket) EnsureDeletable() error {
	if !t.isArchived {
		return ErrNotArchived
	}
	return nil
}

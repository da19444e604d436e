package user

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/orris-inc/helpdesk/internal/domain/user/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
)

// User is a person (or automation agent) interacting with tickets.
type User struct {
	id             uint
	name           string
	email          *vo.Email
	role           authorization.UserRole
	isAIAgent      bool
	organizationID *uint
	createdAt      time.Time
	updatedAt      time.Time
}

// NewUser creates a user with the given role.
func NewUser(name string, email *vo.Email, role authorization.UserRole, now time.Time) (*User, error) {
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email.LocalPart()
	}
	return &User{
		name:      name,
		email:     email,
		role:      role,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// NewCustomerFromEmail provisions a customer account for an unknown inbound sender.
func NewCustomerFromEmail(displayName string, email *vo.Email, now time.Time) (*User, error) {
	return NewUser(displayName, email, authorization.RoleUser, now)
}

// ReconstructUser rebuilds a user from persistence.
func ReconstructUser(
	id uint,
	name string,
	email *vo.Email,
	role authorization.UserRole,
	isAIAgent bool,
	organizationID *uint,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	return &User{
		id:             id,
		name:           name,
		email:          email,
		role:           role,
		isAIAgent:      isAIAgent,
		organizationID: organizationID,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (u *User) ID() uint                     { return u.id }
func (u *User) Name() string                 { return u.name }
func (u *User) Email() *vo.Email             { return u.email }
func (u *User) Role() authorization.UserRole { return u.role }
func (u *User) IsAIAgent() bool              { return u.isAIAgent }
func (u *User) OrganizationID() *uint        { return u.organizationID }
func (u *User) CreatedAt() time.Time         { return u.createdAt }
func (u *User) UpdatedAt() time.Time         { return u.updatedAt }

// IsAgent reports whether the user is staff (agent or admin).
func (u *User) IsAgent() bool { return u.role.IsAgent() }

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// Actor returns the authorization identity of the user.
func (u *User) Actor() authorization.Actor {
	return authorization.Actor{UserID: u.id, Role: u.role}
}

package user

import "context"

// Repository defines user persistence. Lookups of a missing user return (nil, nil).
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ListAgents returns all users with the agent or admin role.
	ListAgents(ctx context.Context) ([]*User, error)
}

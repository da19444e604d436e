package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/orris-inc/helpdesk/internal/domain/user/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
)

func TestNewCustomerFromEmail(t *testing.T) {
	email, err := vo.NewEmail("Jane <jane@example.com>")
	require.NoError(t, err)

	u, err := NewCustomerFromEmail("", email, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "jane", u.Name())
	assert.Equal(t, authorization.RoleUser, u.Role())
	assert.False(t, u.IsAgent())
	assert.False(t, u.IsAIAgent())
}

func TestNewUser_InvalidRole(t *testing.T) {
	email, _ := vo.NewEmail("a@example.com")
	_, err := NewUser("A", email, authorization.UserRole("root"), time.Now())
	assert.Error(t, err)
}

func TestUser_Actor(t *testing.T) {
	email, _ := vo.NewEmail("agent@example.com")
	u, err := ReconstructUser(4, "Agent", email, authorization.RoleAgent, false, nil, time.Now(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, authorization.Actor{UserID: 4, Role: authorization.RoleAgent}, u.Actor())
	assert.True(t, u.IsAgent())
}

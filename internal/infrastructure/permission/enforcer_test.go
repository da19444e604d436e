package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

func TestEnforcer_RoleMatrix(t *testing.T) {
	e, err := NewEnforcer(logger.NewDiscard())
	require.NoError(t, err)

	tests := []struct {
		role     authorization.UserRole
		resource string
		action   string
		want     bool
	}{
		{authorization.RoleUser, ResourceTicket, ActionCreate, true},
		{authorization.RoleUser, ResourceComment, ActionCreate, true},
		{authorization.RoleUser, ResourceTimer, ActionManage, false},
		{authorization.RoleUser, ResourceTicket, ActionManage, false},
		{authorization.RoleAgent, ResourceTimer, ActionManage, true},
		{authorization.RoleAgent, ResourceTicket, ActionRead, true},
		{authorization.RoleAgent, ResourceTicket, ActionDelete, false},
		{authorization.RoleAgent, ResourceTimeEntry, ActionManage, false},
		{authorization.RoleAgent, ResourceEmailIngest, ActionRun, false},
		{authorization.RoleAdmin, ResourceTimer, ActionManage, true},
		{authorization.RoleAdmin, ResourceEmailIngest, ActionRun, true},
		{authorization.RoleAdmin, ResourceTimeEntry, ActionManage, true},
		{authorization.UserRole("guest"), ResourceTicket, ActionRead, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.Allowed(tt.role, tt.resource, tt.action),
			"%s %s %s", tt.role, tt.resource, tt.action)
	}
}

func TestEnforcer_AddPolicy(t *testing.T) {
	e, err := NewEnforcer(logger.NewDiscard())
	require.NoError(t, err)

	require.False(t, e.Allowed(authorization.RoleUser, ResourceTimeEntry, ActionRead))
	require.NoError(t, e.AddPolicy(authorization.RoleUser, ResourceTimeEntry, ActionRead))
	assert.True(t, e.Allowed(authorization.RoleUser, ResourceTimeEntry, ActionRead))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy([]byte(`
inherits:
  agent: user
roles:
  user:
    ticket: [read]
  agent:
    timer: [manage]
`))
	require.NoError(t, err)

	e, err := NewEnforcerWithPolicy(p, logger.NewDiscard())
	require.NoError(t, err)
	assert.True(t, e.Allowed(authorization.RoleAgent, ResourceTicket, ActionRead))
	assert.False(t, e.Allowed(authorization.RoleUser, ResourceTimer, ActionManage))
}

func TestParsePolicy_RejectsUnknownRole(t *testing.T) {
	_, err := ParsePolicy([]byte("roles:\n  root:\n    ticket: [delete]\n"))
	assert.EqualError(t, err, "unknown role in policy: root")
}

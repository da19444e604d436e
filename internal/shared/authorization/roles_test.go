package authorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserRole(t *testing.T) {
	assert.Equal(t, RoleAgent, ParseUserRole("agent"))
	assert.Equal(t, RoleAdmin, ParseUserRole("admin"))
	assert.Equal(t, RoleUser, ParseUserRole("root"))
	assert.Equal(t, RoleUser, ParseUserRole(""))
}

func TestCanModifyOwned(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		owner uint
		want  bool
	}{
		{"admin any entry", Actor{UserID: 1, Role: RoleAdmin}, 9, true},
		{"agent own entry", Actor{UserID: 5, Role: RoleAgent}, 5, true},
		{"agent other entry", Actor{UserID: 5, Role: RoleAgent}, 6, false},
		{"customer own entry", Actor{UserID: 7, Role: RoleUser}, 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModifyOwned(tt.actor, tt.owner))
		})
	}
}

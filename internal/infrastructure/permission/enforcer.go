// Package permission maps roles to the resources and actions they may use.
package permission

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"gopkg.in/yaml.v3"

	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// Resources.
const (
	ResourceTicket      = "ticket"
	ResourceComment     = "comment"
	ResourceTimer       = "timer"
	ResourceTimeEntry   = "time_entry"
	ResourceEmailIngest = "email_ingest"
)

// Actions.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionManage = "manage"
	ActionRun    = "run"
)

// RBAC with role inheritance: admin > agent > user.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

//go:embed policy.yaml
var defaultPolicyYAML []byte

// Policy is the role matrix: role -> resource -> actions, plus role inheritance.
type Policy struct {
	Inherits map[string]string              `yaml:"inherits"`
	Roles    map[string]map[string][]string `yaml:"roles"`
}

// ParsePolicy reads a role matrix document.
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse role policy: %w", err)
	}
	for role := range p.Roles {
		if !authorization.UserRole(role).IsValid() {
			return nil, fmt.Errorf("unknown role in policy: %s", role)
		}
	}
	return &p, nil
}

func (p *Policy) rules() [][]string {
	var out [][]string
	for role, resources := range p.Roles {
		for resource, actions := range resources {
			for _, action := range actions {
				out = append(out, []string{role, resource, action})
			}
		}
	}
	return out
}

func (p *Policy) groupings() [][]string {
	var out [][]string
	for role, parent := range p.Inherits {
		out = append(out, []string{role, parent})
	}
	return out
}

// Enforcer evaluates the in-memory role policy.
type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer loads the built-in role policy.
func NewEnforcer(log logger.Interface) (*Enforcer, error) {
	policy, err := ParsePolicy(defaultPolicyYAML)
	if err != nil {
		return nil, err
	}
	return NewEnforcerWithPolicy(policy, log)
}

func NewEnforcerWithPolicy(policy *Policy, log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if rules := policy.rules(); len(rules) > 0 {
		if _, err := enforcer.AddPolicies(rules); err != nil {
			return nil, fmt.Errorf("failed to add policies: %w", err)
		}
	}
	if groupings := policy.groupings(); len(groupings) > 0 {
		if _, err := enforcer.AddGroupingPolicies(groupings); err != nil {
			return nil, fmt.Errorf("failed to add role inheritance: %w", err)
		}
	}

	return &Enforcer{enforcer: enforcer, logger: log}, nil
}

// Allowed reports whether role may perform action on resource. Errors deny.
func (e *Enforcer) Allowed(role authorization.UserRole, resource, action string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role.String(), resource, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
		return false
	}
	return allowed
}

func (e *Enforcer) AddPolicy(role authorization.UserRole, resource, action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(role.String(), resource, action); err != nil {
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}

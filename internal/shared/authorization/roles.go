package authorization

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleAgent UserRole = "agent"
	RoleUser  UserRole = "user"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// IsAgent reports whether the role belongs to staff: admins count as agents.
func (r UserRole) IsAgent() bool {
	return r == RoleAdmin || r == RoleAgent
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleAgent || r == RoleUser
}

func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleUser
}

// Actor identifies the user performing an operation. It is built once per
// request (or per CLI run) and passed explicitly into use case commands.
type Actor struct {
	UserID uint
	Role   UserRole
}

func (a Actor) IsAdmin() bool { return a.Role.IsAdmin() }

func (a Actor) IsAgent() bool { return a.Role.IsAgent() }

// SystemActor is used by background jobs such as email ingest and recurring tasks.
func SystemActor() Actor {
	return Actor{UserID: 0, Role: RoleAdmin}
}

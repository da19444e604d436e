package authorization

// RequestContext is the authenticated caller of one HTTP request, built by the
// auth middleware and read by handlers.
type RequestContext struct {
	UserID  uint
	Role    UserRole
	IsAgent bool
	// CSRFToken is the double-submit token issued to this session.
	CSRFToken string
}

func NewRequestContext(userID uint, role UserRole, csrfToken string) *RequestContext {
	return &RequestContext{
		UserID:    userID,
		Role:      role,
		IsAgent:   role.IsAgent(),
		CSRFToken: csrfToken,
	}
}

// Actor converts the request caller into the identity passed to use cases.
func (r *RequestContext) Actor() Actor {
	return Actor{UserID: r.UserID, Role: r.Role}
}

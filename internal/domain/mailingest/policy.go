package mailingest

import (
	uservo "github.com/orris-inc/helpdesk/internal/domain/user/valueobjects"
)

// SenderPolicy decides whether mail from an unknown address may create a user.
type SenderPolicy struct {
	AllowUnknown   bool
	AllowedDomains []string
}

// AllowsUnknown reports whether an unregistered sender is accepted.
func (p SenderPolicy) AllowsUnknown(email *uservo.Email) bool {
	if p.AllowUnknown {
		return true
	}
	domain := email.Domain()
	for _, d := range p.AllowedDomains {
		if uservo.NormalizeDomain(d) == domain {
			return true
		}
	}
	return false
}

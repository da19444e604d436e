package valueobjects

import (
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/text/cases"
)

var domainFolder = cases.Fold()

// Email represents a normalized email address.
type Email struct {
	value string
}

// NewEmail parses value (a bare address or "Name <addr>") and normalizes it:
// surrounding space trimmed, local part lowercased, domain case-folded.
func NewEmail(value string) (*Email, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}
	if len(trimmed) > 255 {
		return nil, fmt.Errorf("email cannot exceed 255 characters")
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid email format: %s", value)
	}

	at := strings.LastIndex(addr.Address, "@")
	if at <= 0 || at == len(addr.Address)-1 {
		return nil, fmt.Errorf("invalid email format: %s", value)
	}
	local := strings.ToLower(addr.Address[:at])
	domain := NormalizeDomain(addr.Address[at+1:])

	return &Email{value: local + "@" + domain}, nil
}

// NormalizeDomain case-folds a mail domain and strips a trailing dot.
func NormalizeDomain(domain string) string {
	return strings.TrimSuffix(domainFolder.String(strings.TrimSpace(domain)), ".")
}

func (e *Email) String() string {
	return e.value
}

func (e *Email) Equals(other *Email) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.value == other.value
}

// Domain returns the part after the @.
func (e *Email) Domain() string {
	return e.value[strings.LastIndex(e.value, "@")+1:]
}

// LocalPart returns the part before the @.
func (e *Email) LocalPart() string {
	return e.value[:strings.LastIndex(e.value, "@")]
}

package valueobjects

import "fmt"

// TicketType classifies what the requester needs.
type TicketType string

const (
	TypeQuestion TicketType = "question"
	TypeIncident TicketType = "incident"
	TypeProblem  TicketType = "problem"
	TypeTask     TicketType = "task"
)

func (t TicketType) String() string {
	return string(t)
}

func (t TicketType) IsValid() bool {
	switch t {
	case TypeQuestion, TypeIncident, TypeProblem, TypeTask:
		return true
	}
	return false
}

// NewTicketType parses s, defaulting an empty value to question.
func NewTicketType(s string) (TicketType, error) {
	if s == "" {
		return TypeQuestion, nil
	}
	t := TicketType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid ticket type: %s", s)
	}
	return t, nil
}

// Source records the channel a ticket arrived through.
type Source string

const (
	SourceWeb   Source = "web"
	SourceEmail Source = "email"
)

func (s Source) String() string {
	return string(s)
}

func (s Source) IsValid() bool {
	return s == SourceWeb || s == SourceEmail
}

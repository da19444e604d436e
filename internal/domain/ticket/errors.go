package ticket

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyArchived   = errors.New("ticket is already archived")
	ErrNotArchived       = errors.New("ticket is not archived")
)

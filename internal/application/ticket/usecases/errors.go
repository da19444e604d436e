package usecases

import (
	stderrors "errors"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
)

// translateTimeError maps sentinels raised inside ticket transactions to application errors.
func translateTimeError(err error) error {
	if err == nil || errors.IsAppError(err) {
		return err
	}
	switch {
	case stderrors.Is(err, timetracking.ErrNoActiveTimer):
		return errors.NewNotFoundError(err.Error())
	case stderrors.Is(err, timetracking.ErrStateChanged),
		stderrors.Is(err, timetracking.ErrActiveTimerExists):
		return errors.NewConflictError(err.Error())
	case stderrors.Is(err, timetracking.ErrInvalidRange),
		stderrors.Is(err, timetracking.ErrDurationTooShort):
		return errors.NewValidationError(err.Error())
	case stderrors.Is(err, ticket.ErrInvalidTransition),
		stderrors.Is(err, ticket.ErrAlreadyArchived),
		stderrors.Is(err, ticket.ErrNotArchived):
		return errors.NewInvalidStateError(err.Error())
	}
	return err
}

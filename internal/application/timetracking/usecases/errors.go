package usecases

import (
	"errors"

	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	apperrors "github.com/orris-inc/helpdesk/internal/shared/errors"
)

// translateError maps time tracking sentinels to application errors.
func translateError(err error) error {
	if err == nil || apperrors.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, timetracking.ErrNoActiveTimer):
		return apperrors.NewNotFoundError(err.Error())
	case errors.Is(err, timetracking.ErrTimerPaused),
		errors.Is(err, timetracking.ErrTimerNotPaused),
		errors.Is(err, timetracking.ErrEntryRunning):
		return apperrors.NewInvalidStateError(err.Error())
	case errors.Is(err, timetracking.ErrActiveTimerExists),
		errors.Is(err, timetracking.ErrStateChanged):
		return apperrors.NewConflictError(err.Error())
	case errors.Is(err, timetracking.ErrInvalidRange),
		errors.Is(err, timetracking.ErrDurationTooShort):
		return apperrors.NewValidationError(err.Error())
	default:
		return apperrors.NewInternalError("time tracking operation failed", err.Error())
	}
}

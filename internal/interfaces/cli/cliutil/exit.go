package cliutil

import "errors"

// ExitCodeFailure is returned by commands whose run reported a failure.
const ExitCodeFailure = 2

// ExitError carries a process exit code through cobra.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "command failed"
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Fail wraps err with ExitCodeFailure.
func Fail(err error) error {
	return &ExitError{Code: ExitCodeFailure, Err: err}
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Package apperr defines the error taxonomy shared by the booking flow.
package apperr

import "errors"

var (
	// ErrBusy means the settings resource lock is held by another request.
	// The caller should retry later; no data was lost.
	ErrBusy = errors.New("another request is being processed")

	// ErrConflict means the requested slot was already booked at commit time.
	ErrConflict = errors.New("slot already booked")

	// ErrNotFound means a reschedule target was missing from the audit sheet.
	ErrNotFound = errors.New("reservation not found")
)

// ValidationError is malformed settings or booking input, rejected before
// any external call. The message is surfaced verbatim to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError with the given message.
func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ExternalError wraps a failed calendar/spreadsheet/notification call.
type ExternalError struct {
	Op  string
	Err error
}

func (e *ExternalError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *ExternalError) Unwrap() error { return e.Err }

// External wraps err as an ExternalError for the given operation.
func External(op string, err error) error {
	return &ExternalError{Op: op, Err: err}
}

// IsExternal reports whether err is an ExternalError.
func IsExternal(err error) bool {
	var ee *ExternalError
	return errors.As(err, &ee)
}

package session

import "fmt"

type ErrorCode string

const (
	ErrorInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrorConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrorRelay         ErrorCode = "RELAY_ERROR"
	ErrorInternal      ErrorCode = "INTERNAL_ERROR"
)

// Error is the typed failure the caller renders inline in place of the
// loading indicator. It never terminates the session.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("session: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("session: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

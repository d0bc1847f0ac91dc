package task

import (
	"errors"
	"fmt"
)

// decodeError wraps a malformed-input failure.
type decodeError struct{ err error }

func (e decodeError) Error() string { return "invalid input: " + e.err.Error() }
func (e decodeError) Unwrap() error { return e.err }

func errDecode(format string, args ...any) error {
	return decodeError{err: fmt.Errorf(format, args...)}
}

// IsDecodeError reports whether err came from decoding the request payload.
func IsDecodeError(err error) bool {
	var e decodeError
	var v ValidationError
	return errors.As(err, &e) || errors.As(err, &v)
}

// ValidationError is a well-formed input that breaks a task rule. Its message
// is returned verbatim.
type ValidationError struct{ Msg string }

func (e ValidationError) Error() string { return e.Msg }

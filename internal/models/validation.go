package models

import (
	"errors"
	"fmt"
)

// ValidationError reports an invariant violation. Writes failing validation
// are rejected before anything reaches the database.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Invalidf builds a ValidationError.
func Invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

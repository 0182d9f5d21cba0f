package models

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the referenced record or customer does not exist in the store.
var ErrNotFound = errors.New("record not found")

// ErrStoreUnavailable indicates the backing store could not be read or written.
var ErrStoreUnavailable = errors.New("store unavailable")

// ValidationError reports a violated field invariant. The operation that
// produced it must leave prior state untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

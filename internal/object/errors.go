package object

import (
	"errors"
	"fmt"
)

// Common mutation error types
var (
	// ErrUnknownField is returned when an update names a field the type
	// does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrTypeMismatch is returned when an update value is incompatible
	// with the declared field type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// MutationError reports a rejected mutation. It is local to the object the
// call targeted; no other state is affected.
type MutationError struct {
	Type  string // type tag of the target object
	Field string
	Err   error
}

// Error implements the error interface.
func (e *MutationError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Type, e.Field, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// IsUnknownField returns true if the error is ErrUnknownField.
func IsUnknownField(err error) bool {
	return errors.Is(err, ErrUnknownField)
}

// IsTypeMismatch returns true if the error is ErrTypeMismatch.
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

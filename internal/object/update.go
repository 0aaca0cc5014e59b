package object

import (
	"fmt"
	"math"
)

// Applier validates and applies one field of a bulk update. Generated types
// build a table of these, one per mutable primitive field.
type Applier struct {
	Check func(v any) error
	Apply func(v any)
}

// ApplyUpdate applies a field-name to value map atomically: either every
// entry names a declared field and carries a compatible value and all are
// applied, or none are and a MutationError is returned. The resulting state
// is identical to mutating each field directly.
func ApplyUpdate(typeTag string, fields map[string]Applier, values map[string]any) error {
	// First pass: reject the whole update before touching anything.
	for name, v := range values {
		ap, ok := fields[name]
		if !ok {
			return &MutationError{Type: typeTag, Field: name, Err: ErrUnknownField}
		}
		if err := ap.Check(v); err != nil {
			return &MutationError{Type: typeTag, Field: name, Err: err}
		}
	}

	// Second pass: every entry is valid, apply all.
	for name, v := range values {
		fields[name].Apply(v)
	}
	return nil
}

// The As* helpers coerce dynamically typed values into declared primitive
// types. They accept the widened forms JSON decoding produces (every number
// arrives as float64) so records round-trip through any textual store.

// AsString coerces v to a string.
func AsString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", ErrTypeMismatch, v)
	}
	return s, nil
}

// AsFloat coerces v to a float64.
func AsFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: expected float, got %T", ErrTypeMismatch, v)
	}
}

// AsInt coerces v to an int64. Floats are accepted only when integral, since
// JSON stores deliver every number as float64.
func AsInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: expected int, got fractional %v", ErrTypeMismatch, n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: expected int, got %T", ErrTypeMismatch, v)
	}
}

// AsBool coerces v to a bool.
func AsBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected bool, got %T", ErrTypeMismatch, v)
	}
	return b, nil
}

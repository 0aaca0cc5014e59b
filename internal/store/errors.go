// Package store persists whole object graphs to keyed record stores and
// reconstructs them with a two-phase load. It ships three interchangeable
// store backends: a single-file JSON store, an embedded SQLite store, and a
// PostgreSQL store.
package store

import (
	"errors"
	"fmt"

	"github.com/orrery-db/orrery/internal/identity"
)

// Corruption reasons
var (
	// ErrUnknownTypeTag is returned when a record's type tag has no
	// registered deserializer.
	ErrUnknownTypeTag = errors.New("unknown type tag")

	// ErrIdentityCollision is returned when two records carry the same
	// identity, or a loaded identity is already live in the target service.
	ErrIdentityCollision = errors.New("identity collision")

	// ErrMissingReference is returned when phase 2 cannot resolve an
	// identity recorded in phase 1. Every identity written to a store must
	// exist in it; skipping the miss would silently corrupt the graph.
	ErrMissingReference = errors.New("missing reference")

	// ErrMalformedRecord is returned for records failing structural checks.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrNoRoot is returned when a store carries no root marker.
	ErrNoRoot = errors.New("store has no root marker")

	// ErrDanglingReference is returned by Save when a live object holds an
	// association whose target was already destroyed. Persisting the
	// identity anyway would guarantee a corrupt store.
	ErrDanglingReference = errors.New("dangling association reference")
)

// CorruptionError reports an unloadable store. It is fatal to the load call
// that hit it; partial in-memory state is discarded before it is returned.
type CorruptionError struct {
	ID  identity.ID // offending identity, if known
	Err error
}

// Error implements the error interface.
func (e *CorruptionError) Error() string {
	if e.ID != identity.None {
		return fmt.Sprintf("corrupt store: %s: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("corrupt store: %v", e.Err)
}

// Unwrap returns the underlying reason.
func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// IOError reports a failed interaction with the underlying storage medium.
// The operation that hit it aborted cleanly without partial output.
type IOError struct {
	Op  string // "write", "read", "open"
	Err error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *IOError) Unwrap() error {
	return e.Err
}

// IsCorruption returns true if err is a CorruptionError.
func IsCorruption(err error) bool {
	var ce *CorruptionError
	return errors.As(err, &ce)
}

// IsIOError returns true if err is an IOError.
func IsIOError(err error) bool {
	var ioe *IOError
	return errors.As(err, &ioe)
}

package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/orrery-db/orrery/internal/identity"
	"github.com/orrery-db/orrery/internal/object"
)

// Store is a keyed record store: conceptually {identity -> record} plus one
// root marker and a store instance ID. Writes replace the whole store
// content; there is no incremental persistence.
type Store interface {
	// WriteAll replaces the store content with recs and marks root.
	// The write is atomic where the medium allows: a failure leaves the
	// previous content intact.
	WriteAll(ctx context.Context, recs []*object.Record, root identity.ID) error

	// ReadAll returns every record and the root marker.
	ReadAll(ctx context.Context) ([]*object.Record, identity.ID, error)

	// StoreID returns the instance identifier assigned on first write.
	StoreID() uuid.UUID
}

package object

import (
	"fmt"

	"github.com/orrery-db/orrery/internal/identity"
)

// Record is the self-describing serialized form of one object instance.
// Owned children and association targets appear as identities, never as
// embedded copies: the on-disk graph is pointer-shaped, and the persistence
// engine re-links it on load.
type Record struct {
	// Type is the tag the engine dispatches on during load.
	Type string `json:"type"`

	// ID is the instance's persisted identity.
	ID identity.ID `json:"id"`

	// Fields holds the primitive field values by field name.
	Fields map[string]any `json:"fields,omitempty"`

	// Children maps each child field name to the owned identities in
	// insertion order. Order is significant and preserved across a
	// round-trip.
	Children map[string][]identity.ID `json:"children,omitempty"`

	// Refs maps each association field name to its target identity. An
	// absent key is the null marker.
	Refs map[string]identity.ID `json:"refs,omitempty"`
}

// NewRecord builds an empty record for the given type tag and identity.
func NewRecord(typeTag string, id identity.ID) *Record {
	return &Record{
		Type:   typeTag,
		ID:     id,
		Fields: make(map[string]any),
	}
}

// SetChildren records the owned identities for a child field, preserving
// order.
func (r *Record) SetChildren(field string, ids []identity.ID) {
	if r.Children == nil {
		r.Children = make(map[string][]identity.ID)
	}
	r.Children[field] = ids
}

// SetRef records an association target. A nil handle is stored as the null
// marker (no entry).
func (r *Record) SetRef(field string, h Handle) {
	if h.IsNil() {
		return
	}
	if r.Refs == nil {
		r.Refs = make(map[string]identity.ID)
	}
	r.Refs[field] = h.ID()
}

// Ref returns the association target for field and whether one was recorded.
func (r *Record) Ref(field string) (identity.ID, bool) {
	id, ok := r.Refs[field]
	return id, ok
}

// Validate checks the structural minimum every record must satisfy before
// the engine dispatches on it.
func (r *Record) Validate() error {
	if r.Type == "" {
		return fmt.Errorf("record %s has no type tag", r.ID)
	}
	if r.ID == identity.None {
		return fmt.Errorf("record of type %s has no identity", r.Type)
	}
	return nil
}

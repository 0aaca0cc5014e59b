// Package object defines the uniform contract every generated object type
// satisfies: identity, ownership traversal, serialization to records,
// two-phase deserialization, and cascading release. The code generator emits
// one concrete type per schema klass; this package holds everything those
// types share, plus the handle and dispatch machinery the persistence engine
// builds on. The objtest subpackage is a hand-maintained copy of generator
// output used as the reference fixture.
package object

import (
	"fmt"

	"github.com/orrery-db/orrery/internal/identity"
)

// Object is the runtime contract of a generated type instance.
//
// Serialize and Link are the two halves of the persistence round-trip:
// Serialize produces a self-describing record holding child and association
// identities (never embedded copies), and Link resolves those identities
// back into live references once every instance of the graph has been
// constructed. Between construction and Link an instance is skeletal: its
// primitive fields are populated and its identity registered, nothing else.
type Object interface {
	// ObjectID returns the immutable identity assigned at construction.
	ObjectID() identity.ID

	// TypeTag returns the stable tag the persistence engine dispatches on.
	TypeTag() string

	// Serialize produces the instance's record: type tag, identity,
	// primitive field values, owned-child identities per child field in
	// insertion order, and association identities.
	Serialize() *Record

	// Link resolves the child and association identities recorded in rec
	// into live references. Children are attached in recorded order.
	// A resolution miss surfaces identity.ErrNotFound.
	Link(rec *Record, svc *identity.Service) error

	// OwnedChildren returns every directly owned child in insertion order.
	OwnedChildren() []Object

	// AssociatedIDs returns the identities of every association target
	// currently held, excluding the parent back-reference.
	AssociatedIDs() []identity.ID

	// Release destroys the instance: owned children are released first,
	// then the instance unregisters itself. There is no way to destroy an
	// owned instance except through its owner.
	Release()
}

// Handle is a non-owning reference to an object. The underlying object may
// be destroyed at any time; Resolve fails with identity.ErrNotFound instead
// of ever handing out a dead target. Generated types wrap Handle with typed
// promote accessors.
type Handle struct {
	id  identity.ID
	svc *identity.Service
}

// NewHandle builds a handle for id resolved against svc.
func NewHandle(id identity.ID, svc *identity.Service) Handle {
	return Handle{id: id, svc: svc}
}

// NilHandle is the null association marker.
var NilHandle = Handle{}

// ID returns the referenced identity, or identity.None for a nil handle.
func (h Handle) ID() identity.ID {
	return h.id
}

// IsNil reports whether the handle references nothing.
func (h Handle) IsNil() bool {
	return h.id == identity.None
}

// Resolve promotes the handle to a live object. This is the only way to get
// a strong reference out of a handle; it fails cleanly if the target was
// destroyed.
func (h Handle) Resolve() (Object, error) {
	if h.IsNil() {
		return nil, fmt.Errorf("%w: nil handle", identity.ErrNotFound)
	}
	v, err := h.svc.Resolve(h.id)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("identity %s is not an object (%T)", h.id, v)
	}
	return obj, nil
}

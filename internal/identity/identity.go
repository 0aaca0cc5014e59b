// Package identity issues process-unique object identifiers and maintains a
// weak registry from identifier to live object. The registry never owns the
// objects it indexes: ownership lives with each object's parent, and a
// destroyed object is removed with Unregister, after which stale identities
// resolve to ErrNotFound.
//
// A Service is scoped to one constructed or loaded graph. Independent graphs
// must use independent Service instances; there is no process-wide singleton.
package identity

import (
	"errors"
	"fmt"
	"sync"
)

// ID is a process-unique, monotonically increasing object identifier. IDs
// are stable for the lifetime of the process and are persisted as-is; they
// are never reused after an object is released.
type ID uint64

// None is the zero ID; no object ever carries it.
const None ID = 0

// String implements fmt.Stringer.
func (id ID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

// ErrNotFound is returned when an identity was never registered or its
// object has since been destroyed. Stale identities are expected during
// partial graph construction; the caller decides whether a miss is fatal.
var ErrNotFound = errors.New("identity not found")

// Service issues identities and resolves them to live objects.
type Service struct {
	mu      sync.RWMutex
	last    uint64
	objects map[ID]any
}

// NewService creates an identity service scoped to one object graph.
func NewService() *Service {
	return &Service{objects: make(map[ID]any)}
}

// NextID returns an identity strictly greater than every identity this
// service has issued or observed.
func (s *Service) NextID() ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return ID(s.last)
}

// Register inserts a weak registry entry for id. It does not extend the
// object's lifetime. Registering also advances the issue counter past id so
// identities loaded from a store never collide with freshly issued ones.
func (s *Service) Register(id ID, obj any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id] = obj
	if uint64(id) > s.last {
		s.last = uint64(id)
	}
}

// Resolve looks up the object registered under id. It returns ErrNotFound
// if the identity was never registered or has been unregistered since.
func (s *Service) Resolve(id ID) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return obj, nil
}

// Registered reports whether id currently resolves.
func (s *Service) Registered(id ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[id]
	return ok
}

// Unregister removes the entry for id. Associations still holding id will
// resolve to ErrNotFound afterwards. Unregistering an unknown id is a no-op.
func (s *Service) Unregister(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, id)
}

// Len returns the number of live registry entries.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// IsNotFound reports whether err is an identity miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

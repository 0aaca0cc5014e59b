package object

import (
	"fmt"
	"sort"
	"sync"

	"github.com/orrery-db/orrery/internal/identity"
)

// DeserializeFunc constructs a skeletal instance from its record: primitive
// fields populated, identity registered with svc, children and associations
// untouched. The persistence engine links the graph afterwards.
type DeserializeFunc func(rec *Record, svc *identity.Service) (Object, error)

// Registry maps type tags to deserialize factories. The persistence engine
// dispatches on it during phase 1 of a load. A registry is built once per
// generated package and passed explicitly; there is no global instance.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]DeserializeFunc
}

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]DeserializeFunc)}
}

// Register binds a type tag to its deserialize factory.
func (r *Registry) Register(typeTag string, fn DeserializeFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[typeTag]; exists {
		return fmt.Errorf("type tag %s is already registered", typeTag)
	}
	r.factories[typeTag] = fn
	return nil
}

// MustRegister is Register panicking on duplicate tags; generated packages
// call it from their registry constructor where a duplicate is a generator
// bug.
func (r *Registry) MustRegister(typeTag string, fn DeserializeFunc) {
	if err := r.Register(typeTag, fn); err != nil {
		panic(err)
	}
}

// Deserializer returns the factory for typeTag.
func (r *Registry) Deserializer(typeTag string) (DeserializeFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.factories[typeTag]
	return fn, ok
}

// Tags returns all registered type tags, sorted.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

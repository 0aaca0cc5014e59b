package object

import (
	"sort"
	"sync"
)

// FieldChange represents a change to a single field.
type FieldChange struct {
	Field    string
	OldValue any
	NewValue any
}

// Tracker records which fields of an instance changed since the last save.
// Mutators mark it; the persistence engine reads and resets it. It carries
// no meaning for the mutation contract itself.
type Tracker struct {
	mu      sync.RWMutex
	changes map[string]*FieldChange
}

// NewTracker creates an empty change tracker.
func NewTracker() *Tracker {
	return &Tracker{changes: make(map[string]*FieldChange)}
}

// Mark records that field changed from old to new. Marking a field twice
// keeps the first old value and the latest new value.
func (t *Tracker) Mark(field string, old, new any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.changes[field]; ok {
		prev.NewValue = new
		return
	}
	t.changes[field] = &FieldChange{Field: field, OldValue: old, NewValue: new}
}

// Changed returns true if the specified field has changed.
func (t *Tracker) Changed(field string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.changes[field]
	return ok
}

// ChangedFields returns the names of all changed fields, sorted.
func (t *Tracker) ChangedFields() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	fields := make([]string, 0, len(t.changes))
	for field := range t.changes {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// GetChange returns the FieldChange for a specific field, or nil if
// unchanged.
func (t *Tracker) GetChange(field string) *FieldChange {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.changes[field]
}

// HasChanges returns true if any fields have changed.
func (t *Tracker) HasChanges() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.changes) > 0
}

// Len returns the number of changed fields.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.changes)
}

// Reset clears all tracked changes. Called after a successful save.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.changes = make(map[string]*FieldChange)
}

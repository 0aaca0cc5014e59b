package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/orrery-db/orrery/internal/identity"
	"github.com/orrery-db/orrery/internal/object"
)

// Engine round-trips whole ownership trees through a Store. Save and Load
// are blocking, synchronous, whole-graph operations; a save must not race
// with mutation of the same tree, and a failed load is retried from the
// beginning.
type Engine struct {
	types *object.Registry
	log   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine creates an engine dispatching on the given type registry.
func NewEngine(types *object.Registry, opts ...Option) *Engine {
	e := &Engine{types: types, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Save serializes root and everything reachable from it into dst: the full
// ownership tree depth-first, plus every association target, each exactly
// once. An association whose target is not owned-reachable from root is
// still written so loading can resolve the reference; such records stay in
// the store even if no saved root ever owns them. A live association whose
// target was already destroyed fails the save with ErrDanglingReference
// rather than persisting an identity the store cannot contain.
func (e *Engine) Save(ctx context.Context, root object.Object, svc *identity.Service, dst Store) error {
	visited := make(map[identity.ID]bool)
	var objs []object.Object
	var records []*object.Record

	var visit func(obj object.Object) error
	visit = func(obj object.Object) error {
		id := obj.ObjectID()
		if visited[id] {
			return nil
		}
		visited[id] = true
		objs = append(objs, obj)
		records = append(records, obj.Serialize())

		for _, child := range obj.OwnedChildren() {
			if err := visit(child); err != nil {
				return err
			}
		}
		for _, aid := range obj.AssociatedIDs() {
			if visited[aid] {
				continue
			}
			v, err := svc.Resolve(aid)
			if err != nil {
				return fmt.Errorf("%w: %s held by %s", ErrDanglingReference, aid, id)
			}
			target, ok := v.(object.Object)
			if !ok {
				return fmt.Errorf("identity %s resolves to %T, not an object", aid, v)
			}
			if err := visit(target); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(root); err != nil {
		return err
	}

	dirty := 0
	for _, obj := range objs {
		if c, ok := obj.(interface{ Changes() *object.Tracker }); ok && c.Changes().HasChanges() {
			dirty++
		}
	}

	if err := dst.WriteAll(ctx, records, root.ObjectID()); err != nil {
		return err
	}

	// The store now reflects current state; clear dirty marks.
	for _, obj := range objs {
		if r, ok := obj.(interface{ ResetChanges() }); ok {
			r.ResetChanges()
		}
	}

	e.log.Debug("saved object graph",
		zap.Stringer("root", root.ObjectID()),
		zap.Int("records", len(records)),
		zap.Int("dirty", dirty),
		zap.String("store_id", dst.StoreID().String()),
	)
	return nil
}

// Load reconstructs the graph stored in src into svc and returns the root.
//
// Phase 1 constructs a skeletal instance per record in file order; no
// instance depends on another existing yet, so order does not matter.
// Phase 2 links: every recorded child and association identity is resolved
// and attached, children in their recorded order. Any structural defect
// (unknown tag, malformed record, identity collision, unresolvable
// reference) aborts with a CorruptionError, and everything constructed so
// far is unregistered so the caller never sees a half-linked graph.
func (e *Engine) Load(ctx context.Context, src Store, svc *identity.Service) (object.Object, error) {
	recs, rootID, err := src.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if rootID == identity.None {
		return nil, &CorruptionError{Err: ErrNoRoot}
	}

	type entry struct {
		obj object.Object
		rec *object.Record
	}
	built := make([]entry, 0, len(recs))
	seen := make(map[identity.ID]bool, len(recs))

	discard := func() {
		for _, en := range built {
			svc.Unregister(en.obj.ObjectID())
		}
	}

	// Phase 1: construct.
	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			discard()
			return nil, &CorruptionError{ID: rec.ID, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
		}
		if seen[rec.ID] || svc.Registered(rec.ID) {
			discard()
			return nil, &CorruptionError{ID: rec.ID, Err: ErrIdentityCollision}
		}
		fn, ok := e.types.Deserializer(rec.Type)
		if !ok {
			discard()
			return nil, &CorruptionError{ID: rec.ID, Err: fmt.Errorf("%w: %s", ErrUnknownTypeTag, rec.Type)}
		}
		obj, err := fn(rec, svc)
		if err != nil {
			discard()
			return nil, &CorruptionError{ID: rec.ID, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
		}
		seen[rec.ID] = true
		built = append(built, entry{obj, rec})
	}

	// Phase 2: link. Forward references always resolve because every
	// instance already exists.
	for _, en := range built {
		if err := en.obj.Link(en.rec, svc); err != nil {
			discard()
			if identity.IsNotFound(err) {
				return nil, &CorruptionError{ID: en.rec.ID, Err: fmt.Errorf("%w: %v", ErrMissingReference, err)}
			}
			return nil, &CorruptionError{ID: en.rec.ID, Err: err}
		}
	}

	rootVal, err := svc.Resolve(rootID)
	if err != nil {
		discard()
		return nil, &CorruptionError{ID: rootID, Err: fmt.Errorf("%w: root marker", ErrMissingReference)}
	}
	root, ok := rootVal.(object.Object)
	if !ok {
		discard()
		return nil, &CorruptionError{ID: rootID, Err: fmt.Errorf("root resolves to %T, not an object", rootVal)}
	}

	e.log.Debug("loaded object graph",
		zap.Stringer("root", rootID),
		zap.Int("records", len(recs)),
		zap.String("store_id", src.StoreID().String()),
	)
	return root, nil
}

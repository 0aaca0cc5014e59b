// Package objtest is a hand-maintained copy of generator output for the
// solar-system schema. It exists so the runtime packages have a concrete
// generated package to test against; any change to the generated-type
// contract lands here first.
package objtest

import (
	"fmt"

	"github.com/orrery-db/orrery/internal/identity"
	"github.com/orrery-db/orrery/internal/object"
)

// Type tags dispatched on by the persistence engine.
const (
	TagSolarSystem = "solar.SolarSystem"
	TagPlanet      = "solar.Planet"
	TagMoon        = "solar.Moon"
)

// NewTypeRegistry builds the dispatch registry for this generated package.
func NewTypeRegistry() *object.Registry {
	r := object.NewRegistry()
	r.MustRegister(TagSolarSystem, DeserializeSolarSystem)
	r.MustRegister(TagPlanet, DeserializePlanet)
	r.MustRegister(TagMoon, DeserializeMoon)
	return r
}

// SolarSystem is a root klass: it owns its planets and has no parent.
type SolarSystem struct {
	id      identity.ID
	svc     *identity.Service
	tracker *object.Tracker

	name    string
	planets []*Planet
}

// NewSolarSystem creates a root solar system registered with svc.
func NewSolarSystem(svc *identity.Service, name string) *SolarSystem {
	s := &SolarSystem{
		id:      svc.NextID(),
		svc:     svc,
		tracker: object.NewTracker(),
		name:    name,
	}
	svc.Register(s.id, s)
	return s
}

// ObjectID implements object.Object.
func (s *SolarSystem) ObjectID() identity.ID { return s.id }

// TypeTag implements object.Object.
func (s *SolarSystem) TypeTag() string { return TagSolarSystem }

// Name returns the system name.
func (s *SolarSystem) Name() string { return s.name }

// SetName updates the system name.
func (s *SolarSystem) SetName(v string) {
	s.tracker.Mark("name", s.name, v)
	s.name = v
}

// Planets returns the owned planets in insertion order. The slice is shared;
// callers must not mutate it.
func (s *SolarSystem) Planets() []*Planet { return s.planets }

// Handle returns a non-owning handle to the system.
func (s *SolarSystem) Handle() object.Handle {
	return object.NewHandle(s.id, s.svc)
}

// Changes exposes the dirty tracker.
func (s *SolarSystem) Changes() *object.Tracker { return s.tracker }

// ResetChanges clears the dirty tracker after a save.
func (s *SolarSystem) ResetChanges() { s.tracker.Reset() }

// Update applies a field map atomically.
func (s *SolarSystem) Update(values map[string]any) error {
	return object.ApplyUpdate(TagSolarSystem, map[string]object.Applier{
		"name": {
			Check: func(v any) error { _, err := object.AsString(v); return err },
			Apply: func(v any) { val, _ := object.AsString(v); s.SetName(val) },
		},
	}, values)
}

// Serialize implements object.Object.
func (s *SolarSystem) Serialize() *object.Record {
	rec := object.NewRecord(TagSolarSystem, s.id)
	rec.Fields["name"] = s.name

	ids := make([]identity.ID, len(s.planets))
	for i, p := range s.planets {
		ids[i] = p.id
	}
	rec.SetChildren("planets", ids)
	return rec
}

// DeserializeSolarSystem constructs a skeletal system from its record.
func DeserializeSolarSystem(rec *object.Record, svc *identity.Service) (object.Object, error) {
	s := &SolarSystem{id: rec.ID, svc: svc, tracker: object.NewTracker()}

	name, err := object.AsString(rec.Fields["name"])
	if err != nil {
		return nil, fmt.Errorf("%s name: %w", TagSolarSystem, err)
	}
	s.name = name

	svc.Register(s.id, s)
	return s, nil
}

// Link implements object.Object: attaches owned planets in recorded order.
func (s *SolarSystem) Link(rec *object.Record, svc *identity.Service) error {
	for _, id := range rec.Children["planets"] {
		v, err := svc.Resolve(id)
		if err != nil {
			return fmt.Errorf("planets: %w", err)
		}
		p, ok := v.(*Planet)
		if !ok {
			return fmt.Errorf("planets: identity %s is %T, expected Planet", id, v)
		}
		p.solarSystem = object.NewHandle(s.id, svc)
		s.planets = append(s.planets, p)
	}
	return nil
}

// OwnedChildren implements object.Object.
func (s *SolarSystem) OwnedChildren() []object.Object {
	out := make([]object.Object, len(s.planets))
	for i, p := range s.planets {
		out[i] = p
	}
	return out
}

// AssociatedIDs implements object.Object.
func (s *SolarSystem) AssociatedIDs() []identity.ID { return nil }

// Release destroys the system and every planet (and moon) it owns.
func (s *SolarSystem) Release() {
	for _, p := range s.planets {
		p.Release()
	}
	s.planets = nil
	s.svc.Unregister(s.id)
}

// Planet is owned by a SolarSystem. Its solar_system field is the parent
// back-reference; nearest_neighbor is a weak association to another planet.
type Planet struct {
	id      identity.ID
	svc     *identity.Service
	tracker *object.Tracker

	name          string
	mass          float64
	dwarf         bool
	semiMajorAxis float64
	orbitalPeriod float64

	solarSystem object.Handle
	neighbor    object.Handle
	moons       []*Moon
}

// NewPlanet creates a planet owned by owner. The returned pointer is a
// non-owning convenience; the owner's planet list holds the owning
// reference, and the planet lives exactly as long as its owner keeps it.
func NewPlanet(owner *SolarSystem, name string) *Planet {
	p := &Planet{
		id:          owner.svc.NextID(),
		svc:         owner.svc,
		tracker:     object.NewTracker(),
		name:        name,
		solarSystem: owner.Handle(),
	}
	owner.svc.Register(p.id, p)
	owner.planets = append(owner.planets, p)
	return p
}

// ObjectID implements object.Object.
func (p *Planet) ObjectID() identity.ID { return p.id }

// TypeTag implements object.Object.
func (p *Planet) TypeTag() string { return TagPlanet }

// Name returns the planet name.
func (p *Planet) Name() string { return p.name }

// SetName updates the planet name.
func (p *Planet) SetName(v string) {
	p.tracker.Mark("name", p.name, v)
	p.name = v
}

// Mass returns the mass in 10^24 kg.
func (p *Planet) Mass() float64 { return p.mass }

// SetMass updates the mass.
func (p *Planet) SetMass(v float64) {
	p.tracker.Mark("mass", p.mass, v)
	p.mass = v
}

// Dwarf reports whether this is a dwarf planet.
func (p *Planet) Dwarf() bool { return p.dwarf }

// SetDwarf updates the dwarf flag.
func (p *Planet) SetDwarf(v bool) {
	p.tracker.Mark("dwarf", p.dwarf, v)
	p.dwarf = v
}

// SemiMajorAxis returns the orbit's semi-major axis in AU.
func (p *Planet) SemiMajorAxis() float64 { return p.semiMajorAxis }

// SetSemiMajorAxis updates the semi-major axis.
func (p *Planet) SetSemiMajorAxis(v float64) {
	p.tracker.Mark("semi_major_axis", p.semiMajorAxis, v)
	p.semiMajorAxis = v
}

// OrbitalPeriod returns the orbital period in Earth years.
func (p *Planet) OrbitalPeriod() float64 { return p.orbitalPeriod }

// SetOrbitalPeriod updates the orbital period.
func (p *Planet) SetOrbitalPeriod(v float64) {
	p.tracker.Mark("orbital_period", p.orbitalPeriod, v)
	p.orbitalPeriod = v
}

// SolarSystem promotes the parent back-reference.
func (p *Planet) SolarSystem() (*SolarSystem, error) {
	obj, err := p.solarSystem.Resolve()
	if err != nil {
		return nil, err
	}
	return obj.(*SolarSystem), nil
}

// SetNeighbor points the nearest_neighbor association at other. The
// association never affects other's lifetime.
func (p *Planet) SetNeighbor(other *Planet) {
	p.neighbor = other.Handle()
}

// ClearNeighbor resets the association to the null marker.
func (p *Planet) ClearNeighbor() {
	p.neighbor = object.NilHandle
}

// HasNeighbor reports whether the association is set. A set association may
// still fail to promote if its target was destroyed.
func (p *Planet) HasNeighbor() bool { return !p.neighbor.IsNil() }

// Neighbor promotes the nearest_neighbor association. Returns
// identity.ErrNotFound if the association is unset or its target destroyed.
func (p *Planet) Neighbor() (*Planet, error) {
	obj, err := p.neighbor.Resolve()
	if err != nil {
		return nil, err
	}
	return obj.(*Planet), nil
}

// Moons returns the owned moons in insertion order.
func (p *Planet) Moons() []*Moon { return p.moons }

// Handle returns a non-owning handle to the planet.
func (p *Planet) Handle() object.Handle {
	return object.NewHandle(p.id, p.svc)
}

// Changes exposes the dirty tracker.
func (p *Planet) Changes() *object.Tracker { return p.tracker }

// ResetChanges clears the dirty tracker after a save.
func (p *Planet) ResetChanges() { p.tracker.Reset() }

// Update applies a field map atomically.
func (p *Planet) Update(values map[string]any) error {
	return object.ApplyUpdate(TagPlanet, map[string]object.Applier{
		"name": {
			Check: func(v any) error { _, err := object.AsString(v); return err },
			Apply: func(v any) { val, _ := object.AsString(v); p.SetName(val) },
		},
		"mass": {
			Check: func(v any) error { _, err := object.AsFloat(v); return err },
			Apply: func(v any) { val, _ := object.AsFloat(v); p.SetMass(val) },
		},
		"dwarf": {
			Check: func(v any) error { _, err := object.AsBool(v); return err },
			Apply: func(v any) { val, _ := object.AsBool(v); p.SetDwarf(val) },
		},
		"semi_major_axis": {
			Check: func(v any) error { _, err := object.AsFloat(v); return err },
			Apply: func(v any) { val, _ := object.AsFloat(v); p.SetSemiMajorAxis(val) },
		},
		"orbital_period": {
			Check: func(v any) error { _, err := object.AsFloat(v); return err },
			Apply: func(v any) { val, _ := object.AsFloat(v); p.SetOrbitalPeriod(val) },
		},
	}, values)
}

// Serialize implements object.Object.
func (p *Planet) Serialize() *object.Record {
	rec := object.NewRecord(TagPlanet, p.id)
	rec.Fields["name"] = p.name
	rec.Fields["mass"] = p.mass
	rec.Fields["dwarf"] = p.dwarf
	rec.Fields["semi_major_axis"] = p.semiMajorAxis
	rec.Fields["orbital_period"] = p.orbitalPeriod

	ids := make([]identity.ID, len(p.moons))
	for i, m := range p.moons {
		ids[i] = m.id
	}
	rec.SetChildren("moons", ids)
	rec.SetRef("nearest_neighbor", p.neighbor)
	return rec
}

// DeserializePlanet constructs a skeletal planet from its record.
func DeserializePlanet(rec *object.Record, svc *identity.Service) (object.Object, error) {
	p := &Planet{id: rec.ID, svc: svc, tracker: object.NewTracker()}

	var err error
	if p.name, err = object.AsString(rec.Fields["name"]); err != nil {
		return nil, fmt.Errorf("%s name: %w", TagPlanet, err)
	}
	if p.mass, err = object.AsFloat(rec.Fields["mass"]); err != nil {
		return nil, fmt.Errorf("%s mass: %w", TagPlanet, err)
	}
	if p.dwarf, err = object.AsBool(rec.Fields["dwarf"]); err != nil {
		return nil, fmt.Errorf("%s dwarf: %w", TagPlanet, err)
	}
	if p.semiMajorAxis, err = object.AsFloat(rec.Fields["semi_major_axis"]); err != nil {
		return nil, fmt.Errorf("%s semi_major_axis: %w", TagPlanet, err)
	}
	if p.orbitalPeriod, err = object.AsFloat(rec.Fields["orbital_period"]); err != nil {
		return nil, fmt.Errorf("%s orbital_period: %w", TagPlanet, err)
	}

	svc.Register(p.id, p)
	return p, nil
}

// Link implements object.Object: attaches moons and the neighbor
// association. The parent back-reference is set by the owner's Link.
func (p *Planet) Link(rec *object.Record, svc *identity.Service) error {
	for _, id := range rec.Children["moons"] {
		v, err := svc.Resolve(id)
		if err != nil {
			return fmt.Errorf("moons: %w", err)
		}
		m, ok := v.(*Moon)
		if !ok {
			return fmt.Errorf("moons: identity %s is %T, expected Moon", id, v)
		}
		m.planet = object.NewHandle(p.id, svc)
		p.moons = append(p.moons, m)
	}

	if id, ok := rec.Ref("nearest_neighbor"); ok {
		if _, err := svc.Resolve(id); err != nil {
			return fmt.Errorf("nearest_neighbor: %w", err)
		}
		p.neighbor = object.NewHandle(id, svc)
	}
	return nil
}

// OwnedChildren implements object.Object.
func (p *Planet) OwnedChildren() []object.Object {
	out := make([]object.Object, len(p.moons))
	for i, m := range p.moons {
		out[i] = m
	}
	return out
}

// AssociatedIDs implements object.Object.
func (p *Planet) AssociatedIDs() []identity.ID {
	if p.neighbor.IsNil() {
		return nil
	}
	return []identity.ID{p.neighbor.ID()}
}

// Release destroys the planet and its moons. Only the owning SolarSystem
// calls this.
func (p *Planet) Release() {
	for _, m := range p.moons {
		m.Release()
	}
	p.moons = nil
	p.svc.Unregister(p.id)
}

// Moon is owned by a Planet.
type Moon struct {
	id      identity.ID
	svc     *identity.Service
	tracker *object.Tracker

	name   string
	planet object.Handle
}

// NewMoon creates a moon owned by owner.
func NewMoon(owner *Planet, name string) *Moon {
	m := &Moon{
		id:      owner.svc.NextID(),
		svc:     owner.svc,
		tracker: object.NewTracker(),
		name:    name,
		planet:  owner.Handle(),
	}
	owner.svc.Register(m.id, m)
	owner.moons = append(owner.moons, m)
	return m
}

// ObjectID implements object.Object.
func (m *Moon) ObjectID() identity.ID { return m.id }

// TypeTag implements object.Object.
func (m *Moon) TypeTag() string { return TagMoon }

// Name returns the moon name.
func (m *Moon) Name() string { return m.name }

// SetName updates the moon name.
func (m *Moon) SetName(v string) {
	m.tracker.Mark("name", m.name, v)
	m.name = v
}

// Planet promotes the parent back-reference.
func (m *Moon) Planet() (*Planet, error) {
	obj, err := m.planet.Resolve()
	if err != nil {
		return nil, err
	}
	return obj.(*Planet), nil
}

// Handle returns a non-owning handle to the moon.
func (m *Moon) Handle() object.Handle {
	return object.NewHandle(m.id, m.svc)
}

// Changes exposes the dirty tracker.
func (m *Moon) Changes() *object.Tracker { return m.tracker }

// ResetChanges clears the dirty tracker after a save.
func (m *Moon) ResetChanges() { m.tracker.Reset() }

// Update applies a field map atomically.
func (m *Moon) Update(values map[string]any) error {
	return object.ApplyUpdate(TagMoon, map[string]object.Applier{
		"name": {
			Check: func(v any) error { _, err := object.AsString(v); return err },
			Apply: func(v any) { val, _ := object.AsString(v); m.SetName(val) },
		},
	}, values)
}

// Serialize implements object.Object.
func (m *Moon) Serialize() *object.Record {
	rec := object.NewRecord(TagMoon, m.id)
	rec.Fields["name"] = m.name
	return rec
}

// DeserializeMoon constructs a skeletal moon from its record.
func DeserializeMoon(rec *object.Record, svc *identity.Service) (object.Object, error) {
	m := &Moon{id: rec.ID, svc: svc, tracker: object.NewTracker()}

	var err error
	if m.name, err = object.AsString(rec.Fields["name"]); err != nil {
		return nil, fmt.Errorf("%s name: %w", TagMoon, err)
	}

	svc.Register(m.id, m)
	return m, nil
}

// Link implements object.Object. Moons hold no children or associations;
// the parent back-reference is set by the owning planet's Link.
func (m *Moon) Link(rec *object.Record, svc *identity.Service) error { return nil }

// OwnedChildren implements object.Object.
func (m *Moon) OwnedChildren() []object.Object { return nil }

// AssociatedIDs implements object.Object.
func (m *Moon) AssociatedIDs() []identity.ID { return nil }

// Release destroys the moon. Only the owning Planet calls this.
func (m *Moon) Release() {
	m.svc.Unregister(m.id)
}

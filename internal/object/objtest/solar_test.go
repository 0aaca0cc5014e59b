package objtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orrery-db/orrery/internal/identity"
	"github.com/orrery-db/orrery/internal/object"
	"github.com/orrery-db/orrery/internal/schema"
)

func TestSchemaIsValid(t *testing.T) {
	errs := schema.Validate(Schema())
	require.Empty(t, errs, "the generated package's schema must validate cleanly")
}

func TestCreateEstablishesOwnership(t *testing.T) {
	svc := identity.NewService()
	sys := NewSolarSystem(svc, "Sol")
	venus := NewPlanet(sys, "Venus")
	earth := NewPlanet(sys, "Earth")

	require.Len(t, sys.Planets(), 2)
	assert.Same(t, venus, sys.Planets()[0])
	assert.Same(t, earth, sys.Planets()[1])

	// Every instance is registered under its identity.
	for _, id := range []identity.ID{sys.ObjectID(), venus.ObjectID(), earth.ObjectID()} {
		assert.True(t, svc.Registered(id))
	}

	// The parent back-reference promotes to the owner.
	owner, err := venus.SolarSystem()
	require.NoError(t, err)
	assert.Same(t, sys, owner)
}

func TestIdentitiesAreDistinctAndOrdered(t *testing.T) {
	svc := identity.NewService()
	sys := NewSolarSystem(svc, "Sol")
	venus := NewPlanet(sys, "Venus")
	moon := NewMoon(venus, "Zoozve")

	assert.Less(t, sys.ObjectID(), venus.ObjectID())
	assert.Less(t, venus.ObjectID(), moon.ObjectID())
}

func TestUpdateEquivalence(t *testing.T) {
	// Direct mutation and bulk update must produce identical state.
	svc := identity.NewService()
	sys := NewSolarSystem(svc, "Sol")

	direct := NewPlanet(sys, "Venus")
	direct.SetMass(4.87)
	direct.SetDwarf(false)
	direct.SetOrbitalPeriod(0.62)

	bulk := NewPlanet(sys, "Venus")
	err := bulk.Update(map[string]any{
		"mass":           4.87,
		"dwarf":          false,
		"orbital_period": 0.62,
	})
	require.NoError(t, err)

	assert.Equal(t, direct.Mass(), bulk.Mass())
	assert.Equal(t, direct.Dwarf(), bulk.Dwarf())
	assert.Equal(t, direct.OrbitalPeriod(), bulk.OrbitalPeriod())
}

func TestUpdateUnknownFieldAppliesNothing(t *testing.T) {
	svc := identity.NewService()
	sys := NewSolarSystem(svc, "Sol")
	p := NewPlanet(sys, "Venus")
	p.SetMass(4.87)

	err := p.Update(map[string]any{
		"mass":    5.97,
		"density": 5.24, // not a declared field
	})
	require.Error(t, err)
	assert.True(t, object.IsUnknownField(err))
	assert.Equal(t, 4.87, p.Mass(), "no entry of a rejected update may be applied")
	assert.Equal(t, "Venus", p.Name())
}

func TestUpdateTypeMismatchAppliesNothing(t *testing.T) {
	svc := identity.NewService()
	sys := NewSolarSystem(svc, "Sol")
	p := NewPlanet(sys, "Venus")

	err := p.Update(map[string]any{
		"name": "Morning Star",
		"mass": "heavy", // wrong type
	})
	require.Error(t, err)
	assert.True(t, object.IsTypeMismatch(err))
	assert.Equal(t, "Venus", p.Name())
	assert.Equal(t, 0.0, p.Mass())
}

func TestReleaseCascades(t *testing.T) {
	svc := identity.NewService()
	sys := NewSolarSystem(svc, "Sol")
	venus := NewPlanet(sys, "Venus")
	moon := NewMoon(venus, "Zoozve")

	sysID, venusID, moonID := sys.ObjectID(), venus.ObjectID(), moon.ObjectID()

	sys.Release()

	for _, id := range []identity.ID{sysID, venusID, moonID} {
		_, err := svc.Resolve(id)
		assert.True(t, identity.IsNotFound(err), "released %s must not resolve", id)
	}
	assert.Equal(t, 0, svc.Len())
}

func TestAssociationSurvivesAsIdentityOnly(t *testing.T) {
	svc := identity.NewService()
	solA := NewSolarSystem(svc, "Sol")
	solB := NewSolarSystem(svc, "Alpha Centauri")
	venus := NewPlanet(solA, "Venus")
	proxima := NewPlanet(solB, "Proxima b")

	proxima.SetNeighbor(venus)

	got, err := proxima.Neighbor()
	require.NoError(t, err)
	assert.Same(t, venus, got)

	// Destroying the target leaves the holder intact; the association now
	// resolves to NotFound instead of a dangling object.
	solA.Release()

	assert.True(t, proxima.HasNeighbor())
	_, err = proxima.Neighbor()
	assert.True(t, identity.IsNotFound(err))
}

func TestUnsetAssociation(t *testing.T) {
	svc := identity.NewService()
	sys := NewSolarSystem(svc, "Sol")
	p := NewPlanet(sys, "Venus")

	assert.False(t, p.HasNeighbor())
	_, err := p.Neighbor()
	assert.True(t, identity.IsNotFound(err))
}

func TestDirtyTracking(t *testing.T) {
	svc := identity.NewService()
	sys := NewSolarSystem(svc, "Sol")
	p := NewPlanet(sys, "Venus")

	require.False(t, p.Changes().HasChanges())

	p.SetMass(4.87)
	p.SetMass(4.9)
	p.SetName("Morning Star")

	assert.Equal(t, []string{"mass", "name"}, p.Changes().ChangedFields())

	change := p.Changes().GetChange("mass")
	require.NotNil(t, change)
	assert.Equal(t, 0.0, change.OldValue, "first old value wins")
	assert.Equal(t, 4.9, change.NewValue, "latest new value wins")

	p.ResetChanges()
	assert.False(t, p.Changes().HasChanges())
}

func TestSerializeRecordShape(t *testing.T) {
	svc := identity.NewService()
	sys := NewSolarSystem(svc, "Sol")
	venus := NewPlanet(sys, "Venus")
	earth := NewPlanet(sys, "Earth")
	moon := NewMoon(earth, "Luna")
	earth.SetNeighbor(venus)

	sysRec := sys.Serialize()
	assert.Equal(t, TagSolarSystem, sysRec.Type)
	assert.Equal(t, sys.ObjectID(), sysRec.ID)
	assert.Equal(t, "Sol", sysRec.Fields["name"])
	assert.Equal(t,
		[]identity.ID{venus.ObjectID(), earth.ObjectID()},
		sysRec.Children["planets"],
		"child order is insertion order")

	earthRec := earth.Serialize()
	assert.Equal(t, []identity.ID{moon.ObjectID()}, earthRec.Children["moons"])
	ref, ok := earthRec.Ref("nearest_neighbor")
	require.True(t, ok)
	assert.Equal(t, venus.ObjectID(), ref)

	// An unset association serializes as the null marker.
	venusRec := venus.Serialize()
	_, ok = venusRec.Ref("nearest_neighbor")
	assert.False(t, ok)
}

package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orrery-db/orrery/internal/identity"
	"github.com/orrery-db/orrery/internal/object"
)

func TestRenderTree(t *testing.T) {
	sys := object.NewRecord("solar.SolarSystem", identity.ID(1))
	sys.Fields["name"] = "Sol"
	sys.SetChildren("planets", []identity.ID{2})

	venus := object.NewRecord("solar.Planet", identity.ID(2))
	venus.Fields["name"] = "Venus"
	venus.Fields["mass"] = 4.87

	// Retained association target without an owner in this store.
	proxima := object.NewRecord("solar.Planet", identity.ID(9))
	proxima.Fields["name"] = "Proxima b"

	var b strings.Builder
	RenderTree(&b, []*object.Record{sys, venus, proxima}, identity.ID(1), true)
	out := b.String()

	assert.Contains(t, out, "solar.SolarSystem #1")
	assert.Contains(t, out, ".planets:")
	assert.Contains(t, out, "mass=4.87")
	assert.Contains(t, out, "retained association targets:")
	assert.Contains(t, out, "#9")
}

func TestRenderTreeMissingChild(t *testing.T) {
	sys := object.NewRecord("solar.SolarSystem", identity.ID(1))
	sys.Fields["name"] = "Sol"
	sys.SetChildren("planets", []identity.ID{42})

	var b strings.Builder
	RenderTree(&b, []*object.Record{sys}, identity.ID(1), true)

	assert.Contains(t, b.String(), "#42 <missing record>")
}

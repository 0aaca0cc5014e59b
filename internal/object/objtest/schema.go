package objtest

import (
	"github.com/orrery-db/orrery/internal/schema"
)

// Schema returns the metamodel this package was generated from. Kept in
// lockstep with the types by hand; TestSchemaIsValid guards the invariants.
func Schema() *schema.Schema {
	return &schema.Schema{
		Name:        "solar",
		Description: "A solar system with planets and moons.",
		Namespace:   "solar",
		Version:     "1",
		Klasses: []*schema.Klass{
			{
				Name:        "SolarSystem",
				Description: "A solar system with planets.",
				Fields: []*schema.Field{
					{Name: "name", Type: schema.Prim(schema.TypeString), Example: "Sol"},
					{Name: "planets", Type: schema.KlassRef("Planet"), Child: true, List: true},
				},
			},
			{
				Name:        "Planet",
				Description: "A planet in a solar system.",
				Fields: []*schema.Field{
					{Name: "name", Type: schema.Prim(schema.TypeString), Example: "Venus"},
					{Name: "mass", Type: schema.Prim(schema.TypeFloat), Example: 4.87, Default: 0.0},
					{Name: "dwarf", Type: schema.Prim(schema.TypeBool), Example: false, Default: false},
					{Name: "semi_major_axis", Type: schema.Prim(schema.TypeFloat), Example: 0.72, Default: 0.0},
					{Name: "orbital_period", Type: schema.Prim(schema.TypeFloat), Example: 0.62, Default: 0.0},
					{Name: "solar_system", Type: schema.KlassRef("SolarSystem"), Parent: true},
					{Name: "nearest_neighbor", Type: schema.KlassRef("Planet"), Optional: true},
					{Name: "moons", Type: schema.KlassRef("Moon"), Child: true, List: true},
				},
			},
			{
				Name:        "Moon",
				Description: "A moon orbiting a planet.",
				Fields: []*schema.Field{
					{Name: "name", Type: schema.Prim(schema.TypeString), Example: "Luna"},
					{Name: "planet", Type: schema.KlassRef("Planet"), Parent: true},
				},
			},
		},
	}
}

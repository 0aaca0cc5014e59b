package schema

import (
	"strings"
	"testing"
)

// solarSchema builds a small valid schema used across tests.
func solarSchema() *Schema {
	return &Schema{
		Name:      "solar",
		Namespace: "objtest",
		Version:   "1",
		Klasses: []*Klass{
			{
				Name: "SolarSystem",
				Fields: []*Field{
					{Name: "name", Type: Prim(TypeString), Example: "Sol"},
					{Name: "planets", Type: KlassRef("Planet"), Child: true, List: true},
				},
			},
			{
				Name: "Planet",
				Fields: []*Field{
					{Name: "name", Type: Prim(TypeString), Example: "Venus"},
					{Name: "mass", Type: Prim(TypeFloat), Example: 4.87, Default: 0.0},
					{Name: "dwarf", Type: Prim(TypeBool), Example: false, Default: false},
					{Name: "solar_system", Type: KlassRef("SolarSystem"), Parent: true},
					{Name: "nearest_neighbor", Type: KlassRef("Planet"), Optional: true},
				},
			},
		},
	}
}

func TestValidateValidSchema(t *testing.T) {
	errs := Validate(solarSchema())
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %d: %v", len(errs), errs)
	}

	// Re-running on the same already-valid schema stays clean.
	if errs := Validate(solarSchema()); len(errs) != 0 {
		t.Errorf("validation is not idempotent: %v", errs)
	}
}

func TestValidateUnknownType(t *testing.T) {
	s := solarSchema()
	s.Klass("Planet").Fields = append(s.Klass("Planet").Fields, &Field{
		Name: "ring", Type: KlassRef("Ring"),
	})

	errs := Validate(s)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != UnknownType {
		t.Errorf("expected UnknownType, got %s", errs[0].Kind)
	}
	if errs[0].Klass != "Planet" || errs[0].Field != "ring" {
		t.Errorf("error should name Planet.ring, got %s.%s", errs[0].Klass, errs[0].Field)
	}
}

func TestValidateMissingExample(t *testing.T) {
	s := solarSchema()
	s.Klass("SolarSystem").Fields[0].Example = nil

	errs := Validate(s)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != MissingExample {
		t.Errorf("expected MissingExample, got %s", errs[0].Kind)
	}
}

func TestValidateMissingParentField(t *testing.T) {
	t.Run("child klass without parent field", func(t *testing.T) {
		s := solarSchema()
		planet := s.Klass("Planet")
		for _, f := range planet.Fields {
			f.Parent = false
		}

		errs := Validate(s)
		if len(errs) != 1 {
			t.Fatalf("expected exactly 1 error, got %d: %v", len(errs), errs)
		}
		if errs[0].Kind != MissingParentField {
			t.Errorf("expected MissingParentField, got %s", errs[0].Kind)
		}
		if errs[0].Klass != "SolarSystem" || errs[0].Field != "planets" {
			t.Errorf("error should name the child field SolarSystem.planets, got %s.%s",
				errs[0].Klass, errs[0].Field)
		}
	})

	t.Run("child field with primitive type", func(t *testing.T) {
		s := solarSchema()
		s.Klass("SolarSystem").Fields[1] = &Field{
			Name: "planets", Type: Prim(TypeString), Child: true, List: true, Example: "x",
		}

		errs := Validate(s)
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
		}
		if errs[0].Kind != MissingParentField {
			t.Errorf("expected MissingParentField, got %s", errs[0].Kind)
		}
	})
}

func TestValidateOwnershipCycle(t *testing.T) {
	s := &Schema{
		Name: "cyclic",
		Klasses: []*Klass{
			{
				Name: "A",
				Fields: []*Field{
					{Name: "parent", Type: KlassRef("B"), Parent: true},
					{Name: "bs", Type: KlassRef("B"), Child: true, List: true},
				},
			},
			{
				Name: "B",
				Fields: []*Field{
					{Name: "parent", Type: KlassRef("A"), Parent: true},
					{Name: "as", Type: KlassRef("A"), Child: true, List: true},
				},
			},
		},
	}

	errs := Validate(s)
	var cycles int
	for _, e := range errs {
		if e.Kind == OwnershipCycle {
			cycles++
		}
	}
	if cycles == 0 {
		t.Fatalf("expected an OwnershipCycle error, got %v", errs)
	}
}

func TestValidateAssociationCycleAllowed(t *testing.T) {
	// Mutual associations between klasses are legal; only ownership must be
	// acyclic.
	s := solarSchema()
	s.Klass("SolarSystem").Fields = append(s.Klass("SolarSystem").Fields, &Field{
		Name: "largest", Type: KlassRef("Planet"), Optional: true,
	})

	if errs := Validate(s); len(errs) != 0 {
		t.Fatalf("association cycles must be allowed, got %v", errs)
	}
}

func TestValidateDuplicateName(t *testing.T) {
	t.Run("duplicate klass", func(t *testing.T) {
		s := solarSchema()
		s.Klasses = append(s.Klasses, &Klass{Name: "Planet"})

		errs := Validate(s)
		found := false
		for _, e := range errs {
			if e.Kind == DuplicateName && e.Klass == "Planet" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected DuplicateName for Planet, got %v", errs)
		}
	})

	t.Run("duplicate field", func(t *testing.T) {
		s := solarSchema()
		k := s.Klass("Planet")
		k.Fields = append(k.Fields, &Field{Name: "mass", Type: Prim(TypeFloat), Example: 1.0})

		errs := Validate(s)
		if len(errs) != 1 || errs[0].Kind != DuplicateName {
			t.Fatalf("expected 1 DuplicateName error, got %v", errs)
		}
	})

	t.Run("second parent designation", func(t *testing.T) {
		s := solarSchema()
		k := s.Klass("Planet")
		k.Fields = append(k.Fields, &Field{
			Name: "home", Type: KlassRef("SolarSystem"), Parent: true,
		})

		errs := Validate(s)
		if len(errs) != 1 || errs[0].Kind != DuplicateName {
			t.Fatalf("expected 1 DuplicateName error, got %v", errs)
		}
	})
}

func TestValidateBatchReporting(t *testing.T) {
	// Several independent mistakes must all be reported in one pass.
	s := solarSchema()
	s.Klass("SolarSystem").Fields[0].Example = nil
	planet := s.Klass("Planet")
	planet.Fields = append(planet.Fields, &Field{Name: "ring", Type: KlassRef("Ring")})
	planet.Fields = append(planet.Fields, &Field{Name: "mass", Type: Prim(TypeFloat), Example: 1.0})

	errs := Validate(s)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors reported in batch, got %d: %v", len(errs), errs)
	}

	kinds := make(map[ErrorKind]int)
	for _, e := range errs {
		kinds[e.Kind]++
	}
	for _, want := range []ErrorKind{MissingExample, UnknownType, DuplicateName} {
		if kinds[want] != 1 {
			t.Errorf("expected one %s error, got %d", want, kinds[want])
		}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	e := &ValidationError{
		Kind:    UnknownType,
		Klass:   "Planet",
		Field:   "ring",
		Message: "references unknown type Ring",
		Hint:    "field types must name a primitive or a declared klass",
	}
	got := e.Error()
	for _, want := range []string{"unknown_type", "Planet.ring", "Ring", "hint:"} {
		if !strings.Contains(got, want) {
			t.Errorf("error message %q should contain %q", got, want)
		}
	}
}

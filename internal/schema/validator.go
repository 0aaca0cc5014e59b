package schema

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorKind names the category of a schema validation error.
type ErrorKind int

const (
	// UnknownType: a field type names neither a primitive nor a declared Klass.
	UnknownType ErrorKind = iota
	// MissingExample: a primitive field declares no example value.
	MissingExample
	// MissingParentField: a child field targets a Klass with no parent
	// back-reference field.
	MissingParentField
	// OwnershipCycle: the ownership graph induced by child fields contains
	// a cycle.
	OwnershipCycle
	// DuplicateName: a Klass or Field name is declared twice in its scope.
	DuplicateName
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case UnknownType:
		return "unknown_type"
	case MissingExample:
		return "missing_example"
	case MissingParentField:
		return "missing_parent_field"
	case OwnershipCycle:
		return "ownership_cycle"
	case DuplicateName:
		return "duplicate_name"
	default:
		return "unknown"
	}
}

// ValidationError is one schema authoring mistake with its location context.
type ValidationError struct {
	Kind    ErrorKind
	Klass   string
	Field   string
	Message string
	Hint    string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder

	b.WriteString(e.Kind.String())
	b.WriteString(": ")

	if e.Klass != "" {
		b.WriteString(e.Klass)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
		b.WriteString(": ")
	}

	b.WriteString(e.Message)

	if e.Hint != "" {
		b.WriteString("\n  hint: ")
		b.WriteString(e.Hint)
	}

	return b.String()
}

// Validator accumulates validation errors for one Schema.
type Validator struct {
	schema *Schema
	errors []*ValidationError
}

// NewValidator creates a validator for the given schema.
func NewValidator(s *Schema) *Validator {
	return &Validator{schema: s}
}

// Validate runs every check against the schema and returns all errors found.
// Validation is pure: it never mutates the schema and always runs to
// completion so the author can fix every mistake in one pass. A nil result
// means the schema is valid.
func Validate(s *Schema) []*ValidationError {
	v := NewValidator(s)
	v.checkDuplicateNames()
	v.checkFieldTypes()
	v.checkExamples()
	v.checkParentFields()
	v.checkOwnershipCycles()
	return v.errors
}

// Errors returns the errors accumulated so far.
func (v *Validator) Errors() []*ValidationError {
	return v.errors
}

func (v *Validator) addError(e *ValidationError) {
	v.errors = append(v.errors, e)
}

// checkDuplicateNames rejects duplicate Klass names within the schema,
// duplicate field names within a Klass, and a second parent back-reference
// on the same Klass.
func (v *Validator) checkDuplicateNames() {
	seenKlass := make(map[string]bool)
	for _, k := range v.schema.Klasses {
		if seenKlass[k.Name] {
			v.addError(&ValidationError{
				Kind:    DuplicateName,
				Klass:   k.Name,
				Message: "klass is declared more than once",
				Hint:    "klass names must be unique within a schema",
			})
		}
		seenKlass[k.Name] = true

		seenField := make(map[string]bool)
		parentSeen := ""
		for _, f := range k.Fields {
			if seenField[f.Name] {
				v.addError(&ValidationError{
					Kind:    DuplicateName,
					Klass:   k.Name,
					Field:   f.Name,
					Message: "field is declared more than once",
				})
			}
			seenField[f.Name] = true

			if f.Parent {
				if parentSeen != "" {
					v.addError(&ValidationError{
						Kind:    DuplicateName,
						Klass:   k.Name,
						Field:   f.Name,
						Message: fmt.Sprintf("second parent back-reference (first is %s)", parentSeen),
						Hint:    "a klass may designate at most one parent field",
					})
				} else {
					parentSeen = f.Name
				}
			}
		}
	}
}

// checkFieldTypes rejects klass references that name no declared Klass.
func (v *Validator) checkFieldTypes() {
	for _, k := range v.schema.Klasses {
		for _, f := range k.Fields {
			if f.Type.IsKlass() && !v.schema.HasKlass(f.Type.Klass) {
				v.addError(&ValidationError{
					Kind:    UnknownType,
					Klass:   k.Name,
					Field:   f.Name,
					Message: fmt.Sprintf("references unknown type %s", f.Type.Klass),
					Hint:    "field types must name a primitive or a declared klass",
				})
			}
		}
	}
}

// checkExamples requires an example value on every primitive field.
func (v *Validator) checkExamples() {
	for _, k := range v.schema.Klasses {
		for _, f := range k.Fields {
			if !f.Type.IsKlass() && f.Example == nil {
				v.addError(&ValidationError{
					Kind:    MissingExample,
					Klass:   k.Name,
					Field:   f.Name,
					Message: fmt.Sprintf("primitive field of type %s has no example", f.Type),
					Hint:    "examples document the field and feed generated tests",
				})
			}
		}
	}
}

// checkParentFields requires every child field to target a Klass that
// declares a parent back-reference, and to target a klass type at all.
func (v *Validator) checkParentFields() {
	for _, k := range v.schema.Klasses {
		for _, f := range k.Fields {
			if !f.Child {
				continue
			}
			if !f.Type.IsKlass() {
				v.addError(&ValidationError{
					Kind:    MissingParentField,
					Klass:   k.Name,
					Field:   f.Name,
					Message: fmt.Sprintf("child field has primitive type %s", f.Type),
					Hint:    "ownership fields must reference a klass",
				})
				continue
			}
			target := v.schema.Klass(f.Type.Klass)
			if target == nil {
				// Reported by checkFieldTypes already.
				continue
			}
			if target.ParentField() == nil {
				v.addError(&ValidationError{
					Kind:    MissingParentField,
					Klass:   k.Name,
					Field:   f.Name,
					Message: fmt.Sprintf("child klass %s declares no parent field", target.Name),
					Hint:    fmt.Sprintf("add a parent back-reference field to %s", target.Name),
				})
			}
		}
	}
}

// checkOwnershipCycles rejects cycles in the ownership graph. Association
// fields may form cycles freely; only child fields induce edges here.
func (v *Validator) checkOwnershipCycles() {
	// Edge k -> target for every child field on k.
	edges := make(map[string][]string)
	for _, k := range v.schema.Klasses {
		for _, f := range k.ChildFields() {
			if f.Type.IsKlass() && v.schema.HasKlass(f.Type.Klass) {
				edges[k.Name] = append(edges[k.Name], f.Type.Klass)
			}
		}
	}

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int)
	var stack []string
	reported := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		state[name] = inStack
		stack = append(stack, name)
		for _, next := range edges[name] {
			switch state[next] {
			case unvisited:
				visit(next)
			case inStack:
				// Found a cycle: slice the stack from the first occurrence
				// of next to get the cycle path.
				start := 0
				for i, n := range stack {
					if n == next {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, stack[start:]...), next)
				key := strings.Join(cycle, "->")
				if !reported[key] {
					reported[key] = true
					v.addError(&ValidationError{
						Kind:    OwnershipCycle,
						Klass:   name,
						Message: fmt.Sprintf("ownership cycle: %s", strings.Join(cycle, " -> ")),
						Hint:    "ownership must form a tree; use an association for back-references",
					})
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
	}

	// Deterministic order so repeated runs report identically.
	names := make([]string, 0, len(edges))
	for name := range edges {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if state[name] == unvisited {
			visit(name)
		}
	}
}

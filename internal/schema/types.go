// Package schema defines the Orrery metamodel: a description of a class
// hierarchy with typed fields, parent/child ownership, and weak associations.
// The metamodel is pure data; its only behavior is validation.
package schema

import (
	"fmt"
)

// PrimitiveType represents the built-in primitive field types.
type PrimitiveType int

const (
	TypeString PrimitiveType = iota
	TypeInt
	TypeFloat
	TypeBool
)

// String returns the string representation of the primitive type.
func (p PrimitiveType) String() string {
	switch p {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// ParsePrimitiveType converts a string to a PrimitiveType.
func ParsePrimitiveType(s string) (PrimitiveType, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "int":
		return TypeInt, nil
	case "float":
		return TypeFloat, nil
	case "bool":
		return TypeBool, nil
	default:
		return 0, fmt.Errorf("unknown primitive type: %s", s)
	}
}

// TypeRef is a closed type reference: either a primitive kind or the name of
// a Klass declared in the same Schema. Klass references are resolved to
// concrete generated types at code-generation time, never at runtime.
type TypeRef struct {
	Primitive PrimitiveType
	Klass     string // non-empty for a klass reference
}

// Prim builds a primitive type reference.
func Prim(p PrimitiveType) TypeRef {
	return TypeRef{Primitive: p}
}

// KlassRef builds a reference to a declared Klass.
func KlassRef(name string) TypeRef {
	return TypeRef{Klass: name}
}

// IsKlass reports whether the reference names a Klass rather than a primitive.
func (t TypeRef) IsKlass() bool {
	return t.Klass != ""
}

// String returns a readable form of the type reference.
func (t TypeRef) String() string {
	if t.IsKlass() {
		return t.Klass
	}
	return t.Primitive.String()
}

// Field describes one field of a Klass.
type Field struct {
	Name        string
	Description string
	Type        TypeRef

	// Optional fields may be absent on an instance. A field with a Default
	// is implicitly optional.
	Optional bool

	// Child marks an ownership field: the containing Klass exclusively owns
	// instances placed here. The referenced Klass must declare a parent
	// back-reference field.
	Child bool

	// List marks an ordered sequence rather than a single value.
	List bool

	// Parent marks this field as the non-owning back-reference to the
	// owning object. At most one field per Klass may carry it.
	Parent bool

	// Example is required on primitive fields; it feeds documentation and
	// generated tests.
	Example any

	// Default is the initial value applied when the field is omitted.
	Default any
}

// IsOptional reports whether the field may be absent; a declared default
// implies optional.
func (f *Field) IsOptional() bool {
	return f.Optional || f.Default != nil
}

// Klass describes one class of the hierarchy.
type Klass struct {
	Name        string
	Description string
	Fields      []*Field
}

// Field returns the named field, or nil.
func (k *Klass) Field(name string) *Field {
	for _, f := range k.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// ParentField returns the field designated as the parent back-reference,
// or nil if the Klass declares none.
func (k *Klass) ParentField() *Field {
	for _, f := range k.Fields {
		if f.Parent {
			return f
		}
	}
	return nil
}

// ChildFields returns the ownership fields in declaration order.
func (k *Klass) ChildFields() []*Field {
	var out []*Field
	for _, f := range k.Fields {
		if f.Child {
			out = append(out, f)
		}
	}
	return out
}

// Schema is the root of the metamodel: an ordered list of Klass definitions
// plus naming metadata for the generated package.
type Schema struct {
	Name        string
	Description string
	Namespace   string
	Version     string
	Klasses     []*Klass
}

// Klass returns the named Klass, or nil.
func (s *Schema) Klass(name string) *Klass {
	for _, k := range s.Klasses {
		if k.Name == name {
			return k
		}
	}
	return nil
}

// HasKlass reports whether the schema declares the named Klass.
func (s *Schema) HasKlass(name string) bool {
	return s.Klass(name) != nil
}

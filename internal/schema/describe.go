package schema

import (
	"fmt"
	"strings"
)

// Describe renders a human-readable summary of every klass and field in the
// schema, one klass per block.
func (s *Schema) Describe() string {
	var b strings.Builder

	for i, k := range s.Klasses {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(k.Name)
		b.WriteString("\n")
		for _, f := range k.Fields {
			b.WriteString(fmt.Sprintf("  %s (%s) : %s\n", f.Name, typeLabel(f), defaultLabel(f)))
		}
	}

	return b.String()
}

func typeLabel(f *Field) string {
	label := f.Type.String()
	if f.Type.IsKlass() {
		if f.Child {
			label += " child"
		} else {
			label += " ref"
		}
	}
	if f.List {
		label = "list of " + label
	}
	return label
}

func defaultLabel(f *Field) string {
	switch {
	case f.Default != nil:
		return fmt.Sprintf("defaults to %v", f.Default)
	case f.List:
		return "defaults to empty list"
	case f.IsOptional():
		return "optional"
	default:
		return "required"
	}
}

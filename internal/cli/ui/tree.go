package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/orrery-db/orrery/internal/identity"
	"github.com/orrery-db/orrery/internal/object"
)

// RenderTree writes the ownership tree of a record set rooted at root.
// Records not reachable through ownership (retained association targets)
// are listed afterwards. Missing child identities are flagged inline rather
// than hidden, so a corrupt store is visible at a glance.
func RenderTree(w io.Writer, recs []*object.Record, root identity.ID, noColor bool) {
	byID := make(map[identity.ID]*object.Record, len(recs))
	for _, rec := range recs {
		byID[rec.ID] = rec
	}

	tag := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)
	bad := color.New(color.FgRed)
	if noColor {
		tag.DisableColor()
		dim.DisableColor()
		bad.DisableColor()
	}

	printed := make(map[identity.ID]bool)

	var render func(id identity.ID, indent string)
	render = func(id identity.ID, indent string) {
		rec, ok := byID[id]
		if !ok {
			bad.Fprintf(w, "%s%s <missing record>\n", indent, id)
			return
		}
		if printed[id] {
			bad.Fprintf(w, "%s%s <already shown: ownership cycle>\n", indent, id)
			return
		}
		printed[id] = true

		tag.Fprintf(w, "%s%s", indent, rec.Type)
		dim.Fprintf(w, " %s", rec.ID)
		if s := fieldSummary(rec); s != "" {
			fmt.Fprintf(w, "  %s", s)
		}
		if len(rec.Refs) > 0 {
			dim.Fprintf(w, "  %s", refSummary(rec))
		}
		fmt.Fprintln(w)

		for _, field := range sortedKeys(rec.Children) {
			dim.Fprintf(w, "%s  .%s:\n", indent, field)
			for _, child := range rec.Children[field] {
				render(child, indent+"    ")
			}
		}
	}

	render(root, "")

	var orphans []identity.ID
	for _, rec := range recs {
		if !printed[rec.ID] {
			orphans = append(orphans, rec.ID)
		}
	}
	if len(orphans) > 0 {
		sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })
		dim.Fprintln(w, "\nretained association targets:")
		for _, id := range orphans {
			render(id, "  ")
		}
	}
}

func fieldSummary(rec *object.Record) string {
	parts := make([]string, 0, len(rec.Fields))
	for _, name := range sortedKeys(rec.Fields) {
		parts = append(parts, fmt.Sprintf("%s=%v", name, rec.Fields[name]))
	}
	return strings.Join(parts, " ")
}

func refSummary(rec *object.Record) string {
	parts := make([]string, 0, len(rec.Refs))
	for _, name := range sortedKeys(rec.Refs) {
		parts = append(parts, fmt.Sprintf("%s->%s", name, rec.Refs[name]))
	}
	return strings.Join(parts, " ")
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

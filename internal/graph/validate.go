package graph

import (
	"sort"

	"depgraph/internal/errors"
)

// resolvedEdge is an EdgeSpec whose key has been resolved to a live record.
type resolvedEdge struct {
	module record
	source string
}

// MismatchDetails explains a META_MISMATCH error.
type MismatchDetails struct {
	// Uncovered are dependency paths with no declaring specifier.
	Uncovered []string `json:"uncovered,omitempty"`

	// Undeclared are specifiers naming modules outside the dependency list,
	// or modules that are not in the graph.
	Undeclared []string `json:"undeclared,omitempty"`

	// Mislabeled are specifiers used as an edge label that resolve to a
	// different module than the edge target.
	Mislabeled []string `json:"mislabeled,omitempty"`
}

func (d *MismatchDetails) empty() bool {
	return len(d.Uncovered) == 0 && len(d.Undeclared) == 0 && len(d.Mislabeled) == 0
}

// validateImports checks that meta.Imports names exactly the targets of deps.
// It reads the store only.
func (g *Graph) validateImports(owner string, deps []resolvedEdge, meta *Meta) error {
	if len(deps) == 0 && (meta == nil || len(meta.Imports) == 0) {
		return nil
	}
	if meta == nil || meta.Imports == nil {
		return errors.Newf(errors.MetaMismatch,
			"'%s' has %d dependencies but no import metadata", owner, len(deps))
	}

	declared := make(map[ID]string, len(meta.Imports))
	details := &MismatchDetails{}
	for _, spec := range meta.Specifiers() {
		r, ok := g.store.lookup(meta.Imports[spec])
		if !ok {
			details.Undeclared = append(details.Undeclared, spec)
			continue
		}
		declared[r.header().id] = spec
	}

	structural := make(map[ID]bool, len(deps))
	for _, dep := range deps {
		h := dep.module.header()
		structural[h.id] = true
		if _, ok := declared[h.id]; !ok {
			details.Uncovered = append(details.Uncovered, h.path)
		}
		if key, ok := meta.Imports[dep.source]; ok {
			if r, ok := g.store.lookup(key); ok && r.header().id != h.id {
				details.Mislabeled = append(details.Mislabeled, dep.source)
			}
		}
	}
	for id, spec := range declared {
		if !structural[id] {
			details.Undeclared = append(details.Undeclared, spec)
		}
	}

	if details.empty() {
		return nil
	}
	sort.Strings(details.Uncovered)
	sort.Strings(details.Undeclared)
	sort.Strings(details.Mislabeled)
	return errors.Newf(errors.MetaMismatch,
		"dependencies of '%s' disagree with import metadata", owner).WithDetails(details)
}

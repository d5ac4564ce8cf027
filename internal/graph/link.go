package graph

import (
	"depgraph/internal/errors"
)

// link records that source imports target via the given specifier. It is the
// only writer of dependency edges. Re-linking a pair overwrites the label.
func (g *Graph) link(source record, target record, label string) error {
	src, ok := source.(*internalRecord)
	if !ok {
		return errors.Newf(errors.InvalidEdge,
			"external module '%s' cannot depend on '%s'", describe(source), describe(target))
	}

	targetID := target.header().id
	src.dependencies.put(targetID, label)

	switch t := target.(type) {
	case *internalRecord:
		t.dependents.put(src.id, struct{}{})
	case *externalRecord:
		// externals do not track dependents
	}
	return nil
}

// unlink clears every back reference the neighbours hold to r. Unless
// keepEdgeList is set, r's own edge sets are cleared too.
//
// With keepEdgeList the caller is about to give r a fresh edge list; the
// stale entries on r are cleared there once the new edges are known.
func (g *Graph) unlink(r record, keepEdgeList bool) error {
	in, ok := r.(*internalRecord)
	if !ok {
		// An external module has no edge sets, but internal modules may still
		// point at it.
		return g.unlinkExternal(r)
	}

	// Resolve every neighbour first so a dangling ID fails before any write.
	deps, err := g.neighbours(in, in.dependencies.keys())
	if err != nil {
		return err
	}
	dependents, err := g.neighbours(in, in.dependents.keys())
	if err != nil {
		return err
	}

	for _, dep := range deps {
		if d, ok := dep.(*internalRecord); ok {
			d.dependents.remove(in.id)
		}
	}
	for _, dependent := range dependents {
		if d, ok := dependent.(*internalRecord); ok {
			d.dependencies.remove(in.id)
			g.dropImports(d, in.id)
		}
	}

	if !keepEdgeList {
		in.dependencies.clear()
		in.dependents.clear()
	}
	return nil
}

// unlinkExternal removes edges pointing at an external module. Externals keep
// no dependents set, so the sources are found by scanning the store.
func (g *Graph) unlinkExternal(r record) error {
	id := r.header().id
	g.store.each(func(other record) {
		if in, ok := other.(*internalRecord); ok && in.dependencies.has(id) {
			in.dependencies.remove(id)
			g.dropImports(in, id)
		}
	})
	return nil
}

// dropImports removes the specifiers in r's metadata that resolve to target.
func (g *Graph) dropImports(r *internalRecord, target ID) {
	if r.meta == nil {
		return
	}
	for spec, key := range r.meta.Imports {
		if g.keyID(key) == target {
			delete(r.meta.Imports, spec)
		}
	}
}

// keyID resolves a key to an ID without requiring the module to be live.
// It returns -1 for unknown paths.
func (g *Graph) keyID(key Key) ID {
	switch k := key.(type) {
	case ID:
		return k
	case Path:
		if id, ok := g.reg.resolve(g.reg.canonical(string(k))); ok {
			return id
		}
	}
	return -1
}

func (g *Graph) neighbours(owner *internalRecord, ids []ID) ([]record, error) {
	out := make([]record, 0, len(ids))
	for _, id := range ids {
		n, ok := g.store.byID(id)
		if !ok {
			return nil, errors.Newf(errors.DanglingReference,
				"'%s' references module %s which is not in the graph", describe(owner), id)
		}
		out = append(out, n)
	}
	return out, nil
}

// sourcesOf returns the internal modules that depend on an external module,
// in ID order.
func (g *Graph) sourcesOf(id ID) []*internalRecord {
	var out []*internalRecord
	g.store.each(func(other record) {
		if in, ok := other.(*internalRecord); ok && in.dependencies.has(id) {
			out = append(out, in)
		}
	})
	return out
}

func describe(r record) string {
	h := r.header()
	return h.path + h.id.String()
}

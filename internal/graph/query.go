package graph

// GetModule returns a snapshot of the module bound to key.
func (g *Graph) GetModule(key Key) (*Module, error) {
	r, err := g.store.get(key)
	if err != nil {
		return nil, err
	}
	return snapshot(r), nil
}

// HasModule reports whether key resolves to a live module.
func (g *Graph) HasModule(key Key) bool {
	return g.store.has(key)
}

// ModuleID returns the ID bound to path.
func (g *Graph) ModuleID(path string) (ID, bool) {
	r, ok := g.store.lookup(Path(path))
	if !ok {
		return 0, false
	}
	return r.header().id, true
}

// DependenciesOf returns the direct dependencies of a module in insertion
// order. External modules have none.
func (g *Graph) DependenciesOf(key Key) ([]*Module, error) {
	r, err := g.store.get(key)
	if err != nil {
		return nil, err
	}
	in, ok := r.(*internalRecord)
	if !ok {
		return []*Module{}, nil
	}
	return g.snapshots(in.dependencies.keys()), nil
}

// DependentsOf returns the modules that import a module directly. For an
// external module they are found by scanning the graph.
func (g *Graph) DependentsOf(key Key) ([]*Module, error) {
	r, err := g.store.get(key)
	if err != nil {
		return nil, err
	}
	switch t := r.(type) {
	case *internalRecord:
		return g.snapshots(t.dependents.keys()), nil
	default:
		sources := g.sourcesOf(r.header().id)
		out := make([]*Module, len(sources))
		for i, s := range sources {
			out[i] = snapshot(s)
		}
		return out, nil
	}
}

// InverseDependenciesOf returns every module that transitively depends on
// key, nearest first. The module itself is never included, even on a cycle.
// External modules keep no dependents, so their closure is empty; use
// DependentsOf for the modules importing one.
func (g *Graph) InverseDependenciesOf(key Key) ([]*Module, error) {
	r, err := g.store.get(key)
	if err != nil {
		return nil, err
	}
	return g.snapshots(g.inverseClosure(r.header().id)), nil
}

// InverseDependenciesWithin is InverseDependenciesOf bounded to maxDepth
// hops, reporting the distance of each module. maxDepth <= 0 means unlimited.
func (g *Graph) InverseDependenciesWithin(key Key, maxDepth int) ([]Impact, error) {
	r, err := g.store.get(key)
	if err != nil {
		return nil, err
	}
	visits := g.walk(r.header().id, maxDepth, func(in *internalRecord) []ID {
		return in.dependents.keys()
	})
	out := make([]Impact, 0, len(visits))
	for _, v := range visits {
		m, ok := g.store.byID(v.id)
		if !ok {
			continue
		}
		out = append(out, Impact{Module: snapshot(m), Distance: v.distance})
	}
	return out, nil
}

// TransitiveDependenciesOf returns every module key transitively imports,
// nearest first. Externals are included but not expanded.
func (g *Graph) TransitiveDependenciesOf(key Key) ([]*Module, error) {
	r, err := g.store.get(key)
	if err != nil {
		return nil, err
	}
	return g.snapshots(g.closure(r.header().id)), nil
}

// Modules returns every live module in ID order.
func (g *Graph) Modules() []*Module {
	out := make([]*Module, 0, g.store.size)
	g.store.each(func(r record) {
		out = append(out, snapshot(r))
	})
	return out
}

func (g *Graph) snapshots(ids []ID) []*Module {
	out := make([]*Module, 0, len(ids))
	for _, id := range ids {
		if r, ok := g.store.byID(id); ok {
			out = append(out, snapshot(r))
		}
	}
	return out
}

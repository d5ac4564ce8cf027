package graph

import (
	"log/slog"

	"depgraph/internal/errors"
)

// Graph is the module dependency graph. Create it with New.
type Graph struct {
	opts   Options
	reg    *registry
	store  *store
	logger *slog.Logger
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	reg := newRegistry(o.Root, o.AbsolutePaths)
	return &Graph{
		opts:   o,
		reg:    reg,
		store:  newStore(reg),
		logger: o.Logger,
	}
}

// Options returns the active options.
func (g *Graph) Options() Options {
	return g.opts
}

// SetOptions applies opts on top of the current options. Changing the root or
// the path mode affects lookups only; stored paths are not rewritten.
func (g *Graph) SetOptions(opts ...Option) {
	for _, opt := range opts {
		opt(&g.opts)
	}
	g.reg.root = g.opts.Root
	g.reg.absolute = g.opts.AbsolutePaths
	g.logger = g.opts.Logger
}

// Size returns the number of live modules.
func (g *Graph) Size() int {
	return g.store.size
}

// Reset clears every module and restarts ID assignment at 0.
func (g *Graph) Reset() {
	g.store.reset()
	g.logger.Debug("Graph reset")
}

// AddModule registers a new module at path with the given edges. It fails with
// ALREADY_REGISTERED if path is bound, DANGLING_REFERENCE if an edge key is
// unknown, INVALID_EDGE if an edge would start at an external module, and
// META_MISMATCH in strict mode. On failure the graph is unchanged.
func (g *Graph) AddModule(path string, spec ModuleSpec) (*Module, error) {
	if path == "" {
		return nil, errors.Newf(errors.InvalidInput, "module path is empty")
	}
	canonical := g.reg.canonical(path)
	if id, ok := g.reg.resolve(canonical); ok {
		return nil, errors.Newf(errors.AlreadyRegistered, "already registered (id: %d)", id)
	}

	deps, err := g.resolveEdges(canonical, spec.Dependencies)
	if err != nil {
		return nil, err
	}
	if spec.Kind == KindExternal && len(deps) > 0 {
		return nil, errors.Newf(errors.InvalidEdge, "external module '%s' cannot have dependencies", canonical)
	}
	dependents, err := g.resolveDependents(canonical, spec.Dependents)
	if err != nil {
		return nil, err
	}
	if g.opts.Strict {
		if err := g.validateImports(canonical, deps, spec.Meta); err != nil {
			return nil, err
		}
	}

	r := g.store.create(canonical, spec.Kind)
	if err := g.relink(r, deps, dependents, spec.Meta); err != nil {
		return nil, err
	}

	g.logger.Debug("Module added",
		"module", describe(r),
		"dependencies", len(deps),
		"dependents", len(dependents),
	)
	return snapshot(r), nil
}

// UpdateModule replaces the edges of an existing module. Dependencies are
// replaced wholesale. A nil spec.Dependents keeps the current dependents with
// their labels; a non-nil slice replaces them. spec.Kind is ignored. In strict
// mode spec.Meta must cover the new dependencies exactly. On failure the graph
// is unchanged.
func (g *Graph) UpdateModule(key Key, spec ModuleSpec) (*Module, error) {
	r, err := g.store.get(key)
	if err != nil {
		return nil, err
	}
	owner := r.header().path

	deps, err := g.resolveEdges(owner, spec.Dependencies)
	if err != nil {
		return nil, err
	}
	if _, external := r.(*externalRecord); external && len(deps) > 0 {
		return nil, errors.Newf(errors.InvalidEdge, "external module '%s' cannot have dependencies", owner)
	}

	var dependents []resolvedEdge
	if spec.Dependents == nil {
		dependents, err = g.currentDependents(r)
	} else {
		dependents, err = g.resolveDependents(owner, spec.Dependents)
	}
	if err != nil {
		return nil, err
	}

	if g.opts.Strict {
		if err := g.validateImports(owner, deps, spec.Meta); err != nil {
			return nil, err
		}
	}

	if err := g.unlink(r, true); err != nil {
		return nil, err
	}
	meta := spec.Meta
	if meta == nil && r.header().meta != nil {
		meta = &Meta{Raw: r.header().meta.Raw}
	}
	if err := g.relink(r, deps, dependents, meta); err != nil {
		return nil, err
	}

	g.logger.Debug("Module updated",
		"module", describe(r),
		"dependencies", len(deps),
		"dependents", len(dependents),
	)
	return snapshot(r), nil
}

// RemoveModule unlinks a module from every neighbour and deletes it. Its ID
// is retired.
func (g *Graph) RemoveModule(key Key) error {
	r, err := g.store.get(key)
	if err != nil {
		return err
	}
	if err := g.unlink(r, false); err != nil {
		return err
	}
	g.store.delete(r.header().id)

	g.logger.Debug("Module removed", "module", describe(r), "size", g.store.size)
	return nil
}

// relink gives r a fresh edge list. Neighbour back references must already be
// cleared. When meta carries no imports they are derived from deps.
func (g *Graph) relink(r record, deps, dependents []resolvedEdge, meta *Meta) error {
	if in, ok := r.(*internalRecord); ok {
		in.dependencies.clear()
		in.dependents.clear()
	}

	for _, dep := range deps {
		if err := g.link(r, dep.module, dep.source); err != nil {
			return err
		}
	}
	for _, dependent := range dependents {
		if err := g.link(dependent.module, r, dependent.source); err != nil {
			return err
		}
		setImport(dependent.module, dependent.source, r.header().id)
	}

	meta = meta.clone()
	if meta == nil {
		meta = &Meta{}
	}
	if meta.Imports == nil {
		meta.Imports = make(map[string]Key, len(deps))
		for _, dep := range deps {
			meta.Imports[dep.source] = dep.module.header().id
		}
	}
	r.header().meta = meta
	return nil
}

// resolveEdges resolves dependency keys, failing with DANGLING_REFERENCE.
func (g *Graph) resolveEdges(owner string, specs []EdgeSpec) ([]resolvedEdge, error) {
	out := make([]resolvedEdge, 0, len(specs))
	for _, spec := range specs {
		if spec.Key == nil {
			return nil, errors.Newf(errors.InvalidInput, "'%s' has an edge with no key", owner)
		}
		r, ok := g.store.lookup(spec.Key)
		if !ok {
			return nil, errors.Newf(errors.DanglingReference,
				"'%s' references '%s' which is not in the graph", owner, spec.Key)
		}
		out = append(out, resolvedEdge{module: r, source: spec.Source})
	}
	return out, nil
}

// resolveDependents is resolveEdges with the extra rule that every dependent
// must be internal.
func (g *Graph) resolveDependents(owner string, specs []EdgeSpec) ([]resolvedEdge, error) {
	out, err := g.resolveEdges(owner, specs)
	if err != nil {
		return nil, err
	}
	for _, dep := range out {
		if _, ok := dep.module.(*externalRecord); ok {
			return nil, errors.Newf(errors.InvalidEdge,
				"external module '%s' cannot depend on '%s'", describe(dep.module), owner)
		}
	}
	return out, nil
}

// currentDependents returns r's dependents with the labels they import r by.
func (g *Graph) currentDependents(r record) ([]resolvedEdge, error) {
	id := r.header().id

	var sources []*internalRecord
	switch t := r.(type) {
	case *internalRecord:
		for _, depID := range t.dependents.keys() {
			if depID == id {
				// A self-edge belongs to the dependency list being written.
				continue
			}
			d, ok := g.store.byID(depID)
			if !ok {
				return nil, errors.Newf(errors.DanglingReference,
					"'%s' lists dependent %s which is not in the graph", describe(r), depID)
			}
			in, ok := d.(*internalRecord)
			if !ok {
				return nil, errors.Newf(errors.DanglingReference,
					"'%s' lists external module '%s' as a dependent", describe(r), describe(d))
			}
			sources = append(sources, in)
		}
	case *externalRecord:
		sources = g.sourcesOf(id)
	}

	out := make([]resolvedEdge, 0, len(sources))
	for _, in := range sources {
		source, ok := in.dependencies.get(id)
		if !ok {
			return nil, errors.Newf(errors.DanglingReference,
				"'%s' module is not dependent on '%s'", describe(in), describe(r))
		}
		out = append(out, resolvedEdge{module: in, source: source})
	}
	return out, nil
}

// setImport records that r imports target via spec.
func setImport(r record, spec string, target ID) {
	h := r.header()
	if h.meta == nil {
		h.meta = &Meta{}
	}
	if h.meta.Imports == nil {
		h.meta.Imports = make(map[string]Key)
	}
	h.meta.Imports[spec] = target
}

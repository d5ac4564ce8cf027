package graph

import (
	"depgraph/internal/paths"
)

// registry binds canonical paths to IDs. The counter only moves forward,
// so a released path gets a fresh ID when it is assigned again.
type registry struct {
	ids      map[string]ID
	nextID   ID
	root     string
	absolute bool
}

func newRegistry(root string, absolute bool) *registry {
	return &registry{
		ids:      make(map[string]ID),
		root:     root,
		absolute: absolute,
	}
}

// canonical maps a caller-supplied path to its registry key.
func (r *registry) canonical(p string) string {
	return paths.Canonicalize(p, r.root, r.absolute)
}

// resolve returns the ID bound to a canonical path.
func (r *registry) resolve(canonical string) (ID, bool) {
	id, ok := r.ids[canonical]
	return id, ok
}

// assign returns the bound ID or binds the next one.
func (r *registry) assign(canonical string) ID {
	if id, ok := r.ids[canonical]; ok {
		return id
	}
	id := r.nextID
	r.nextID++
	r.ids[canonical] = id
	return id
}

// release drops the binding. The ID is not reissued.
func (r *registry) release(canonical string) {
	delete(r.ids, canonical)
}

// reset clears all bindings and restarts the counter.
func (r *registry) reset() {
	r.ids = make(map[string]ID)
	r.nextID = 0
}

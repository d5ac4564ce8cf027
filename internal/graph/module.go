package graph

// record is one slot of the module arena: *internalRecord or *externalRecord.
type record interface {
	header() *moduleHeader
}

type moduleHeader struct {
	id   ID
	path string
	meta *Meta
}

func (h *moduleHeader) header() *moduleHeader { return h }

// internalRecord has content and edges in both directions.
type internalRecord struct {
	moduleHeader
	dependencies *edgeSet[string] // target ID -> import specifier
	dependents   *edgeSet[struct{}]
}

// externalRecord is a boundary module: addressable, never an edge source.
type externalRecord struct {
	moduleHeader
}

func newInternal(id ID, path string) *internalRecord {
	return &internalRecord{
		moduleHeader: moduleHeader{id: id, path: path},
		dependencies: newEdgeSet[string](),
		dependents:   newEdgeSet[struct{}](),
	}
}

func newExternal(id ID, path string) *externalRecord {
	return &externalRecord{moduleHeader: moduleHeader{id: id, path: path}}
}

func kindOf(r record) Kind {
	if _, ok := r.(*externalRecord); ok {
		return KindExternal
	}
	return KindInternal
}

// snapshot copies a record into a caller-owned Module.
func snapshot(r record) *Module {
	h := r.header()
	m := &Module{
		ID:           h.id,
		Path:         h.path,
		Kind:         kindOf(r),
		Dependencies: []Dependency{},
		Dependents:   []ID{},
		Meta:         h.meta.clone(),
	}
	if in, ok := r.(*internalRecord); ok {
		in.dependencies.each(func(id ID, source string) {
			m.Dependencies = append(m.Dependencies, Dependency{ID: id, Source: source})
		})
		m.Dependents = append(m.Dependents, in.dependents.keys()...)
	}
	return m
}

// edgeSet is an insertion-ordered map keyed by module ID.
type edgeSet[V any] struct {
	order  []ID
	values map[ID]V
}

func newEdgeSet[V any]() *edgeSet[V] {
	return &edgeSet[V]{values: make(map[ID]V)}
}

// put inserts or overwrites. Overwriting keeps the original position.
func (s *edgeSet[V]) put(id ID, v V) {
	if _, ok := s.values[id]; !ok {
		s.order = append(s.order, id)
	}
	s.values[id] = v
}

func (s *edgeSet[V]) get(id ID) (V, bool) {
	v, ok := s.values[id]
	return v, ok
}

func (s *edgeSet[V]) has(id ID) bool {
	_, ok := s.values[id]
	return ok
}

func (s *edgeSet[V]) remove(id ID) {
	if _, ok := s.values[id]; !ok {
		return
	}
	delete(s.values, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *edgeSet[V]) len() int {
	return len(s.order)
}

func (s *edgeSet[V]) keys() []ID {
	out := make([]ID, len(s.order))
	copy(out, s.order)
	return out
}

func (s *edgeSet[V]) each(fn func(ID, V)) {
	for _, id := range s.order {
		fn(id, s.values[id])
	}
}

func (s *edgeSet[V]) clear() {
	s.order = nil
	s.values = make(map[ID]V)
}

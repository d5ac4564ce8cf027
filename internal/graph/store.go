package graph

import (
	"depgraph/internal/errors"
)

// store owns the module arena. Slots are indexed by ID and set to nil on
// delete; IDs are never reused so slots are never refilled.
type store struct {
	reg     *registry
	modules []record
	size    int
}

func newStore(reg *registry) *store {
	return &store{reg: reg}
}

// lookup resolves a key to a live record.
func (s *store) lookup(key Key) (record, bool) {
	switch k := key.(type) {
	case ID:
		return s.byID(k)
	case Path:
		id, ok := s.reg.resolve(s.reg.canonical(string(k)))
		if !ok {
			return nil, false
		}
		return s.byID(id)
	default:
		return nil, false
	}
}

func (s *store) byID(id ID) (record, bool) {
	if id < 0 || int(id) >= len(s.modules) {
		return nil, false
	}
	r := s.modules[id]
	return r, r != nil
}

// get is lookup that fails with NOT_FOUND.
func (s *store) get(key Key) (record, error) {
	if key == nil {
		return nil, errors.Newf(errors.InvalidInput, "module key is nil")
	}
	r, ok := s.lookup(key)
	if !ok {
		return nil, errors.Newf(errors.NotFound, "module not found (key: %s)", key)
	}
	return r, nil
}

func (s *store) has(key Key) bool {
	if key == nil {
		return false
	}
	_, ok := s.lookup(key)
	return ok
}

// create binds the canonical path and inserts an edge-free record.
func (s *store) create(canonical string, kind Kind) record {
	id := s.reg.assign(canonical)
	var r record
	if kind == KindExternal {
		r = newExternal(id, canonical)
	} else {
		r = newInternal(id, canonical)
	}
	s.put(r)
	s.size++
	return r
}

// put stores r in its slot, growing the arena as needed.
func (s *store) put(r record) {
	id := r.header().id
	for int(id) >= len(s.modules) {
		s.modules = append(s.modules, nil)
	}
	s.modules[id] = r
}

// delete frees the slot and the path binding, not the ID.
func (s *store) delete(id ID) {
	r, ok := s.byID(id)
	if !ok {
		return
	}
	s.reg.release(r.header().path)
	s.modules[id] = nil
	s.size--
}

// each visits live records in ID order.
func (s *store) each(fn func(record)) {
	for _, r := range s.modules {
		if r != nil {
			fn(r)
		}
	}
}

// capacity is the number of arena slots, live or retired.
func (s *store) capacity() int {
	return len(s.modules)
}

func (s *store) reset() {
	s.reg.reset()
	s.modules = nil
	s.size = 0
}

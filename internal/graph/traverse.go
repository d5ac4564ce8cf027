package graph

// visit is one module reached by a breadth-first walk.
type visit struct {
	id       ID
	distance int
}

// walk runs a breadth-first traversal from start. next yields the neighbours
// of an internal module; externals are never expanded. The start module is
// excluded from the result. maxDepth <= 0 means unlimited.
//
// The visited set is sized to the arena, so each module is enqueued at most
// once and cycles terminate.
func (g *Graph) walk(start ID, maxDepth int, next func(*internalRecord) []ID) []visit {
	visited := make([]bool, g.store.capacity())
	visited[start] = true

	queue := []visit{{id: start}}
	var out []visit

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.id != start {
			out = append(out, current)
		}
		if maxDepth > 0 && current.distance >= maxDepth {
			continue
		}

		r, ok := g.store.byID(current.id)
		if !ok {
			continue
		}
		in, ok := r.(*internalRecord)
		if !ok {
			continue
		}

		for _, id := range next(in) {
			if visited[id] {
				continue
			}
			visited[id] = true
			queue = append(queue, visit{id: id, distance: current.distance + 1})
		}
	}

	return out
}

// inverseClosure returns every module that transitively depends on start,
// in breadth-first order.
func (g *Graph) inverseClosure(start ID) []ID {
	return ids(g.walk(start, 0, func(in *internalRecord) []ID {
		return in.dependents.keys()
	}))
}

// closure returns every module start transitively depends on, in
// breadth-first order.
func (g *Graph) closure(start ID) []ID {
	return ids(g.walk(start, 0, func(in *internalRecord) []ID {
		return in.dependencies.keys()
	}))
}

func ids(visits []visit) []ID {
	out := make([]ID, len(visits))
	for i, v := range visits {
		out[i] = v.id
	}
	return out
}

package graph

import (
	"context"
	"sort"
	"time"

	"depgraph/internal/errors"
)

// RankOptions configures RankAffected.
type RankOptions struct {
	// Damping is the probability of following an edge vs teleporting (default: 0.85)
	Damping float64

	// MaxIterations is the maximum number of power iterations (default: 20)
	MaxIterations int

	// Tolerance for convergence detection (default: 1e-6)
	Tolerance float64

	// TopK is the number of top results to return (default: 20)
	TopK int

	// IncludePaths enables backtracking to explain why modules were reached
	IncludePaths bool

	// IncludeSeeds keeps the changed modules themselves in the results
	IncludeSeeds bool
}

// DefaultRankOptions returns sensible defaults for RankAffected.
func DefaultRankOptions() RankOptions {
	return RankOptions{
		Damping:       0.85,
		MaxIterations: 20,
		Tolerance:     1e-6,
		TopK:          20,
		IncludePaths:  true,
	}
}

// RankResult is one ranked module.
type RankResult struct {
	Module *Module  `json:"module"`
	Score  float64  `json:"score"`
	Path   []string `json:"path,omitempty"` // Path from a seed to this module
}

// RankOutput contains the full ranking.
type RankOutput struct {
	Results       []RankResult `json:"results"`
	Iterations    int          `json:"iterations"`
	Converged     bool         `json:"converged"`
	Seeds         []ID         `json:"seeds"`
	TotalModules  int          `json:"totalModules"`
	TotalEdges    int          `json:"totalEdges"`
	ComputationMs int64        `json:"computationMs"`
}

// rankMatrix is the dependents adjacency of the arena: out[i] lists the
// modules importing i, in[i] the modules i imports.
type rankMatrix struct {
	out   [][]ID
	in    [][]ID
	edges int
}

func (g *Graph) rankMatrix() *rankMatrix {
	n := g.store.capacity()
	m := &rankMatrix{out: make([][]ID, n), in: make([][]ID, n)}
	g.store.each(func(r record) {
		src, ok := r.(*internalRecord)
		if !ok {
			return
		}
		for _, dep := range src.dependencies.keys() {
			if _, live := g.store.byID(dep); !live {
				continue
			}
			m.out[dep] = append(m.out[dep], src.id)
			m.in[src.id] = append(m.in[src.id], dep)
			m.edges++
		}
	})
	return m
}

// RankAffected scores every module by how strongly a change to the seed
// modules propagates to it, using personalized PageRank over the dependents
// direction. Modules that do not transitively depend on a seed score zero
// and are omitted. Unknown seeds fail with NOT_FOUND.
func (g *Graph) RankAffected(ctx context.Context, seeds []Key, opts RankOptions) (*RankOutput, error) {
	start := time.Now()
	if len(seeds) == 0 {
		return nil, errors.Newf(errors.InvalidInput, "no seed modules provided")
	}

	// Apply defaults
	if opts.Damping <= 0 || opts.Damping >= 1 {
		opts.Damping = 0.85
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 20
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = 1e-6
	}
	if opts.TopK <= 0 {
		opts.TopK = 20
	}

	seedSet := make(map[ID]bool, len(seeds))
	seedIDs := make([]ID, 0, len(seeds))
	for _, key := range seeds {
		r, err := g.store.get(key)
		if err != nil {
			return nil, err
		}
		id := r.header().id
		if !seedSet[id] {
			seedSet[id] = true
			seedIDs = append(seedIDs, id)
		}
	}

	m := g.rankMatrix()
	n := g.store.capacity()

	teleport := make([]float64, n)
	teleportWeight := 1.0 / float64(len(seedIDs))
	for _, id := range seedIDs {
		teleport[id] = teleportWeight
	}

	scores := make([]float64, n)
	copy(scores, teleport)
	next := make([]float64, n)

	var iterations int
	var converged bool
	for iter := range opts.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations = iter + 1

		for i := range next {
			next[i] = 0
		}
		for i, targets := range m.out {
			if len(targets) == 0 {
				continue
			}
			contrib := scores[i] / float64(len(targets))
			for _, t := range targets {
				next[t] += contrib
			}
		}

		maxDiff := 0.0
		for i := range next {
			next[i] = opts.Damping*next[i] + (1-opts.Damping)*teleport[i]
			if diff := abs(next[i] - scores[i]); diff > maxDiff {
				maxDiff = diff
			}
		}
		scores, next = next, scores

		if maxDiff < opts.Tolerance {
			converged = true
			break
		}
	}

	type scored struct {
		id    ID
		score float64
	}
	ranked := make([]scored, 0, n)
	for i, s := range scores {
		id := ID(i)
		if s <= 0 || (!opts.IncludeSeeds && seedSet[id]) {
			continue
		}
		if _, live := g.store.byID(id); !live {
			continue
		}
		ranked = append(ranked, scored{id: id, score: s})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})
	if len(ranked) > opts.TopK {
		ranked = ranked[:opts.TopK]
	}

	results := make([]RankResult, len(ranked))
	for i, sn := range ranked {
		r, _ := g.store.byID(sn.id)
		result := RankResult{Module: snapshot(r), Score: sn.score}
		if opts.IncludePaths && !seedSet[sn.id] {
			result.Path = g.backtrackPath(m, sn.id, seedSet, 5)
		}
		results[i] = result
	}

	g.logger.Debug("Affected modules ranked",
		"seeds", len(seedIDs),
		"results", len(results),
		"iterations", iterations,
		"converged", converged,
	)

	return &RankOutput{
		Results:       results,
		Iterations:    iterations,
		Converged:     converged,
		Seeds:         seedIDs,
		TotalModules:  g.store.size,
		TotalEdges:    m.edges,
		ComputationMs: time.Since(start).Milliseconds(),
	}, nil
}

// backtrackPath runs a breadth-first search along import edges from target
// and returns the module paths of the shortest chain from a seed to target,
// at most maxDepth hops long. It returns nil when no seed is that close.
func (g *Graph) backtrackPath(m *rankMatrix, target ID, seedSet map[ID]bool, maxDepth int) []string {
	parent := map[ID]ID{target: -1}
	frontier := []ID{target}
	found := ID(-1)
	if seedSet[target] {
		found = target
	}

	for depth := 0; depth < maxDepth && found < 0 && len(frontier) > 0; depth++ {
		var next []ID
		for _, current := range frontier {
			for _, dep := range m.in[current] {
				if _, seen := parent[dep]; seen {
					continue
				}
				parent[dep] = current
				if seedSet[dep] {
					found = dep
					break
				}
				next = append(next, dep)
			}
			if found >= 0 {
				break
			}
		}
		frontier = next
	}
	if found < 0 {
		return nil
	}

	// parent links run from the seed towards target.
	var path []string
	for id := found; id >= 0; id = parent[id] {
		if r, ok := g.store.byID(id); ok {
			path = append(path, r.header().path)
		}
	}
	return path
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

package graph

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"depgraph/internal/errors"
)

// LoadReport summarizes one Load call.
type LoadReport struct {
	ID              string        `json:"id"`
	Records         int           `json:"records"`
	ModulesCreated  int           `json:"modulesCreated"`
	ModulesPromoted int           `json:"modulesPromoted"`
	EdgesLinked     int           `json:"edgesLinked"`
	Size            int           `json:"size"`
	Duration        time.Duration `json:"duration"`
}

// Load merges decoded manifest records into the graph. Modules are created on
// first reference and edges are keyed by target, so loading the same records
// twice yields the same edge set. Modules the records do not mention are left
// alone. Records are validated up front; an invalid record fails the whole
// call with INVALID_INPUT before anything is written.
func (g *Graph) Load(records []Record) (*LoadReport, error) {
	start := time.Now()
	if err := validateRecords(records); err != nil {
		return nil, err
	}

	report := &LoadReport{
		ID:      uuid.New().String(),
		Records: len(records),
	}

	for _, rec := range records {
		source := g.loadSource(g.reg.canonical(rec.ModulePath), report)

		imports := make(map[string]Key, len(rec.Imports))
		for _, imp := range rec.Imports {
			kind := KindInternal
			if imp.External {
				kind = KindExternal
			}
			target := g.resolveOrCreate(g.reg.canonical(imp.Path), kind, report)

			label := imp.OriginalSpecifier
			if label == "" {
				label = imp.Path
			}

			targetID := target.header().id
			if prev, ok := source.dependencies.get(targetID); !ok || prev != label {
				report.EdgesLinked++
			}
			if err := g.link(source, target, label); err != nil {
				return report, err
			}
			imports[label] = targetID
		}

		source.meta = mergeMeta(source.meta, &Meta{Imports: imports})
	}

	report.Size = g.store.size
	report.Duration = time.Since(start)

	g.logger.Debug("Manifest loaded", "load", report)
	return report, nil
}

// LogValue renders the report as a group of its counters.
func (r *LoadReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", r.ID),
		slog.Int("records", r.Records),
		slog.Int("created", r.ModulesCreated),
		slog.Int("promoted", r.ModulesPromoted),
		slog.Int("edges", r.EdgesLinked),
		slog.Int("size", r.Size),
		slog.Duration("duration", r.Duration),
	)
}

// loadSource returns the internal record for a record's module, creating it
// or promoting an external module of the same path.
func (g *Graph) loadSource(canonical string, report *LoadReport) *internalRecord {
	r := g.resolveOrCreate(canonical, KindInternal, report)
	if ext, ok := r.(*externalRecord); ok {
		report.ModulesPromoted++
		return g.promote(ext)
	}
	return r.(*internalRecord)
}

// resolveOrCreate returns the live record for canonical or creates one of the
// given kind. An existing module keeps its kind.
func (g *Graph) resolveOrCreate(canonical string, kind Kind, report *LoadReport) record {
	if id, ok := g.reg.resolve(canonical); ok {
		if r, ok := g.store.byID(id); ok {
			return r
		}
	}
	report.ModulesCreated++
	return g.store.create(canonical, kind)
}

// promote turns an external module into an internal one with the same ID,
// back-filling its dependents from the edges that already point at it.
func (g *Graph) promote(ext *externalRecord) *internalRecord {
	in := newInternal(ext.id, ext.path)
	in.meta = ext.meta
	for _, source := range g.sourcesOf(ext.id) {
		in.dependents.put(source.id, struct{}{})
	}
	g.store.put(in)

	g.logger.Debug("External module promoted", "module", describe(in), "dependents", in.dependents.len())
	return in
}

func validateRecords(records []Record) error {
	for i, rec := range records {
		if rec.ModulePath == "" {
			return errors.Newf(errors.InvalidInput, "record %d has an empty module path", i)
		}
		for j, imp := range rec.Imports {
			if imp.Path == "" {
				return errors.Newf(errors.InvalidInput,
					"record %d ('%s') import %d has an empty path", i, rec.ModulePath, j)
			}
		}
	}
	return nil
}

package graph

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"depgraph/internal/errors"
)

func sampleRecords() []Record {
	return []Record{
		{
			ModulePath: "/proj/src/index.js",
			Imports: []Import{
				{Path: "src/a.js", OriginalSpecifier: "./a"},
				{Path: "react", External: true},
			},
		},
		{
			ModulePath: "src/a.js",
			Imports: []Import{
				{Path: "src/b.js", OriginalSpecifier: "./b"},
			},
		},
		{ModulePath: "src/b.js"},
	}
}

func TestLoad(t *testing.T) {
	g := newTestGraph()

	report, err := g.Load(sampleRecords())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := uuid.Parse(report.ID); err != nil {
		t.Errorf("report ID %q is not a UUID: %v", report.ID, err)
	}
	if report.Records != 3 || report.ModulesCreated != 4 || report.EdgesLinked != 3 || report.Size != 4 {
		t.Errorf("report = %+v", report)
	}

	index, err := g.GetModule(Path("src/index.js"))
	if err != nil {
		t.Fatalf("GetModule() error = %v", err)
	}
	if index.ID != 0 {
		t.Errorf("index ID = %d, want 0", index.ID)
	}
	reactID, _ := g.ModuleID("react")
	aID, _ := g.ModuleID("src/a.js")
	want := []Dependency{{ID: aID, Source: "./a"}, {ID: reactID, Source: "react"}}
	if !reflect.DeepEqual(index.Dependencies, want) {
		t.Errorf("index Dependencies = %v, want %v", index.Dependencies, want)
	}
	if got := index.Meta.Imports["./a"]; got != aID {
		t.Errorf("index import ./a = %v, want %v", got, aID)
	}

	react, _ := g.GetModule(reactID)
	if !react.IsExternal() {
		t.Error("react should be external")
	}

	inv, err := g.InverseDependenciesOf(Path("src/b.js"))
	if err != nil {
		t.Fatalf("InverseDependenciesOf() error = %v", err)
	}
	if want := []string{"src/a.js", "src/index.js"}; !reflect.DeepEqual(modulePaths(inv), want) {
		t.Errorf("InverseDependenciesOf(b) = %v, want %v", modulePaths(inv), want)
	}
	checkSymmetry(t, g)
}

func TestLoadIdempotent(t *testing.T) {
	g := newTestGraph()
	if _, err := g.Load(sampleRecords()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	first := g.Modules()

	report, err := g.Load(sampleRecords())
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if report.ModulesCreated != 0 || report.EdgesLinked != 0 {
		t.Errorf("second load created %d modules and %d edges, want 0", report.ModulesCreated, report.EdgesLinked)
	}
	if second := g.Modules(); !reflect.DeepEqual(first, second) {
		t.Errorf("graph changed on reload:\n first = %v\nsecond = %v", first, second)
	}
}

func TestLoadKeepsUnmentionedModules(t *testing.T) {
	g := newTestGraph()
	extra := mustAdd(t, g, "extra.js", ModuleSpec{})
	if _, err := g.Load(sampleRecords()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !g.HasModule(extra.ID) {
		t.Error("Load removed a module not mentioned by the records")
	}
	if g.Size() != 5 {
		t.Errorf("Size() = %d, want 5", g.Size())
	}
}

func TestLoadSpecifierFallback(t *testing.T) {
	g := newTestGraph()
	_, err := g.Load([]Record{{ModulePath: "a.js", Imports: []Import{{Path: "b.js"}}}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	a, _ := g.GetModule(Path("a.js"))
	if len(a.Dependencies) != 1 || a.Dependencies[0].Source != "b.js" {
		t.Errorf("Dependencies = %v, want label b.js", a.Dependencies)
	}
}

func TestLoadPromotesExternal(t *testing.T) {
	g := newTestGraph()
	_, err := g.Load([]Record{
		{ModulePath: "app.js", Imports: []Import{{Path: "vendor/lib.js", External: true, OriginalSpecifier: "lib"}}},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	libID, _ := g.ModuleID("vendor/lib.js")

	report, err := g.Load([]Record{
		{ModulePath: "vendor/lib.js", Imports: []Import{{Path: "vendor/util.js"}}},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if report.ModulesPromoted != 1 {
		t.Errorf("ModulesPromoted = %d, want 1", report.ModulesPromoted)
	}

	lib, _ := g.GetModule(Path("vendor/lib.js"))
	if lib.IsExternal() {
		t.Error("vendor/lib.js still external after being loaded as a source")
	}
	if lib.ID != libID {
		t.Errorf("promoted ID = %d, want %d", lib.ID, libID)
	}
	appID, _ := g.ModuleID("app.js")
	if !reflect.DeepEqual(lib.Dependents, []ID{appID}) {
		t.Errorf("promoted Dependents = %v, want [%d]", lib.Dependents, appID)
	}

	inv, err := g.InverseDependenciesOf(Path("vendor/util.js"))
	if err != nil {
		t.Fatalf("InverseDependenciesOf() error = %v", err)
	}
	if want := []string{"vendor/lib.js", "app.js"}; !reflect.DeepEqual(modulePaths(inv), want) {
		t.Errorf("InverseDependenciesOf(util) = %v, want %v", modulePaths(inv), want)
	}
	checkSymmetry(t, g)
}

func TestLoadNeverDemotes(t *testing.T) {
	g := newTestGraph()
	_, err := g.Load([]Record{
		{ModulePath: "lib.js"},
		{ModulePath: "app.js", Imports: []Import{{Path: "lib.js", External: true}}},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	lib, _ := g.GetModule(Path("lib.js"))
	if lib.IsExternal() {
		t.Error("internal module demoted by an external import flag")
	}
}

func TestLoadInvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
	}{
		{"empty module path", []Record{{ModulePath: ""}}},
		{"empty import path", []Record{{ModulePath: "a.js", Imports: []Import{{Path: ""}}}}},
		{"invalid after valid", []Record{{ModulePath: "a.js"}, {ModulePath: ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGraph()
			_, err := g.Load(tt.records)
			if errors.CodeOf(err) != errors.InvalidInput {
				t.Fatalf("Load() code = %v, want %v", errors.CodeOf(err), errors.InvalidInput)
			}
			if g.Size() != 0 {
				t.Errorf("Size() = %d after rejected load, want 0", g.Size())
			}
		})
	}
}

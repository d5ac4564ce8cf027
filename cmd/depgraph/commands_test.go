package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"depgraph/internal/errors"
	"depgraph/internal/graph"
	"depgraph/internal/output"
)

// Loading sampleManifest assigns index.js=#0, a.js=#1, react=#2, b.js=#3.
const sampleManifest = `{
  "modules": [
    {"path": "src/index.js", "imports": [{"path": "src/a.js", "original": "./a"}, {"path": "react", "external": true}]},
    {"path": "src/a.js", "imports": [{"path": "src/b.js", "original": "./b"}, {"path": "react", "external": true}]},
    {"path": "src/b.js"}
  ]
}`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meta.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func resetFlags() {
	configFlag = ""
	rootFlag = ""
	strictFlag = false
	absoluteFlag = false
	formatFlag = "human"
	verbosityFlag = 0
	quietFlag = false
	manifestFlags = nil
	depsTransitive = false
	affectedDepth = 0
	affectedRank = false
	affectedTop = 0
	initForce = false
}

// runCLI executes the root command and returns stdout, stderr and the error.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(closeSession)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	closeSession()
	return stdout.String(), stderr.String(), err
}

func runJSON(t *testing.T, out interface{}, args ...string) {
	t.Helper()
	stdout, _, err := runCLI(t, append(args, "--format", "json", "--quiet")...)
	if err != nil {
		t.Fatalf("depgraph %s: %v", strings.Join(args, " "), err)
	}
	if err := json.Unmarshal([]byte(stdout), out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    graph.Key
		wantErr bool
	}{
		{"#0", graph.ID(0), false},
		{"#42", graph.ID(42), false},
		{"src/index.js", graph.Path("src/index.js"), false},
		{"react", graph.Path("react"), false},
		{"#", nil, true},
		{"#-1", nil, true},
		{"#abc", nil, true},
		{"", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseKey(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if errors.CodeOf(err) != errors.InvalidInput {
					t.Errorf("code = %q, want %q", errors.CodeOf(err), errors.InvalidInput)
				}
				return
			}
			if got != tt.want {
				t.Errorf("parseKey(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDepsCommand(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)
	root := t.TempDir()

	var resp DepsResponseCLI
	runJSON(t, &resp, "deps", "src/index.js", "-m", manifest, "--root", root)

	if resp.Module.ID != 0 || resp.Total != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Dependencies[0].Path != "src/a.js" || resp.Dependencies[0].Source != "./a" {
		t.Errorf("first dependency = %+v", resp.Dependencies[0])
	}
	if resp.Dependencies[1].Kind != "external" || resp.Dependencies[1].Source != "react" {
		t.Errorf("second dependency = %+v", resp.Dependencies[1])
	}
}

func TestDepsCommandTransitive(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)

	var resp DepsResponseCLI
	runJSON(t, &resp, "deps", "#0", "--transitive", "-m", manifest, "--root", t.TempDir())

	if !resp.Transitive || resp.Total != 3 {
		t.Fatalf("resp = %+v", resp)
	}
	for _, ref := range resp.Dependencies {
		if ref.Source != "" {
			t.Errorf("transitive entry %s should carry no source", ref.Path)
		}
	}
}

func TestDependentsCommand(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)

	var resp DependentsResponseCLI
	runJSON(t, &resp, "dependents", "react", "-m", manifest, "--root", t.TempDir())

	if resp.Module.Kind != "external" || resp.Total != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Dependents[0].Path != "src/index.js" || resp.Dependents[1].Path != "src/a.js" {
		t.Errorf("dependents = %+v", resp.Dependents)
	}
}

func TestAffectedCommand(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)
	root := t.TempDir()

	var resp AffectedResponseCLI
	runJSON(t, &resp, "affected", "src/b.js", "-m", manifest, "--root", root)

	if resp.Total != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Affected[0].Path != "src/a.js" || resp.Affected[0].Distance != 1 {
		t.Errorf("first = %+v", resp.Affected[0])
	}
	if resp.Affected[1].Path != "src/index.js" || resp.Affected[1].Distance != 2 {
		t.Errorf("second = %+v", resp.Affected[1])
	}

	var bounded AffectedResponseCLI
	runJSON(t, &bounded, "affected", "src/b.js", "--depth", "1", "-m", manifest, "--root", root)
	if bounded.Total != 1 {
		t.Errorf("depth 1 total = %d, want 1", bounded.Total)
	}
}

func TestAffectedCommandExternal(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)
	root := t.TempDir()

	var affected AffectedResponseCLI
	runJSON(t, &affected, "affected", "react", "-m", manifest, "--root", root)
	if affected.Module.Kind != "external" || affected.Total != 0 {
		t.Errorf("affected react = %+v, want an empty set", affected)
	}

	var dependents DependentsResponseCLI
	runJSON(t, &dependents, "dependents", "react", "-m", manifest, "--root", root)
	if dependents.Total != 2 {
		t.Errorf("dependents react total = %d, want 2", dependents.Total)
	}
}

func TestAffectedCommandRanked(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)

	var resp AffectedResponseCLI
	runJSON(t, &resp, "affected", "src/b.js", "--rank", "--top", "1", "-m", manifest, "--root", t.TempDir())

	if resp.Ranked == nil {
		t.Fatal("expected ranked output")
	}
	if len(resp.Ranked.Results) != 1 || resp.Ranked.Results[0].Path != "src/a.js" {
		t.Errorf("results = %+v", resp.Ranked.Results)
	}
	if resp.Ranked.Results[0].Score <= 0 {
		t.Errorf("score = %v, want > 0", resp.Ranked.Results[0].Score)
	}
}

func TestImportsCommand(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)

	var resp ImportsResponseCLI
	runJSON(t, &resp, "imports", "src/a.js", "-m", manifest, "--root", t.TempDir())

	want := []ImportCLI{
		{Specifier: "./b", ID: 3, Path: "src/b.js"},
		{Specifier: "react", ID: 2, Path: "react"},
	}
	if len(resp.Imports) != len(want) {
		t.Fatalf("imports = %+v, want %+v", resp.Imports, want)
	}
	for i := range want {
		if resp.Imports[i] != want[i] {
			t.Errorf("imports[%d] = %+v, want %+v", i, resp.Imports[i], want[i])
		}
	}
}

func TestModulesCommand(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)

	var resp ModulesResponseCLI
	runJSON(t, &resp, "modules", "-m", manifest, "--root", t.TempDir())

	if resp.Size != 4 || len(resp.Modules) != 4 {
		t.Fatalf("resp = %+v", resp)
	}
	react := resp.Modules[2]
	if react.Path != "react" || react.Kind != "external" || react.Dependents != 2 {
		t.Errorf("react = %+v", react)
	}
	if len(resp.Loads) != 1 || resp.Loads[0].File != manifest || resp.Loads[0].Records != 3 {
		t.Errorf("loads = %+v", resp.Loads)
	}
	if resp.Loads[0].ID == "" {
		t.Error("load ID should be set")
	}
}

func TestModulesOutputDeterministic(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)
	root := t.TempDir()

	first, _, err := runCLI(t, "modules", "-m", manifest, "--root", root, "--format", "json")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, _, err := runCLI(t, "modules", "-m", manifest, "--root", root, "--format", "json")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	equal, err := output.Equal([]byte(first), []byte(second), "loads.id", "loads.durationMs")
	if err != nil {
		t.Fatalf("Equal() error = %v", err)
	}
	if !equal {
		t.Errorf("outputs differ:\n%s\n%s", first, second)
	}
}

func TestMultipleManifests(t *testing.T) {
	first := writeManifest(t, sampleManifest)
	second := writeManifest(t, `{"modules": [{"path": "src/c.js", "imports": [{"path": "src/b.js"}]}]}`)

	var resp AffectedResponseCLI
	runJSON(t, &resp, "affected", "src/b.js", "-m", first, "-m", second, "--root", t.TempDir())

	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
}

func TestCommandErrors(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)
	root := t.TempDir()

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
		exit int
	}{
		{"unknown path", []string{"deps", "src/missing.js", "-m", manifest, "--root", root}, errors.NotFound, 2},
		{"unknown id", []string{"affected", "#99", "-m", manifest, "--root", root}, errors.NotFound, 2},
		{"bad key", []string{"deps", "#x", "-m", manifest, "--root", root}, errors.InvalidInput, 1},
		{"no manifests", []string{"modules", "--root", root}, errors.InvalidInput, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.CodeOf(err) != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", errors.CodeOf(err), tt.code, err)
			}
			if got := exitCode(err); got != tt.exit {
				t.Errorf("exitCode = %d, want %d", got, tt.exit)
			}
		})
	}
}

func TestUnsupportedFormatFlag(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)

	_, _, err := runCLI(t, "modules", "-m", manifest, "--root", t.TempDir(), "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("err = %v, want unsupported format", err)
	}
}

func TestLogsGoToStderr(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)

	stdout, stderr, err := runCLI(t, "modules", "-m", manifest, "--root", t.TempDir(), "-v")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "Record file loaded") {
		t.Errorf("stderr should carry the load log line, got: %q", stderr)
	}
	if strings.Contains(stdout, "Record file loaded") {
		t.Error("log lines leaked to stdout")
	}
}

func TestConfigFileManifests(t *testing.T) {
	manifest := writeManifest(t, sampleManifest)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := "version = 1\nmanifests = [\"" + filepath.ToSlash(manifest) + "\"]\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var resp ModulesResponseCLI
	runJSON(t, &resp, "modules", "--config", configPath, "--root", t.TempDir())
	if resp.Size != 4 {
		t.Errorf("size = %d, want 4", resp.Size)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	stdout, _, err := runCLI(t, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(stdout, "Initialized depgraph") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, ".depgraph", "config.toml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	stdout, _, err = runCLI(t, "init")
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	if !strings.Contains(stdout, "already initialized") {
		t.Errorf("second init stdout = %q", stdout)
	}

	stdout, _, err = runCLI(t, "init", "--force")
	if err != nil {
		t.Fatalf("forced init: %v", err)
	}
	if !strings.Contains(stdout, "Initialized depgraph") {
		t.Errorf("forced init stdout = %q", stdout)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(stdout, `"version"`) {
		t.Errorf("stdout = %q", stdout)
	}
}

package main

import (
	"fmt"
	"strings"

	"depgraph/internal/graph"
	"depgraph/internal/output"
	"depgraph/internal/version"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// ModuleRefCLI is a module as printed by the CLI.
type ModuleRefCLI struct {
	ID       int    `json:"id"`
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	Source   string `json:"source,omitempty"`
	Distance int    `json:"distance,omitempty"`
}

func moduleRef(m *graph.Module) ModuleRefCLI {
	return ModuleRefCLI{ID: int(m.ID), Path: m.Path, Kind: m.Kind.String()}
}

func moduleRefs(mods []*graph.Module) []ModuleRefCLI {
	refs := make([]ModuleRefCLI, 0, len(mods))
	for _, m := range mods {
		refs = append(refs, moduleRef(m))
	}
	return refs
}

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := output.EncodeIndented(resp, "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *DepsResponseCLI:
		return formatDepsHuman(v), nil
	case *DependentsResponseCLI:
		return formatDependentsHuman(v), nil
	case *AffectedResponseCLI:
		return formatAffectedHuman(v), nil
	case *ImportsResponseCLI:
		return formatImportsHuman(v), nil
	case *ModulesResponseCLI:
		return formatModulesHuman(v), nil
	case *version.BuildInfo:
		return formatVersionHuman(v), nil
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func writeRef(b *strings.Builder, ref ModuleRefCLI) {
	b.WriteString(fmt.Sprintf("  #%-4d %s", ref.ID, ref.Path))
	if ref.Kind == graph.KindExternal.String() {
		b.WriteString(" (external)")
	}
	if ref.Source != "" && ref.Source != ref.Path {
		b.WriteString(fmt.Sprintf("  <- %q", ref.Source))
	}
	b.WriteString("\n")
}

func formatDepsHuman(resp *DepsResponseCLI) string {
	var b strings.Builder

	title := "Dependencies"
	if resp.Transitive {
		title = "Transitive dependencies"
	}
	b.WriteString(fmt.Sprintf("%s of %s#%d\n", title, resp.Module.Path, resp.Module.ID))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(resp.Dependencies) == 0 {
		b.WriteString("No dependencies.\n")
		return b.String()
	}
	for _, ref := range resp.Dependencies {
		writeRef(&b, ref)
	}
	b.WriteString(fmt.Sprintf("\nTotal: %d\n", resp.Total))
	return b.String()
}

func formatDependentsHuman(resp *DependentsResponseCLI) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Dependents of %s#%d\n", resp.Module.Path, resp.Module.ID))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(resp.Dependents) == 0 {
		b.WriteString("No dependents.\n")
		return b.String()
	}
	for _, ref := range resp.Dependents {
		writeRef(&b, ref)
	}
	b.WriteString(fmt.Sprintf("\nTotal: %d\n", resp.Total))
	return b.String()
}

func formatAffectedHuman(resp *AffectedResponseCLI) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Modules affected by %s#%d\n", resp.Module.Path, resp.Module.ID))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if resp.Ranked != nil {
		if len(resp.Ranked.Results) == 0 {
			b.WriteString("No affected modules.\n")
			return b.String()
		}
		for i, r := range resp.Ranked.Results {
			b.WriteString(fmt.Sprintf("%2d. %-40s %.4f\n", i+1, r.Path, r.Score))
			if len(r.Via) > 1 {
				b.WriteString(fmt.Sprintf("    via %s\n", strings.Join(r.Via, " -> ")))
			}
		}
		b.WriteString(fmt.Sprintf("\nIterations: %d (converged: %v)\n", resp.Ranked.Iterations, resp.Ranked.Converged))
		return b.String()
	}

	if len(resp.Affected) == 0 {
		b.WriteString("No affected modules.\n")
		return b.String()
	}
	byDistance := map[int][]ModuleRefCLI{}
	maxDistance := 0
	for _, ref := range resp.Affected {
		byDistance[ref.Distance] = append(byDistance[ref.Distance], ref)
		if ref.Distance > maxDistance {
			maxDistance = ref.Distance
		}
	}
	for d := 1; d <= maxDistance; d++ {
		refs := byDistance[d]
		if len(refs) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("Distance %d:\n", d))
		for _, ref := range refs {
			writeRef(&b, ref)
		}
	}
	b.WriteString(fmt.Sprintf("\nTotal: %d\n", resp.Total))
	return b.String()
}

func formatImportsHuman(resp *ImportsResponseCLI) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Imports of %s#%d\n", resp.Module.Path, resp.Module.ID))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(resp.Imports) == 0 {
		b.WriteString("No imports.\n")
		return b.String()
	}
	for _, imp := range resp.Imports {
		if imp.Path == "" {
			b.WriteString(fmt.Sprintf("  %-30s -> (unresolved)\n", imp.Specifier))
			continue
		}
		b.WriteString(fmt.Sprintf("  %-30s -> %s#%d\n", imp.Specifier, imp.Path, imp.ID))
	}
	return b.String()
}

func formatModulesHuman(resp *ModulesResponseCLI) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Modules (%d)\n", resp.Size))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for _, m := range resp.Modules {
		kind := ""
		if m.Kind == graph.KindExternal.String() {
			kind = " (external)"
		}
		b.WriteString(fmt.Sprintf("  #%-4d %s%s  deps: %d, dependents: %d\n",
			m.ID, m.Path, kind, m.Dependencies, m.Dependents))
	}

	if len(resp.Loads) > 0 {
		b.WriteString("\nLoads:\n")
		for _, l := range resp.Loads {
			b.WriteString(fmt.Sprintf("  %s  %s (%d records, %d created, %d edges)\n",
				l.ID, l.File, l.Records, l.Created, l.Edges))
		}
	}
	return b.String()
}

func formatVersionHuman(info *version.BuildInfo) string {
	return fmt.Sprintf("depgraph version %s\nCommit: %s\nBuilt: %s", info.Version, info.Commit, info.BuildDate)
}

package main

import (
	"github.com/spf13/cobra"

	"depgraph/internal/graph"
)

var depsTransitive bool

// DepsResponseCLI is the output of `depgraph deps`.
type DepsResponseCLI struct {
	Module       ModuleRefCLI   `json:"module"`
	Transitive   bool           `json:"transitive"`
	Dependencies []ModuleRefCLI `json:"dependencies"`
	Total        int            `json:"total"`
}

var depsCmd = &cobra.Command{
	Use:   "deps <module>",
	Short: "List the modules a module imports",
	Long: `List the direct dependencies of a module, each with the import specifier
that produced the edge. With --transitive, list everything reachable by following
dependency edges instead.

Examples:
  depgraph deps src/index.js -m dist/meta.json
  depgraph deps '#3' --transitive --format=json`,
	Args: cobra.ExactArgs(1),
	RunE: runDeps,
}

func init() {
	depsCmd.Flags().BoolVarP(&depsTransitive, "transitive", "t", false, "Follow dependency edges transitively")
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	key, err := parseKey(args[0])
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	module, err := s.graph.GetModule(key)
	if err != nil {
		return err
	}

	var deps []*graph.Module
	if depsTransitive {
		deps, err = s.graph.TransitiveDependenciesOf(key)
	} else {
		deps, err = s.graph.DependenciesOf(key)
	}
	if err != nil {
		return err
	}

	sources := make(map[graph.ID]string, len(module.Dependencies))
	for _, d := range module.Dependencies {
		sources[d.ID] = d.Source
	}
	refs := moduleRefs(deps)
	if !depsTransitive {
		for i := range refs {
			refs[i].Source = sources[graph.ID(refs[i].ID)]
		}
	}

	return writeResponse(cmd, &DepsResponseCLI{
		Module:       moduleRef(module),
		Transitive:   depsTransitive,
		Dependencies: refs,
		Total:        len(refs),
	})
}

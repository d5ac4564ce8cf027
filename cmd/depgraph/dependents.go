package main

import (
	"github.com/spf13/cobra"
)

// DependentsResponseCLI is the output of `depgraph dependents`.
type DependentsResponseCLI struct {
	Module     ModuleRefCLI   `json:"module"`
	Dependents []ModuleRefCLI `json:"dependents"`
	Total      int            `json:"total"`
}

var dependentsCmd = &cobra.Command{
	Use:   "dependents <module>",
	Short: "List the modules that import a module",
	Long: `List the modules that import a module directly. Works for external modules
too, which are found through the dependency lists of their importers.

Examples:
  depgraph dependents src/utils.js -m dist/meta.json
  depgraph dependents react --format=json`,
	Args: cobra.ExactArgs(1),
	RunE: runDependents,
}

func init() {
	rootCmd.AddCommand(dependentsCmd)
}

func runDependents(cmd *cobra.Command, args []string) error {
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
	dependents, err := s.graph.DependentsOf(key)
	if err != nil {
		return err
	}

	refs := moduleRefs(dependents)
	for i, d := range dependents {
		for _, edge := range d.Dependencies {
			if edge.ID == module.ID {
				refs[i].Source = edge.Source
				break
			}
		}
	}

	return writeResponse(cmd, &DependentsResponseCLI{
		Module:     moduleRef(module),
		Dependents: refs,
		Total:      len(refs),
	})
}

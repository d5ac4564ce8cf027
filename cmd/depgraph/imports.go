package main

import (
	"github.com/spf13/cobra"

	"depgraph/internal/graph"
)

// ImportsResponseCLI is the output of `depgraph imports`.
type ImportsResponseCLI struct {
	Module  ModuleRefCLI `json:"module"`
	Imports []ImportCLI  `json:"imports"`
}

// ImportCLI is one specifier-to-module binding from a module's metadata.
// Path is empty when the binding names no live module.
type ImportCLI struct {
	Specifier string `json:"specifier"`
	ID        int    `json:"id"`
	Path      string `json:"path,omitempty"`
}

var importsCmd = &cobra.Command{
	Use:   "imports <module>",
	Short: "Show a module's import specifiers and what they resolved to",
	Long: `Show the import metadata of a module: each specifier as written in the
source and the module it resolved to.

Examples:
  depgraph imports src/index.js -m dist/meta.json
  depgraph imports '#2' --format=json`,
	Args: cobra.ExactArgs(1),
	RunE: runImports,
}

func init() {
	rootCmd.AddCommand(importsCmd)
}

func runImports(cmd *cobra.Command, args []string) error {
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

	resp := &ImportsResponseCLI{Module: moduleRef(module), Imports: []ImportCLI{}}
	for _, spec := range module.Meta.Specifiers() {
		imp := ImportCLI{Specifier: spec, ID: -1}
		target := module.Meta.Imports[spec]
		if m, err := s.graph.GetModule(target); err == nil {
			imp.ID = int(m.ID)
			imp.Path = m.Path
		} else if id, ok := target.(graph.ID); ok {
			imp.ID = int(id)
		}
		resp.Imports = append(resp.Imports, imp)
	}
	return writeResponse(cmd, resp)
}

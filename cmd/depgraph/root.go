package main

import (
	"github.com/spf13/cobra"

	"depgraph/internal/version"
)

var (
	configFlag    string
	rootFlag      string
	strictFlag    bool
	absoluteFlag  bool
	formatFlag    string
	verbosityFlag int
	quietFlag     bool
	manifestFlags []string
)

var rootCmd = &cobra.Command{
	Use:   "depgraph",
	Short: "depgraph - bundler module dependency graph",
	Long: `depgraph builds an in-memory module dependency graph from bundler record files
and answers dependency and change-impact questions without re-running the build.

Record files are JSON, YAML or TOML, optionally zstd (.zst) or gzip (.gz)
compressed. Modules are addressed by path or by ID (#3).`,
	Version:       version.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("depgraph version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", "", "Config file (default: .depgraph/config.toml)")
	flags.StringVar(&rootFlag, "root", "", "Project root for path canonicalization (default: config root)")
	flags.BoolVar(&strictFlag, "strict", false, "Validate import metadata on every mutation")
	flags.BoolVar(&absoluteFlag, "absolute-paths", false, "Store module paths as absolute")
	flags.StringVar(&formatFlag, "format", "human", "Output format (json, human)")
	flags.CountVarP(&verbosityFlag, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress all logs")
	flags.StringArrayVarP(&manifestFlags, "manifest", "m", nil, "Record file to load (repeatable, loaded in order)")
}

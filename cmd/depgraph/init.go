package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"depgraph/internal/config"
	"depgraph/internal/errors"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize depgraph configuration",
	Long:  "Creates a .depgraph/ directory with default configuration in the current directory",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.New(errors.InvalidInput, "failed to get current directory", err)
	}
	out := cmd.OutOrStdout()

	configPath := config.Path(cwd)
	if _, statErr := os.Stat(configPath); statErr == nil && !initForce {
		// Already initialized is success
		fmt.Fprintln(out, "depgraph already initialized.")
		fmt.Fprintf(out, "Configuration at: %s\n", configPath)
		fmt.Fprintln(out, "\nRun 'depgraph init --force' to overwrite it.")
		return nil
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(cwd); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(out, "Initialized depgraph in %s\n", configPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Add your bundler's record files to 'manifests' in the config")
	fmt.Fprintln(out, "  2. Run 'depgraph modules' to inspect the graph")
	return nil
}

package main

import (
	"fmt"
	"os"

	"depgraph/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, fix := range errors.GetSuggestedFixes(errors.CodeOf(err)) {
			fmt.Fprintf(os.Stderr, "  - %s\n", fix.Description)
			if fix.Command != "" {
				fmt.Fprintf(os.Stderr, "    $ %s\n", fix.Command)
			}
		}
		closeSession()
		os.Exit(exitCode(err))
	}
	closeSession()
}

// exitCode maps graph error codes to process exit codes.
func exitCode(err error) int {
	switch errors.CodeOf(err) {
	case errors.NotFound:
		return 2
	case errors.MetaMismatch, errors.DanglingReference, errors.InvalidEdge:
		return 3
	default:
		return 1
	}
}

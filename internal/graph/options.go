package graph

import (
	"log/slog"
	"os"

	"depgraph/internal/slogutil"
)

// Options configures a Graph.
type Options struct {
	// Root is the base for path canonicalization (default: working directory).
	Root string

	// Strict enables import metadata validation on AddModule and UpdateModule.
	Strict bool

	// AbsolutePaths stores canonical paths as absolute instead of root-relative.
	AbsolutePaths bool

	// Logger receives debug logs for loads and mutations.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	root, err := os.Getwd()
	if err != nil {
		root = ""
	}
	return Options{
		Root:   root,
		Logger: slogutil.NewDiscardLogger(),
	}
}

// Option mutates Options.
type Option func(*Options)

// WithRoot sets the path canonicalization root.
func WithRoot(root string) Option {
	return func(o *Options) {
		o.Root = root
	}
}

// WithStrict toggles strict import metadata validation.
func WithStrict(strict bool) Option {
	return func(o *Options) {
		o.Strict = strict
	}
}

// WithAbsolutePaths toggles absolute canonical paths.
func WithAbsolutePaths(absolute bool) Option {
	return func(o *Options) {
		o.AbsolutePaths = absolute
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger == nil {
			logger = slogutil.NewDiscardLogger()
		}
		o.Logger = logger
	}
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"depgraph/internal/config"
	"depgraph/internal/errors"
	"depgraph/internal/graph"
	"depgraph/internal/manifest"
	"depgraph/internal/slogutil"
)

// session is the per-invocation state: config, logger and the loaded graph.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	graph   *graph.Graph
	loads   []loadedFile
	factory *slogutil.LoggerFactory
}

// loadedFile pairs a record file with the report of loading it.
type loadedFile struct {
	file   string
	report *graph.LoadReport
}

var current *session

// closeSession releases log files held by the current session.
func closeSession() {
	if current != nil && current.factory != nil {
		_ = current.factory.Close()
	}
	current = nil
}

// loadConfig resolves the config file from --config or the working directory
// and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configFlag != "" {
		cfg, err = config.LoadConfigFile(configFlag)
	} else {
		var cwd string
		cwd, err = os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg, err = config.LoadConfig(cwd)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if rootFlag != "" {
		cfg.Root = rootFlag
	}
	if flags.Changed("strict") {
		cfg.Strict = strictFlag
	}
	if flags.Changed("absolute-paths") {
		cfg.AbsolutePaths = absoluteFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSession loads config, builds the logger and the graph, and loads every
// record file given by --manifest or, failing that, by the config.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	factory := slogutil.NewLoggerFactory(cfg.Logging)
	if quietFlag || verbosityFlag > 0 {
		factory.SetLevelOverride(slogutil.LevelFromVerbosity(verbosityFlag, quietFlag))
	}
	logger, err := factory.CLILogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		logger:  logger,
		factory: factory,
		graph: graph.New(
			graph.WithRoot(root),
			graph.WithStrict(cfg.Strict),
			graph.WithAbsolutePaths(cfg.AbsolutePaths),
			graph.WithLogger(logger),
		),
	}
	current = s

	files := manifestFlags
	if len(files) == 0 {
		files = cfg.Manifests
	}
	if len(files) == 0 {
		return nil, errors.Newf(errors.InvalidInput, "no record files given (use --manifest or set manifests in config)")
	}
	for _, path := range files {
		if err := s.load(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *session) load(path string) error {
	doc, err := manifest.ParseFile(path, manifest.Options{MaxBytes: s.cfg.Manifest.MaxBytes})
	if err != nil {
		return err
	}
	report, err := s.graph.Load(doc.Modules)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	s.loads = append(s.loads, loadedFile{file: path, report: report})

	s.logger.Info("Record file loaded", "file", path, "load", report)
	return nil
}

// parseKey reads a module key: "#<id>" is an ID, anything else a path.
func parseKey(s string) (graph.Key, error) {
	if strings.HasPrefix(s, "#") {
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 {
			return nil, errors.Newf(errors.InvalidInput, "invalid module id %q", s)
		}
		return graph.ID(n), nil
	}
	if s == "" {
		return nil, errors.Newf(errors.InvalidInput, "module key is empty")
	}
	return graph.Path(s), nil
}

// writeResponse formats resp with --format and prints it.
func writeResponse(cmd *cobra.Command, resp interface{}) error {
	output, err := FormatResponse(resp, OutputFormat(formatFlag))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

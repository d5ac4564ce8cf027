package slogutil

import (
	"io"
	"log/slog"

	"depgraph/internal/config"
)

// LoggerFactory builds the process logger from the logging config.
// Precedence for the level: CLI override > config > default (warn).
type LoggerFactory struct {
	cfg      config.LoggingConfig
	override *slog.Level
	closers  []io.Closer
}

// NewLoggerFactory creates a new logger factory.
func NewLoggerFactory(cfg config.LoggingConfig) *LoggerFactory {
	return &LoggerFactory{cfg: cfg}
}

// SetLevelOverride pins the level regardless of config, e.g. from -v or --quiet.
func (f *LoggerFactory) SetLevelOverride(level slog.Level) {
	f.override = &level
}

// EffectiveLevel returns the level loggers are created at.
func (f *LoggerFactory) EffectiveLevel() slog.Level {
	if f.override != nil {
		return *f.override
	}
	if f.cfg.Level != "" {
		return LevelFromString(f.cfg.Level)
	}
	return slog.LevelWarn
}

// CLILogger returns a logger writing to console in the configured format.
// When a log file is configured every record is also appended there in the
// line format, with size-based rotation if MaxSize is set.
func (f *LoggerFactory) CLILogger(console io.Writer) (*slog.Logger, error) {
	level := f.EffectiveLevel()
	consoleHandler := NewHandler(console, f.cfg.Format, level)
	if f.cfg.File == "" {
		return slog.New(consoleHandler), nil
	}

	w, err := NewRotatingWriter(f.cfg.File, f.cfg.MaxSize, f.cfg.MaxBackups)
	if err != nil {
		return nil, err
	}
	f.closers = append(f.closers, w)

	fileHandler := NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewTeeHandler(consoleHandler, fileHandler)), nil
}

// Close closes all open log files.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = 1

// DirName is the per-project directory holding config.toml.
const DirName = ".depgraph"

// Config represents the complete depgraph configuration
type Config struct {
	Version       int    `json:"version" toml:"version" mapstructure:"version"`
	Root          string `json:"root" toml:"root" mapstructure:"root"`
	Strict        bool   `json:"strict" toml:"strict" mapstructure:"strict"`
	AbsolutePaths bool   `json:"absolutePaths" toml:"absolutePaths" mapstructure:"absolutePaths"`

	// Manifests are loaded, in order, when a command is given no --manifest flag.
	Manifests []string `json:"manifests" toml:"manifests" mapstructure:"manifests"`

	Manifest ManifestConfig `json:"manifest" toml:"manifest" mapstructure:"manifest"`
	Rank     RankConfig     `json:"rank" toml:"rank" mapstructure:"rank"`
	Logging  LoggingConfig  `json:"logging" toml:"logging" mapstructure:"logging"`
}

// ManifestConfig contains record file decoding limits
type ManifestConfig struct {
	// MaxBytes caps the decompressed size of a single record file. 0 disables the cap.
	MaxBytes int64 `json:"maxBytes" toml:"maxBytes" mapstructure:"maxBytes"`
}

// RankConfig contains defaults for `affected --rank`
type RankConfig struct {
	TopK          int     `json:"topK" toml:"topK" mapstructure:"topK"`
	Damping       float64 `json:"damping" toml:"damping" mapstructure:"damping"`
	MaxIterations int     `json:"maxIterations" toml:"maxIterations" mapstructure:"maxIterations"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" toml:"format" mapstructure:"format"`
	Level  string `json:"level" toml:"level" mapstructure:"level"`

	// File, when set, receives a copy of every log line.
	File       string `json:"file,omitempty" toml:"file,omitempty" mapstructure:"file"`
	MaxSize    string `json:"maxSize,omitempty" toml:"maxSize,omitempty" mapstructure:"maxSize"`
	MaxBackups int    `json:"maxBackups,omitempty" toml:"maxBackups,omitempty" mapstructure:"maxBackups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:   CurrentVersion,
		Root:      ".",
		Manifests: []string{},
		Manifest: ManifestConfig{
			MaxBytes: 64 << 20,
		},
		Rank: RankConfig{
			TopK:          20,
			Damping:       0.85,
			MaxIterations: 20,
		},
		Logging: LoggingConfig{
			Format:     "human",
			Level:      "warn",
			MaxBackups: 3,
		},
	}
}

// setDefaults registers every key so env overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("root", d.Root)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("absolutePaths", d.AbsolutePaths)
	v.SetDefault("manifests", d.Manifests)
	v.SetDefault("manifest.maxBytes", d.Manifest.MaxBytes)
	v.SetDefault("rank.topK", d.Rank.TopK)
	v.SetDefault("rank.damping", d.Rank.Damping)
	v.SetDefault("rank.maxIterations", d.Rank.MaxIterations)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxSize", d.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.SetEnvPrefix("DEPGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from <projectRoot>/.depgraph/config.toml.
// A missing file yields the defaults with env overrides applied.
func LoadConfig(projectRoot string) (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(projectRoot, DirName))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return unmarshal(v)
}

// LoadConfigFile loads configuration from an explicit file path.
func LoadConfigFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Manifests == nil {
		cfg.Manifests = []string{}
	}
	return &cfg, nil
}

// Path returns the config file location under projectRoot.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, DirName, "config.toml")
}

// Save writes the configuration to <projectRoot>/.depgraph/config.toml
func (c *Config) Save(projectRoot string) error {
	configPath := Path(projectRoot)
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	return os.WriteFile(configPath, buf.Bytes(), 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q (want human or json)", c.Logging.Format)}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	if c.Logging.MaxBackups < 0 {
		return &ConfigError{Field: "logging.maxBackups", Message: "must not be negative"}
	}
	if c.Manifest.MaxBytes < 0 {
		return &ConfigError{Field: "manifest.maxBytes", Message: "must not be negative"}
	}
	if c.Rank.Damping <= 0 || c.Rank.Damping >= 1 {
		return &ConfigError{Field: "rank.damping", Message: "must be between 0 and 1"}
	}
	if c.Rank.TopK < 0 || c.Rank.MaxIterations < 0 {
		return &ConfigError{Field: "rank", Message: "topK and maxIterations must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

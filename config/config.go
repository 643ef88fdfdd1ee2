// Package config loads the YAML run configuration of the sbfs command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/sbfs/compress"
	"github.com/arloliu/sbfs/crossval"
	"github.com/arloliu/sbfs/regression"
	"github.com/arloliu/sbfs/score"
	"github.com/arloliu/sbfs/selection"
)

// Config is the complete run configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Selection SelectionConfig `yaml:"selection"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DataConfig locates the CSV dataset.
type DataConfig struct {
	Path   string   `yaml:"path,omitempty"`
	Target string   `yaml:"target"`
	Skip   []string `yaml:"skip,omitempty"` // columns that are neither target nor predictor
}

// SelectionConfig configures the search.
type SelectionConfig struct {
	Regressor       string   `yaml:"regressor"`
	CrossValidation string   `yaml:"cross_validation"`
	Scoring         []string `yaml:"scoring"`
	Preprocessor    string   `yaml:"preprocessor"`
	Forced          []string `yaml:"forced,omitempty"`
	Initial         []string `yaml:"initial,omitempty"` // empty means every predictor
	Compare         []string `yaml:"compare,omitempty"` // extra regressors searched concurrently
}

// CacheConfig configures persistence of the evaluation cache.
type CacheConfig struct {
	File  string `yaml:"file,omitempty"`
	Codec string `yaml:"codec"` // none, zstd, s2, lz4
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Selection: SelectionConfig{
			Regressor:       regression.DefaultName,
			CrossValidation: crossval.DefaultName,
			Scoring:         []string{"ADJ_R2"},
			Preprocessor:    selection.DefaultPreprocessor,
		},
		Cache: CacheConfig{
			Codec: compress.Zstd.String(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the configuration at path on top of the defaults. A missing file
// yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies SBFS_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SBFS_REGRESSOR"); v != "" {
		c.Selection.Regressor = v
	}
	if v := os.Getenv("SBFS_CROSS_VALIDATION"); v != "" {
		c.Selection.CrossValidation = v
	}
	if v := os.Getenv("SBFS_SCORING"); v != "" {
		c.Selection.Scoring = SplitList(v)
	}
	if v := os.Getenv("SBFS_CACHE_FILE"); v != "" {
		c.Cache.File = v
	}
	if v := os.Getenv("SBFS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate resolves every backend name so that configuration mistakes surface
// before any data is read.
func (c *Config) Validate() error {
	for _, name := range append([]string{c.Selection.Regressor}, c.Selection.Compare...) {
		if _, err := regression.Lookup(name); err != nil {
			return err
		}
	}
	if _, err := crossval.New(c.Selection.CrossValidation); err != nil {
		return err
	}
	if _, err := score.NewSet(c.Selection.Scoring...); err != nil {
		return err
	}
	if _, err := compress.ParseType(c.Cache.Codec); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}

// Logger builds a production zap logger honoring the logging section. verbose
// forces debug level.
func (c *Config) Logger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if strings.EqualFold(c.Logging.Format, "console") {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// SplitList splits a comma separated list, dropping blanks. It is shared by
// environment overrides and command line flags.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

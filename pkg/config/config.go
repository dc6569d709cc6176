// Package config loads lispir settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectFile is looked up in the working directory.
	ProjectFile = ".lispir.yaml"
	// UserFile is looked up under the user's home directory.
	UserFile = ".lispir/config.yaml"

	DefaultPrompt      = "lispir> "
	DefaultHistoryFile = ".lispir_history"
	DefaultMaxDepth    = 10000
	DefaultLogLevel    = "warn"
)

// Config holds interpreter and REPL settings.
type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	MaxDepth    int    `yaml:"max_depth"`
	LogLevel    string `yaml:"log_level"`
	TraceFile   string `yaml:"trace_file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	history := DefaultHistoryFile
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, DefaultHistoryFile)
	}
	return &Config{
		Prompt:      DefaultPrompt,
		HistoryFile: history,
		MaxDepth:    DefaultMaxDepth,
		LogLevel:    DefaultLogLevel,
	}
}

// Load reads configuration with precedence: project (.lispir.yaml in dir)
// → user (~/.lispir/config.yaml) → defaults. It returns the path that was
// used, or "" for defaults. A file that exists but is invalid is an error.
func Load(dir string) (*Config, string, error) {
	candidates := []string{filepath.Join(dir, ProjectFile)}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, UserFile))
	}

	for _, path := range candidates {
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, err
		}
		return cfg, path, nil
	}

	return Default(), "", nil
}

// LoadFile reads one YAML file. Fields it leaves out keep their defaults.
func LoadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the interpreter cannot honor.
func (c *Config) Validate() error {
	var issues []string
	if c.MaxDepth < 0 {
		issues = append(issues, fmt.Sprintf("max_depth must be >= 0, got %d", c.MaxDepth))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		issues = append(issues, err.Error())
	}
	if len(issues) > 0 {
		return errors.New(strings.Join(issues, "; "))
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("unknown log_level %q", s)
}

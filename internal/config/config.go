// Package config loads the CLI's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/alnah/go-md2notion/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// Config holds all configuration for block generation.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Assets  AssetsConfig  `yaml:"assets"`
	Convert ConvertConfig `yaml:"convert"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Pretty     bool   `yaml:"pretty"`     // Indent JSON output
}

// AssetsConfig defines local asset resolution options.
type AssetsConfig struct {
	Dir      string `yaml:"dir"`      // Root for resolving relative asset paths
	Manifest string `yaml:"manifest"` // Upload-manifest output path (empty = none)
}

// ConvertConfig defines conversion tuning options.
type ConvertConfig struct {
	HighlightColor  string `yaml:"highlightColor"`  // Color tag for ==highlights==
	KeepFrontmatter bool   `yaml:"keepFrontmatter"` // Convert frontmatter as content
}

// DefaultConfig returns a config with zero-value defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is user-supplied by design
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// Package config loads CLI defaults from a TOML file and SCENEBRIDGE_*
// environment variables. Environment variables win over the file, and
// command-line flags win over both.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/extract"
)

const appName = "scenebridge"

// Config is the CLI configuration.
type Config struct {
	Extract ExtractConfig `toml:"extract"`
	Render  RenderConfig  `toml:"render"`
	Cache   CacheConfig   `toml:"cache"`
}

// ExtractConfig holds defaults for the extract command.
type ExtractConfig struct {
	Policy    string `toml:"policy" env:"SCENEBRIDGE_POLICY"`
	Passes    bool   `toml:"passes" env:"SCENEBRIDGE_PASSES"`
	Materials bool   `toml:"materials" env:"SCENEBRIDGE_MATERIALS"`
	OutputDir string `toml:"output_dir" env:"SCENEBRIDGE_OUTPUT_DIR"`
}

// RenderConfig holds defaults for the render command.
type RenderConfig struct {
	// Command is the render command template. Empty uses the built-in
	// batch render command.
	Command   string `toml:"command" env:"SCENEBRIDGE_RENDER_COMMAND"`
	Camera    string `toml:"camera" env:"SCENEBRIDGE_RENDER_CAMERA"`
	OutputDir string `toml:"output_dir" env:"SCENEBRIDGE_RENDER_DIR"`
}

// CacheConfig controls the snapshot cache.
type CacheConfig struct {
	Dir      string `toml:"dir" env:"SCENEBRIDGE_CACHE_DIR"`
	Disabled bool   `toml:"disabled" env:"SCENEBRIDGE_NO_CACHE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			Policy:    string(extract.DefaultPolicy),
			Passes:    true,
			Materials: true,
			OutputDir: "exports",
		},
		Render: RenderConfig{
			Camera:    "persp",
			OutputDir: "renders",
		},
	}
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/scenebridge/config.toml).
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// Load reads path, then applies environment overrides. An empty path reads
// DefaultPath if it exists. A path given explicitly must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := decodeFile(path, cfg); err != nil {
				return nil, err
			}
		} else if explicit {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks values that flags cannot fix later.
func (c *Config) Validate() error {
	p, err := extract.ParsePolicy(c.Extract.Policy)
	if err != nil {
		return err
	}
	c.Extract.Policy = string(p)
	return nil
}

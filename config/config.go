// Package config loads and saves the terminal's configuration: shell
// selection, color theme, font, and glyph atlas sizing. It mirrors the
// shape of the teacher's JSON config but stores it as YAML, since the
// expanded schema now has nested sections that read more naturally
// that way (see SPEC_FULL.md §A).
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ShellConfig controls how the login shell is spawned.
type ShellConfig struct {
	// Path overrides shell discovery (/etc/passwd, then common
	// fallbacks) when non-empty.
	Path string `yaml:"path,omitempty"`
	// SourceRC, when true, launches the shell so it sources the user's
	// normal startup files (.bashrc, .zshrc, ...); when false it
	// launches a plain interactive shell without them.
	SourceRC bool `yaml:"source_rc"`
	// AdditionalEnv is merged into the shell's environment verbatim.
	AdditionalEnv map[string]string `yaml:"additional_env,omitempty"`
}

// FontConfig selects the font face's rendering size. The font file
// itself comes from the --font flag or a system font search, not from
// the config.
type FontConfig struct {
	SizePoints float64 `yaml:"size_points"`
}

// AtlasConfig controls glyph atlas texture sizing. The cache's entry
// count is fixed by the core (atlas.Capacity); this only controls the
// backing texture's pixel dimensions, which must hold Capacity tiles
// arranged in a square grid.
type AtlasConfig struct {
	GlyphPixelSize int `yaml:"glyph_pixel_size"`
}

// Config is the full terminal configuration.
type Config struct {
	Shell ShellConfig `yaml:"shell"`
	Theme string      `yaml:"theme"`
	Font  FontConfig  `yaml:"font"`
	Atlas AtlasConfig `yaml:"atlas"`
}

// DefaultConfig returns the configuration used when no config file
// exists yet.
func DefaultConfig() *Config {
	return &Config{
		Shell: ShellConfig{SourceRC: true},
		Theme: "driftwood-dark",
		Font:  FontConfig{SizePoints: 14},
		Atlas: AtlasConfig{GlyphPixelSize: 32},
	}
}

// GetConfigPath returns the path to the user's config file,
// ~/.config/driftterm/config.yaml.
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".driftterm.yaml"
	}
	dir := filepath.Join(home, ".config", "driftterm")
	os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file, falling back to DefaultConfig if it
// doesn't exist.
func Load() (*Config, error) {
	return LoadFromPath(GetConfigPath())
}

// LoadFromPath reads a config file at an explicit path, falling back to
// DefaultConfig if it doesn't exist. Used both by Load and by callers
// that accept a --config flag override.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config file.
func (c *Config) Save() error {
	path := GetConfigPath()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetAvailableShells returns the login shells found on the system, for
// a config UI to offer as choices.
func GetAvailableShells() []string {
	candidates := []string{
		"/bin/bash", "/usr/bin/bash",
		"/bin/zsh", "/usr/bin/zsh",
		"/bin/fish", "/usr/bin/fish",
		"/bin/sh", "/usr/bin/sh",
		"/bin/dash", "/usr/bin/dash",
		"/bin/tcsh", "/usr/bin/tcsh",
		"/bin/ksh", "/usr/bin/ksh",
	}

	var shells []string
	seen := make(map[string]bool)
	for _, shell := range candidates {
		if _, err := os.Stat(shell); err != nil {
			continue
		}
		base := filepath.Base(shell)
		if seen[base] {
			continue
		}
		seen[base] = true
		shells = append(shells, shell)
	}
	return shells
}

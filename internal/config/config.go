// Package config defines the bar's user configuration: which modules appear
// in each section and in what order, plus per-module display options. The
// core treats a loaded Config as an immutable per-frame snapshot; the only
// write path back into it is a committed reorder.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Sections SectionsConfig `yaml:"sections"`
	Modules  ModulesConfig  `yaml:"modules"`
	Log      LogConfig      `yaml:"log"`
}

// SectionsConfig holds the ordered module id lists per placement section.
type SectionsConfig struct {
	Left   []string `yaml:"left"`
	Center []string `yaml:"center"`
	Right  []string `yaml:"right"`
}

// ModulesConfig groups per-module options.
type ModulesConfig struct {
	Clock   ClockConfig   `yaml:"clock"`
	Weather WeatherConfig `yaml:"weather"`
	Network NetworkConfig `yaml:"network"`
	Volume  VolumeConfig  `yaml:"volume"`
	Disk    DiskConfig    `yaml:"disk"`
	Script  ScriptConfig  `yaml:"script"`

	// FixedWidths reserves a cell width per module id, overriding both the
	// measured text and the module's own width hint. Used to pin widths for
	// modules whose text changes every update.
	FixedWidths map[string]int `yaml:"fixed_widths"`
}

// ClockConfig controls the clock module's format.
type ClockConfig struct {
	Format24h   bool `yaml:"format_24h"`
	ShowSeconds bool `yaml:"show_seconds"`
	ShowDay     bool `yaml:"show_day"`
	ShowDate    bool `yaml:"show_date"`
}

// WeatherConfig controls the weather module.
type WeatherConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Location    string `yaml:"location"` // empty = resolve by IP
	Fahrenheit  bool   `yaml:"fahrenheit"`
	IntervalMin int    `yaml:"interval_min"`
}

// NetworkConfig controls the network module.
type NetworkConfig struct {
	Interface string `yaml:"interface"` // empty = first non-loopback
	ShowRates bool   `yaml:"show_rates"`
}

// VolumeConfig controls the volume module.
type VolumeConfig struct {
	Step int `yaml:"step"` // percent per scroll notch
}

// DiskConfig controls the disk module.
type DiskConfig struct {
	Mount string `yaml:"mount"`
}

// ScriptConfig controls the script module.
type ScriptConfig struct {
	Command string `yaml:"command"` // run under a pty each slow tick
}

// LogConfig controls where diagnostics go. The bar owns the terminal, so
// logs must land in a file.
type LogConfig struct {
	File string `yaml:"file"` // empty = <config dir>/topbar.log
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Sections: SectionsConfig{
			Left:  []string{"app_menu", "active_app"},
			Right: []string{"weather", "script", "sysinfo", "disk", "network", "volume", "battery", "uptime", "clock"},
		},
		Modules: ModulesConfig{
			Clock:   ClockConfig{ShowDay: true, ShowDate: true},
			Weather: WeatherConfig{IntervalMin: 30},
			Volume:  VolumeConfig{Step: 5},
			Disk:    DiskConfig{Mount: "/"},
			Network: NetworkConfig{ShowRates: true},
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "topbar", "config.yaml"), nil
}

// Load reads the config at path, falling back to Default when the file does
// not exist. A file that exists but fails to parse is an error: silently
// replacing a user's config with defaults loses their section orders.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Normalize enforces the section invariants: an id appears at most once
// across all sections (first occurrence wins) and never twice within one.
func (c *Config) Normalize() {
	seen := make(map[string]bool)
	dedupe := func(ids []string) []string {
		out := ids[:0]
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
		return out
	}
	c.Sections.Left = dedupe(c.Sections.Left)
	c.Sections.Center = dedupe(c.Sections.Center)
	c.Sections.Right = dedupe(c.Sections.Right)
}

// FixedWidth returns the configured width override for a module id, or 0.
func (c *Config) FixedWidth(id string) int {
	if c.Modules.FixedWidths == nil {
		return 0
	}
	return c.Modules.FixedWidths[id]
}

// Clone returns a deep copy. Reorder commits mutate a clone and save it, so
// the frame currently rendering keeps its own snapshot.
func (c *Config) Clone() *Config {
	out := *c
	out.Sections.Left = append([]string(nil), c.Sections.Left...)
	out.Sections.Center = append([]string(nil), c.Sections.Center...)
	out.Sections.Right = append([]string(nil), c.Sections.Right...)
	if c.Modules.FixedWidths != nil {
		out.Modules.FixedWidths = make(map[string]int, len(c.Modules.FixedWidths))
		for k, v := range c.Modules.FixedWidths {
			out.Modules.FixedWidths[k] = v
		}
	}
	return &out
}

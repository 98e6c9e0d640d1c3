// Package config holds per-project tool settings (.scoretree/config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file name inside the project state directory
const FileName = "config.yaml"

// Config represents the settings file for a project
type Config struct {
	// Theme selects the UI color theme (currently "dark" or "light")
	Theme string `yaml:"theme,omitempty"`

	// Autosave writes the model back to disk after every committed
	// mutation instead of waiting for an explicit save
	Autosave bool `yaml:"autosave,omitempty"`

	// Journal configures the sqlite edit journal
	Journal JournalConfig `yaml:"journal,omitempty"`

	// Watch configures live reload when workflows update the model file
	Watch WatchConfig `yaml:"watch,omitempty"`
}

// JournalConfig controls the edit journal
type JournalConfig struct {
	// Enabled turns journaling on (default: true)
	Enabled *bool `yaml:"enabled,omitempty"`

	// Path overrides the journal database location
	// (default: <state dir>/journal.db)
	Path string `yaml:"path,omitempty"`
}

// WatchConfig controls model-file watching
type WatchConfig struct {
	// Enabled turns watching on (default: true)
	Enabled *bool `yaml:"enabled,omitempty"`

	// DebounceMS coalesces rapid writes into one reload (default: 250)
	DebounceMS int `yaml:"debounce_ms,omitempty"`
}

// Default returns the configuration used when no file exists
func Default() Config {
	return Config{Theme: "dark"}
}

// JournalEnabled resolves the journal toggle with its default
func (c Config) JournalEnabled() bool {
	if c.Journal.Enabled == nil {
		return true
	}
	return *c.Journal.Enabled
}

// WatchEnabled resolves the watch toggle with its default
func (c Config) WatchEnabled() bool {
	if c.Watch.Enabled == nil {
		return true
	}
	return *c.Watch.Enabled
}

// Debounce resolves the debounce interval in milliseconds
func (c Config) Debounce() int {
	if c.Watch.DebounceMS <= 0 {
		return 250
	}
	return c.Watch.DebounceMS
}

// Load reads the settings file from a state directory. A missing file
// yields the defaults silently; a corrupt file is an error the caller
// can surface.
func Load(stateDir string) (Config, error) {
	path := filepath.Join(stateDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the settings file into a state directory
func Save(cfg Config, stateDir string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	path := filepath.Join(stateDir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

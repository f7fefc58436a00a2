// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/logging"
)

// Config holds all contactbook configuration.
type Config struct {
	UI       UI                `yaml:"ui"`
	Log      Log               `yaml:"log"`
	Contacts []contact.Contact `yaml:"contacts"`
}

// UI holds terminal presentation settings.
type UI struct {
	Title     string `yaml:"title"`
	AltScreen bool   `yaml:"alt_screen"`
}

// Log holds logging settings.
type Log struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error" | "disabled"
	File  string `yaml:"file"`  // Empty discards log output.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UI{
			Title:     "Contact Management System",
			AltScreen: true,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped, so with no
// readable path the defaults are returned. Invalid YAML or unknown fields
// in any layer is an error.
// A layer that sets contacts replaces the seed list rather than appending.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
// Seed contacts are only checked for blanks here; the contact store
// applies the full rules when they are added.
func (c *Config) Validate() error {
	if c.UI.Title == "" {
		return errors.New("config: ui.title cannot be empty")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	for i, ct := range c.Contacts {
		if ct.Name == "" || ct.Phone == "" {
			return fmt.Errorf("config: contacts[%d] needs both name and phone", i)
		}
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: CONTACTBOOK_TITLE, CONTACTBOOK_LOG_LEVEL, CONTACTBOOK_LOG_FILE.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CONTACTBOOK_TITLE"); v != "" {
		c.UI.Title = v
	}
	if v := os.Getenv("CONTACTBOOK_LOG_LEVEL"); v != "" {
		if _, err := logging.ParseLevel(v); err != nil {
			return fmt.Errorf("config: invalid CONTACTBOOK_LOG_LEVEL %q: %w", v, err)
		}
		c.Log.Level = v
	}
	if v := os.Getenv("CONTACTBOOK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	UI       *rawUI             `yaml:"ui"`
	Log      *rawLog            `yaml:"log"`
	Contacts *[]contact.Contact `yaml:"contacts"`
}

type rawUI struct {
	Title     *string `yaml:"title"`
	AltScreen *bool   `yaml:"alt_screen"`
}

type rawLog struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.UI != nil {
		if layer.UI.Title != nil {
			c.UI.Title = *layer.UI.Title
		}
		if layer.UI.AltScreen != nil {
			c.UI.AltScreen = *layer.UI.AltScreen
		}
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
	}
	if layer.Contacts != nil {
		c.Contacts = append([]contact.Contact(nil), (*layer.Contacts)...)
	}
}

// Package config loads the editor configuration from YAML with defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/hecto/bell"
	"github.com/lixenwraith/hecto/keymap"
	"github.com/lixenwraith/hecto/view"
)

// Terminal backends
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Config is the complete editor configuration
type Config struct {
	View     ViewConfig        `yaml:"view"`
	Terminal TerminalConfig    `yaml:"terminal"`
	Bell     BellConfig        `yaml:"bell"`
	Keys     map[string]string `yaml:"keys"`
}

// ViewConfig controls frame content
type ViewConfig struct {
	Banner      string `yaml:"banner"`
	Greeting    string `yaml:"greeting"`
	Placeholder string `yaml:"placeholder"`
	Farewell    string `yaml:"farewell"`
}

// TerminalConfig selects the driver
type TerminalConfig struct {
	Backend       string `yaml:"backend"`
	KittyKeyboard bool   `yaml:"kitty_keyboard"`
}

// BellConfig controls boundary feedback
type BellConfig struct {
	Mode   string  `yaml:"mode"`
	Volume float64 `yaml:"volume"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		View: ViewConfig{
			Banner:      view.DefaultBanner,
			Placeholder: view.DefaultPlaceholder,
			Farewell:    "Goodbye!",
		},
		Terminal: TerminalConfig{
			Backend: BackendANSI,
		},
		Bell: BellConfig{
			Mode:   "off",
			Volume: 0.5,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates
// An empty path yields the defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML data over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// decode overlays data onto c; fields absent from data keep their current value
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	return nil
}

// applyEnvOverrides applies HECTO_* environment variable overrides
func (c *Config) applyEnvOverrides(getenv func(string) string) error {
	if v := getenv("HECTO_BACKEND"); v != "" {
		c.Terminal.Backend = v
	}
	if v := getenv("HECTO_BELL"); v != "" {
		c.Bell.Mode = v
	}
	if v := getenv("HECTO_KITTY_KEYBOARD"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HECTO_KITTY_KEYBOARD: %w", err)
		}
		c.Terminal.KittyKeyboard = b
	}
	return nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	backend := strings.ToLower(strings.TrimSpace(c.Terminal.Backend))
	if backend != BackendANSI && backend != BackendTcell {
		return fmt.Errorf("invalid terminal.backend: %q (valid: ansi, tcell)", c.Terminal.Backend)
	}
	c.Terminal.Backend = backend

	if _, err := bell.ParseMode(c.Bell.Mode); err != nil {
		return fmt.Errorf("bell.mode: %w", err)
	}
	if c.Bell.Volume < 0 || c.Bell.Volume > 1 {
		return fmt.Errorf("bell.volume must be within [0, 1], got %g", c.Bell.Volume)
	}

	if c.View.Placeholder == "" {
		return fmt.Errorf("view.placeholder must not be empty")
	}
	if strings.ContainsAny(c.View.Banner+c.View.Greeting+c.View.Placeholder+c.View.Farewell, "\r\n\x1b") {
		return fmt.Errorf("view text must not contain line breaks or escape sequences")
	}

	if _, err := keymap.LoadKeyConfig(c.Keys); err != nil {
		return err
	}
	return nil
}

// BellMode returns the parsed bell mode
func (c *Config) BellMode() bell.Mode {
	m, _ := bell.ParseMode(c.Bell.Mode)
	return m
}

// KeyTable returns the default bindings with the configured overrides applied
func (c *Config) KeyTable() (*keymap.KeyTable, error) {
	override, err := keymap.LoadKeyConfig(c.Keys)
	if err != nil {
		return nil, err
	}
	return keymap.MergeKeyTable(keymap.DefaultKeyTable(), override), nil
}

// ViewOptions returns the renderer options
func (c *Config) ViewOptions() view.Options {
	return view.Options{
		Banner:      c.View.Banner,
		Greeting:    c.View.Greeting,
		Placeholder: c.View.Placeholder,
	}
}

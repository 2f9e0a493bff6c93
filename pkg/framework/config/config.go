// Package config loads the template plugin's configuration.
//
// Configuration comes from a single YAML file named by the
// VST3GO_TEMPLATE_CONFIG environment variable. When the variable is unset the
// built-in defaults are used, since a plugin loaded by a host has no command
// line to pass a path on.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vst3go/template/pkg/framework/debug"
	"github.com/vst3go/template/pkg/ui/editor"
	"github.com/vst3go/template/pkg/ui/relay"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "VST3GO_TEMPLATE_CONFIG"

// Config is the plugin configuration.
type Config struct {
	// Editor configures the editor window.
	Editor EditorConfig `yaml:"editor"`

	// Relay configures the host/UI channels.
	Relay RelayConfig `yaml:"relay"`

	// Log configures plugin logging.
	Log LogConfig `yaml:"log"`
}

// EditorConfig configures the editor window.
type EditorConfig struct {
	// Title is shown in the window and used as the relay title.
	// Default: template
	Title string `yaml:"title"`

	// Width and Height are the initial window size in pixels.
	// Default: 200x200
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Theme is "dark" or "light".
	Theme string `yaml:"theme"`

	Decorations  bool `yaml:"decorations"`
	Resizable    bool `yaml:"resizable"`
	Antialiasing bool `yaml:"antialiasing"`
}

// RelayConfig configures the host/UI channels.
type RelayConfig struct {
	// Capacity bounds each direction of the relay.
	// Default: 10
	Capacity int `yaml:"capacity"`
}

// LogConfig configures plugin logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error, off.
	Level string `yaml:"level"`

	// File, when set, receives a copy of every log line.
	File string `yaml:"file"`

	// Prefix is prepended to every line sent to the host.
	Prefix string `yaml:"prefix"`
}

// Default returns the default configuration.
func Default() *Config {
	opts := editor.DefaultOptions("template")
	return &Config{
		Editor: EditorConfig{
			Title:        opts.Title,
			Width:        opts.Width,
			Height:       opts.Height,
			Theme:        opts.Theme,
			Decorations:  opts.Decorations,
			Resizable:    opts.Resizable,
			Antialiasing: opts.Antialiasing,
		},
		Relay: RelayConfig{
			Capacity: relay.DefaultCapacity,
		},
		Log: LogConfig{
			Level:  "info",
			Prefix: "template",
		},
	}
}

// Load loads the file named by VST3GO_TEMPLATE_CONFIG, or returns the
// defaults when it is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path on top of the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Editor.Title == "" {
		errs = append(errs, errors.New("editor.title is required"))
	}
	if c.Editor.Width <= 0 || c.Editor.Height <= 0 {
		errs = append(errs, fmt.Errorf("editor size must be positive, got %dx%d", c.Editor.Width, c.Editor.Height))
	}
	if c.Editor.Theme != "dark" && c.Editor.Theme != "light" {
		errs = append(errs, fmt.Errorf("invalid editor.theme: %q", c.Editor.Theme))
	}
	if c.Relay.Capacity < 1 {
		errs = append(errs, fmt.Errorf("relay.capacity must be at least 1, got %d", c.Relay.Capacity))
	}
	if _, err := debug.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}

// EditorOptions converts the editor section for the UI adapter.
func (c *Config) EditorOptions() editor.Options {
	return editor.Options{
		Title:        c.Editor.Title,
		Width:        c.Editor.Width,
		Height:       c.Editor.Height,
		Resizable:    c.Editor.Resizable,
		Decorations:  c.Editor.Decorations,
		Theme:        c.Editor.Theme,
		Antialiasing: c.Editor.Antialiasing,
	}
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() debug.LogLevel {
	level, err := debug.ParseLevel(c.Log.Level)
	if err != nil {
		return debug.LogLevelInfo
	}
	return level
}

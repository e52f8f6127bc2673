// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the environment variable consulted when no
// --config flag is given.
const EnvironmentVariable = "COMMAND_GUARDIAN_CONFIG"

// ErrUnknownFormat is returned for config files whose extension is not
// one of .yaml, .yml, .json, .jsonc or .toml.
var ErrUnknownFormat = errors.New("unknown config file format")

// ColorMode controls whether console output is colored.
type ColorMode string

const (
	// ColorAuto colors output only when the stream is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces ANSI colors.
	ColorAlways ColorMode = "always"
	// ColorNever disables colors.
	ColorNever ColorMode = "never"
)

// Config is the complete command-guardian configuration.
type Config struct {
	// LogLevel is the minimum slog level: debug, info, warn or error.
	LogLevel string `yaml:"log_level" json:"log_level" toml:"log_level"`

	// Color controls console coloring.
	Color ColorMode `yaml:"color" json:"color" toml:"color"`

	// Terminal configures pseudo-terminal allocation.
	Terminal TerminalConfig `yaml:"terminal" json:"terminal" toml:"terminal"`

	// Termination configures the confirmed-termination path.
	Termination TerminationConfig `yaml:"termination" json:"termination" toml:"termination"`

	// ExitCode configures how the child's exit status is reported.
	ExitCode ExitCodeConfig `yaml:"exit_code" json:"exit_code" toml:"exit_code"`
}

// TerminalConfig holds the fallback geometry used when the real
// terminal size cannot be determined (stdin is a pipe, or a test).
type TerminalConfig struct {
	Rows    uint16 `yaml:"rows" json:"rows" toml:"rows"`
	Columns uint16 `yaml:"columns" json:"columns" toml:"columns"`
}

// TerminationConfig configures what happens after the user confirms
// termination.
type TerminationConfig struct {
	// Grace is how long to wait for the interrupted child to exit
	// before the supervisor exits anyway. Zero selects the built-in
	// default.
	Grace Duration `yaml:"grace" json:"grace" toml:"grace"`
}

// ExitCodeConfig configures exit status propagation.
type ExitCodeConfig struct {
	// Propagate makes the supervisor exit with the child's exit code.
	// When false the supervisor exits 0 after a natural completion.
	Propagate bool `yaml:"propagate" json:"propagate" toml:"propagate"`
}

// Duration is a time.Duration written as a Go duration string ("3s",
// "500ms") in both YAML and JSON.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String formats d as a Go duration string.
func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return fmt.Errorf("duration must be a string like \"3s\": %w", err)
	}
	return d.parse(text)
}

// MarshalYAML writes d as a duration string.
func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

// UnmarshalJSON parses a duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("duration must be a string like \"3s\": %w", err)
	}
	return d.parse(text)
}

// MarshalJSON writes d as a duration string.
func (d Duration) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// UnmarshalText parses a duration string. TOML decoding uses it.
func (d *Duration) UnmarshalText(text []byte) error {
	return d.parse(string(text))
}

// MarshalText writes d as a duration string.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Duration) parse(text string) error {
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Color:    ColorAuto,
		Terminal: TerminalConfig{
			Rows:    24,
			Columns: 80,
		},
		Termination: TerminationConfig{
			Grace: Duration(3 * time.Second),
		},
		ExitCode: ExitCodeConfig{
			Propagate: true,
		},
	}
}

// Load returns the configuration named by path, or by the
// COMMAND_GUARDIAN_CONFIG environment variable when path is empty. With
// neither set it returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvironmentVariable)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile merges the file at path over Default() and validates the
// result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.decode(filepath.Ext(path), data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) decode(extension string, data []byte) error {
	switch strings.ToLower(extension) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
			return fmt.Errorf("parse json: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse toml: %w", err)
		}
	default:
		return fmt.Errorf("%w %q (use .yaml, .yml, .json, .jsonc or .toml)", ErrUnknownFormat, extension)
	}
	return nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color %q (must be auto, always, or never)", c.Color)
	}

	if c.Terminal.Rows == 0 || c.Terminal.Columns == 0 {
		return fmt.Errorf("terminal geometry must be positive, got %dx%d", c.Terminal.Rows, c.Terminal.Columns)
	}

	if c.Termination.Grace < 0 {
		return fmt.Errorf("termination.grace must not be negative, got %s", c.Termination.Grace)
	}

	return nil
}

// Package config loads and stores the gizmo host configuration.
//
// The configuration lives in config.yaml inside the state directory, next
// to the background player's state file. Fields missing from the file keep
// their defaults.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/you-not-fish/gizmo/internal/frame"
)

// FileName is the configuration file inside the state directory.
const FileName = "config.yaml"

// HomeEnv overrides the state directory.
const HomeEnv = "GIZMO_HOME"

// Config holds host settings. The interpreter itself is not configured
// here.
type Config struct {
	// Style selects terminal rendering: "auto", "ascii" or "blocks".
	// "auto" uses blocks on a terminal and ASCII otherwise.
	Style string `yaml:"style"`

	// MaxWidth bounds the width of frames drawn in the terminal. Wider
	// frames are scaled down.
	MaxWidth int `yaml:"max_width"`

	// DurationMs is the per-frame duration scripts start with.
	DurationMs int64 `yaml:"duration_ms"`

	// TickMs is the player's update interval.
	TickMs int64 `yaml:"tick_ms"`

	// ExportScale is the pixel size of exported images.
	ExportScale int `yaml:"export_scale"`

	// Seed makes random() deterministic when non-zero.
	Seed uint64 `yaml:"seed"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Style:       "auto",
		MaxWidth:    64,
		DurationMs:  frame.DefaultDuration,
		TickMs:      16,
		ExportScale: 4,
		LogLevel:    "info",
	}
}

// Dir returns the state directory: $GIZMO_HOME if set, else a gizmo
// directory under the user configuration directory.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locate config directory")
	}
	return filepath.Join(base, "gizmo"), nil
}

// Path returns the configuration file path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads the configuration from dir. A missing file yields Default.
func Load(dir string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(Path(dir))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrapf(err, "parse %s", Path(dir))
	}
	if err := cfg.Validate(); err != nil {
		return Default(), errors.Wrapf(err, "invalid %s", Path(dir))
	}
	return cfg, nil
}

// Save writes cfg to dir, creating the directory if needed.
func Save(dir string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create state directory")
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(os.WriteFile(Path(dir), data, 0o644), "write config")
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch c.Style {
	case "auto", "ascii", "blocks":
	default:
		return errors.Errorf("style %q: want auto, ascii or blocks", c.Style)
	}
	if c.MaxWidth <= 0 {
		return errors.Errorf("max_width %d: must be positive", c.MaxWidth)
	}
	if c.DurationMs < frame.MinDuration || c.DurationMs > frame.MaxDuration {
		return errors.Errorf("duration_ms %d: want %d to %d", c.DurationMs, frame.MinDuration, frame.MaxDuration)
	}
	if c.TickMs <= 0 {
		return errors.Errorf("tick_ms %d: must be positive", c.TickMs)
	}
	if c.ExportScale < 1 || c.ExportScale > 64 {
		return errors.Errorf("export_scale %d: want 1 to 64", c.ExportScale)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, errors.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	return l, nil
}

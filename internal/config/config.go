// Package config loads phaseline settings from XDG and project files and
// PHASELINE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/Makepad-fr/phaseline/internal/geometry"
	"github.com/Makepad-fr/phaseline/internal/lanes"
	"github.com/Makepad-fr/phaseline/internal/ui"
)

// ErrInvalid wraps every error returned by Validate.
var ErrInvalid = errors.New("invalid config")

const (
	appName           = "phaseline"
	projectConfigName = ".phaseline.yaml"
	envPrefix         = "PHASELINE"
)

// Config holds all configuration for phaseline.
type Config struct {
	Layout   LayoutConfig   `mapstructure:"layout"`
	Geometry GeometryConfig `mapstructure:"geometry"`
	TUI      TUIConfig      `mapstructure:"tui"`
	Log      LogConfig      `mapstructure:"log"`
}

// LayoutConfig tunes lane assignment.
type LayoutConfig struct {
	BufferDays int  `mapstructure:"buffer_days"`
	StrictIDs  bool `mapstructure:"strict_ids"`
}

// GeometryConfig is the pixel scale used by the SVG export.
type GeometryConfig struct {
	DayWidth     float64 `mapstructure:"day_width"`
	LaneHeight   float64 `mapstructure:"lane_height"`
	HeaderHeight float64 `mapstructure:"header_height"`
	PaddingDays  int     `mapstructure:"padding_days"`
}

// TUIConfig holds interactive view settings.
type TUIConfig struct {
	Zoom  float64 `mapstructure:"zoom"`
	Theme string  `mapstructure:"theme"`
}

// LogConfig holds the log file settings. An empty path means
// ~/.phaseline/logs/phaseline.log.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// Load reads configuration. Precedence, highest first:
//  1. PHASELINE_* environment variables (PHASELINE_LAYOUT_BUFFER_DAYS, ...)
//  2. explicit file, when path is set; otherwise the project file
//     (.phaseline.yaml in the working directory or a parent)
//  3. user file ($XDG_CONFIG_HOME/phaseline/config.yaml)
//  4. built-in defaults
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
		return decode(v)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(UserConfigDir())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if project := findProjectConfig(); project != "" {
		pv := viper.New()
		pv.SetConfigFile(project)
		if err := pv.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config: %w", err)
		}
		if err := v.MergeConfigMap(pv.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	return decode(v)
}

// Default returns the built-in configuration, ignoring files and env.
func Default() *Config {
	scale := geometry.DefaultScale()
	return &Config{
		Layout: LayoutConfig{BufferDays: lanes.DefaultBufferDays},
		Geometry: GeometryConfig{
			DayWidth:     scale.DayWidth,
			LaneHeight:   scale.LaneHeight,
			HeaderHeight: scale.HeaderHeight,
			PaddingDays:  geometry.DefaultPaddingDays,
		},
		TUI: TUIConfig{Zoom: 1, Theme: "classic"},
		Log: LogConfig{Level: "info"},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	scale := geometry.DefaultScale()

	v.SetDefault("layout.buffer_days", lanes.DefaultBufferDays)
	v.SetDefault("layout.strict_ids", false)

	v.SetDefault("geometry.day_width", scale.DayWidth)
	v.SetDefault("geometry.lane_height", scale.LaneHeight)
	v.SetDefault("geometry.header_height", scale.HeaderHeight)
	v.SetDefault("geometry.padding_days", geometry.DefaultPaddingDays)

	v.SetDefault("tui.zoom", 1.0)
	v.SetDefault("tui.theme", "classic")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	switch {
	case c.Layout.BufferDays < 0:
		return fmt.Errorf("%w: layout.buffer_days: %w", ErrInvalid, lanes.ErrInvalidBuffer)
	case c.Geometry.DayWidth <= 0, c.Geometry.LaneHeight <= 0:
		return fmt.Errorf("%w: geometry: day_width and lane_height must be positive", ErrInvalid)
	case c.Geometry.HeaderHeight < 0, c.Geometry.PaddingDays < 0:
		return fmt.Errorf("%w: geometry: header_height and padding_days must not be negative", ErrInvalid)
	case c.TUI.Zoom < geometry.MinZoom || c.TUI.Zoom > geometry.MaxZoom:
		return fmt.Errorf("%w: tui.zoom must be within [%g, %g], got %g", ErrInvalid, geometry.MinZoom, geometry.MaxZoom, c.TUI.Zoom)
	case !slices.Contains(ui.Themes(), strings.ToLower(c.TUI.Theme)):
		return fmt.Errorf("%w: tui.theme %q (want %s)", ErrInvalid, c.TUI.Theme, strings.Join(ui.Themes(), ", "))
	}
	return nil
}

// LaneOptions converts the layout section into lanes.Assign options.
func (c *Config) LaneOptions() []lanes.Option {
	opts := []lanes.Option{lanes.WithBuffer(c.Layout.BufferDays)}
	if c.Layout.StrictIDs {
		opts = append(opts, lanes.WithStrictIDs())
	}
	return opts
}

// Scale is the configured pixel scale at zoom 1.
func (c *Config) Scale() geometry.Scale {
	return geometry.Scale{
		DayWidth:     c.Geometry.DayWidth,
		LaneHeight:   c.Geometry.LaneHeight,
		HeaderHeight: c.Geometry.HeaderHeight,
	}
}

// UserConfigDir returns the XDG config directory for phaseline.
func UserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", appName)
	}
	return filepath.Join(home, ".config", appName)
}

// findProjectConfig searches for .phaseline.yaml in the current directory
// and its parents.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, projectConfigName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

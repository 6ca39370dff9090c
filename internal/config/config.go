// Package config holds the settings of the vks binary. Values come from
// defaults, then the YAML file, then VKS_* environment variables named after
// the section and field, e.g. VKS_VIEWER_MIN_SPAN.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/vkshell/vkshell/internal/store"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "VKS"

// ErrInvalid is returned by Validate
var ErrInvalid = errors.New("invalid configuration")

// Config is the full configuration
type Config struct {
	Coordinates CoordinatesConfig `yaml:"coordinates" envconfig:"COORDS"`
	Viewer      ViewerConfig      `yaml:"viewer" envconfig:"VIEWER"`
	Export      ExportConfig      `yaml:"export" envconfig:"EXPORT"`
	Store       StoreConfig       `yaml:"store" envconfig:"STORE"`
	Logging     LoggingConfig     `yaml:"logging" envconfig:"LOG"`
}

// CoordinatesConfig controls how pasted coordinates are read
type CoordinatesConfig struct {
	// SwapXY reads the first number of a line as Y (surveying order)
	SwapXY bool `yaml:"swap_xy" split_words:"true"`
}

// ViewerConfig configures the interactive window and SVG output
type ViewerConfig struct {
	Width      int     `yaml:"width" split_words:"true"`
	Height     int     `yaml:"height" split_words:"true"`
	Padding    float64 `yaml:"padding" split_words:"true"`
	MinSpan    float64 `yaml:"min_span" split_words:"true"`
	InvertY    bool    `yaml:"invert_y" split_words:"true"`
	Theme      string  `yaml:"theme" split_words:"true"`
	ShowLabels bool    `yaml:"show_labels" split_words:"true"`
	ViewZoom   float64 `yaml:"view_zoom" split_words:"true"`
}

// ExportConfig holds DXF export defaults
type ExportConfig struct {
	IncludeCircles bool `yaml:"include_circles" split_words:"true"`
	ScaleByView    bool `yaml:"scale_by_view" split_words:"true"`
	// RequireAllFilled makes the load center undefined while any object
	// has no active power
	RequireAllFilled bool `yaml:"require_all_filled" split_words:"true"`
}

// StoreConfig selects where the app shell keeps recents and favorites
type StoreConfig struct {
	Backend string `yaml:"backend" split_words:"true"` // memory, json or sqlite
	Path    string `yaml:"path" split_words:"true"`
}

// LoggingConfig configures zap
type LoggingConfig struct {
	Level       string `yaml:"level" split_words:"true"`
	Development bool   `yaml:"development" split_words:"true"`
}

// Store backends
const (
	BackendMemory = store.BackendMemory
	BackendJSON   = store.BackendJSON
	BackendSQLite = store.BackendSQLite
)

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Width:      1000,
			Height:     800,
			Padding:    0.06,
			MinSpan:    1,
			InvertY:    true,
			Theme:      "light",
			ShowLabels: true,
			ViewZoom:   1,
		},
		Export: ExportConfig{
			IncludeCircles: true,
			ScaleByView:    true,
		},
		Store: StoreConfig{
			Backend: BackendJSON,
			Path:    filepath.Join(Dir(), "shell.json"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the directory holding the config file and local state
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "vkshell")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the YAML file at path over the defaults and applies the
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	v := c.Viewer
	switch {
	case v.Width <= 0 || v.Height <= 0:
		return fmt.Errorf("%w: viewer size %dx%d", ErrInvalid, v.Width, v.Height)
	case !(v.Padding > 0) || v.Padding >= 0.5:
		return fmt.Errorf("%w: viewer padding %v not in (0, 0.5)", ErrInvalid, v.Padding)
	case v.MinSpan <= 0:
		return fmt.Errorf("%w: viewer min_span must be positive", ErrInvalid)
	case v.ViewZoom < 0.1 || v.ViewZoom > 10:
		return fmt.Errorf("%w: view_zoom %v not in [0.1, 10]", ErrInvalid, v.ViewZoom)
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendJSON, BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store %s needs a path", ErrInvalid, c.Store.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalid, c.Store.Backend)
	}

	if _, err := zap.ParseAtomicLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}

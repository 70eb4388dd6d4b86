// Package config handles loading and saving cmap configuration.
//
// Configuration follows the XDG Base Directory layout:
//   - Config:  ~/.config/cmap/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/congressmap/pkg/mapview"
)

// MapConfig sizes the drawing surface.
type MapConfig struct {
	Width        float64 `yaml:"width,omitempty"`
	Height       float64 `yaml:"height,omitempty"`
	MarginTop    float64 `yaml:"margin_top,omitempty"`
	MarginBottom float64 `yaml:"margin_bottom,omitempty"`
	MarginLeft   float64 `yaml:"margin_left,omitempty"`
	MarginRight  float64 `yaml:"margin_right,omitempty"`
	Scale        float64 `yaml:"scale,omitempty"` // projection scale
}

// DataConfig locates the inputs.
type DataConfig struct {
	Geography string `yaml:"geography,omitempty"` // GeoJSON FeatureCollection
	Congress  string `yaml:"congress,omitempty"`  // congress JSON or SQLite
	Watch     *bool  `yaml:"watch,omitempty"`     // reload congress data on change
}

// UIConfig holds interaction preferences.
type UIConfig struct {
	KeepSelection     bool `yaml:"keep_selection,omitempty"`
	FillTransitionMS  int  `yaml:"fill_transition_ms,omitempty"`
	HoverTransitionMS int  `yaml:"hover_transition_ms,omitempty"`
}

// ExportConfig holds snapshot defaults.
type ExportConfig struct {
	Format string `yaml:"format,omitempty"` // svg, png, json, sqlite
	Title  string `yaml:"title,omitempty"`
	Legend *bool  `yaml:"legend,omitempty"`
}

// Config is the top-level configuration for cmap.
type Config struct {
	Map    MapConfig    `yaml:"map,omitempty"`
	Data   DataConfig   `yaml:"data,omitempty"`
	UI     UIConfig     `yaml:"ui,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	opts := mapview.DefaultOptions()
	return Config{
		Map: MapConfig{
			Width:  opts.Width,
			Height: opts.Height,
			Scale:  opts.Scale,
		},
		Data: DataConfig{
			Geography: "data/us-states.json",
			Congress:  "data/congress.json",
		},
		UI: UIConfig{
			FillTransitionMS:  int(opts.FillDuration / time.Millisecond),
			HoverTransitionMS: int(opts.HoverDuration / time.Millisecond),
		},
		Export: ExportConfig{
			Format: "svg",
		},
	}
}

// ConfigDir returns the XDG config directory for cmap.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "cmap")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cmap")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Data.Geography = expandHome(cfg.Data.Geography)
	cfg.Data.Congress = expandHome(cfg.Data.Congress)

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate rejects sizes and durations the map cannot use.
func (c Config) Validate() error {
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		return fmt.Errorf("invalid map size %gx%g", c.Map.Width, c.Map.Height)
	}
	if c.Map.Scale <= 0 {
		return fmt.Errorf("invalid projection scale %g", c.Map.Scale)
	}
	for name, m := range map[string]float64{
		"margin_top":    c.Map.MarginTop,
		"margin_bottom": c.Map.MarginBottom,
		"margin_left":   c.Map.MarginLeft,
		"margin_right":  c.Map.MarginRight,
	} {
		if m < 0 {
			return fmt.Errorf("invalid %s %g", name, m)
		}
	}
	if c.UI.FillTransitionMS < 0 || c.UI.HoverTransitionMS < 0 {
		return fmt.Errorf("transition durations must not be negative")
	}
	switch strings.ToLower(c.Export.Format) {
	case "", "svg", "png", "json", "sqlite":
	default:
		return fmt.Errorf("unsupported export format %q", c.Export.Format)
	}
	return nil
}

// ViewOptions converts the map and UI sections into view options.
func (c Config) ViewOptions() mapview.Options {
	return mapview.Options{
		Width:         c.Map.Width,
		Height:        c.Map.Height,
		MarginTop:     c.Map.MarginTop,
		MarginBottom:  c.Map.MarginBottom,
		MarginLeft:    c.Map.MarginLeft,
		MarginRight:   c.Map.MarginRight,
		Scale:         c.Map.Scale,
		FillDuration:  time.Duration(c.UI.FillTransitionMS) * time.Millisecond,
		HoverDuration: time.Duration(c.UI.HoverTransitionMS) * time.Millisecond,
	}
}

// WatchEnabled reports whether the congress file should be watched.
// Defaults to true.
func (c Config) WatchEnabled() bool {
	return c.Data.Watch == nil || *c.Data.Watch
}

// LegendEnabled reports whether snapshots draw the legend. Defaults to true.
func (c Config) LegendEnabled() bool {
	return c.Export.Legend == nil || *c.Export.Legend
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Package config loads geoarcs settings from an optional YAML file and
// GEOARCS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"geoarcs/internal/geom"
)

type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Map         MapConfig         `mapstructure:"map"`
	View        ViewConfig        `mapstructure:"view"`
	Dataset     DatasetConfig     `mapstructure:"dataset"`
	Selection   SelectionConfig   `mapstructure:"selection"`
	Interaction InteractionConfig `mapstructure:"interaction"`
	Layers      LayersConfig      `mapstructure:"layers"`
	Server      ServerConfig      `mapstructure:"server"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	// File receives log output. Empty means stderr for the server and no
	// logging at all for the terminal UI.
	File string `mapstructure:"file"`
}

// MapConfig is handed through to renderers untouched.
type MapConfig struct {
	StyleURL    string `mapstructure:"style_url"`
	AccessToken string `mapstructure:"access_token"`
}

type ViewConfig struct {
	Longitude float64 `mapstructure:"longitude"`
	Latitude  float64 `mapstructure:"latitude"`
	Zoom      float64 `mapstructure:"zoom"`
	Bearing   float64 `mapstructure:"bearing"`
	Pitch     float64 `mapstructure:"pitch"`
}

type DatasetConfig struct {
	URL          string        `mapstructure:"url"`
	Path         string        `mapstructure:"path"`
	RankProperty string        `mapstructure:"rank_property"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// Origin is the path when set, otherwise the URL.
func (d DatasetConfig) Origin() string {
	if d.Path != "" {
		return d.Path
	}
	return d.URL
}

type SelectionConfig struct {
	BufferRadius float64 `mapstructure:"buffer_radius"`
	BufferUnit   string  `mapstructure:"buffer_unit"`
}

type InteractionConfig struct {
	ClearOnMiss bool `mapstructure:"clear_on_miss"`
}

type LayersConfig struct {
	DefaultSourceLon     float64 `mapstructure:"default_source_lon"`
	DefaultSourceLat     float64 `mapstructure:"default_source_lat"`
	ArcRankThreshold     float64 `mapstructure:"arc_rank_threshold"`
	PointRadiusScale     float64 `mapstructure:"point_radius_scale"`
	PointRadiusMinPixels float64 `mapstructure:"point_radius_min_pixels"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be json or console, got %q", c.Log.Format))
	}
	if err := geom.ValidatePoint([2]float64{c.View.Longitude, c.View.Latitude}); err != nil {
		errs = append(errs, fmt.Errorf("view: %w", err))
	}
	if !(c.View.Zoom >= 0 && c.View.Zoom <= 24) {
		errs = append(errs, fmt.Errorf("view.zoom: %v outside [0, 24]", c.View.Zoom))
	}
	if c.Dataset.Origin() == "" {
		errs = append(errs, errors.New("dataset: one of dataset.url or dataset.path is required"))
	}
	if r := c.Selection.BufferRadius; !(r > 0) || math.IsInf(r, 0) {
		errs = append(errs, fmt.Errorf("selection.buffer_radius: must be positive and finite, got %v", r))
	}
	if _, err := geom.ParseUnit(c.Selection.BufferUnit); err != nil {
		errs = append(errs, fmt.Errorf("selection.buffer_unit: %w", err))
	}
	if err := geom.ValidatePoint([2]float64{c.Layers.DefaultSourceLon, c.Layers.DefaultSourceLat}); err != nil {
		errs = append(errs, fmt.Errorf("layers.default_source: %w", err))
	}
	if !nonNegative(c.Layers.PointRadiusScale) || !nonNegative(c.Layers.PointRadiusMinPixels) {
		errs = append(errs, errors.New("layers: point radius settings must not be negative"))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr: required"))
	}
	return errors.Join(errs...)
}

func nonNegative(f float64) bool {
	return f >= 0 && !math.IsInf(f, 0)
}

// BufferUnit returns the parsed selection unit; call after Validate.
func (c *Config) BufferUnit() geom.Unit {
	u, _ := geom.ParseUnit(c.Selection.BufferUnit)
	return u
}

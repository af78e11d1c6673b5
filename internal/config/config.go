// Package config defines the settings of the sosi command and loads its
// optional HCL configuration file. Values are layered: defaults, then the
// file, then command-line flags.
package config

import (
	"fmt"
	"strings"
)

// Output formats
const (
	FormatSummary = "summary"
	FormatGeoJSON = "geojson"
	FormatWKT     = "wkt"
)

// Config is the resolved configuration of one run.
type Config struct {
	Paths []string

	Format    string
	LogLevel  string
	LogFormat string

	ObjectTypes      []string
	SkipUnknown      bool
	ValidateGeometry bool

	// Workers bounds concurrent file reads; 0 means one per CPU.
	Workers int
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Format:    FormatSummary,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Apply overlays every value the file sets.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.Format != nil {
		c.Format = strings.ToLower(*f.Format)
	}
	if f.LogLevel != nil {
		c.LogLevel = strings.ToLower(*f.LogLevel)
	}
	if f.LogFormat != nil {
		c.LogFormat = strings.ToLower(*f.LogFormat)
	}
	if f.ObjectTypes != nil {
		c.ObjectTypes = f.ObjectTypes
	}
	if f.SkipUnknown != nil {
		c.SkipUnknown = *f.SkipUnknown
	}
	if f.ValidateGeometry != nil {
		c.ValidateGeometry = *f.ValidateGeometry
	}
	if f.Workers != nil {
		c.Workers = *f.Workers
	}
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatSummary, FormatGeoJSON, FormatWKT:
	default:
		return fmt.Errorf("invalid format %q: must be 'summary', 'geojson' or 'wkt'", c.Format)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", c.LogFormat)
	}

	if c.Workers < 0 {
		return fmt.Errorf("invalid workers %d: must not be negative", c.Workers)
	}
	return nil
}

package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// File is the schema of a configuration file:
//
//	format            = "geojson"
//	log_level         = "debug"
//	object_types      = ["Bygning", "Veg"]
//	skip_unknown      = true
//	validate_geometry = true
//	workers           = 4
//
// Unset attributes leave the current value alone.
type File struct {
	Format           *string  `hcl:"format,optional"`
	LogLevel         *string  `hcl:"log_level,optional"`
	LogFormat        *string  `hcl:"log_format,optional"`
	ObjectTypes      []string `hcl:"object_types,optional"`
	SkipUnknown      *bool    `hcl:"skip_unknown,optional"`
	ValidateGeometry *bool    `hcl:"validate_geometry,optional"`
	Workers          *int     `hcl:"workers,optional"`
}

// Load parses and decodes the HCL file at path.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}
	return decode(hclFile, path)
}

// Parse decodes HCL source; filename is used in diagnostics.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, diags)
	}
	return decode(hclFile, filename)
}

func decode(hclFile *hcl.File, filename string) (*File, error) {
	var f File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", filename, diags)
	}
	return &f, nil
}

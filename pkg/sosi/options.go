package sosi

import (
	"log/slog"

	"github.com/BiteMyBucket/sosi/internal/parser"
)

// ReadOptions configures reading behavior.
type ReadOptions struct {
	// Logger receives reader diagnostics. Nil discards them.
	Logger *slog.Logger

	// SkipUnknown drops groups whose keyword is not a known object type.
	SkipUnknown bool

	// ObjectTypeFilter keeps only features whose OBJTYPE is listed.
	// Curves outside the filter are still available to polygons.
	ObjectTypeFilter []string

	// ValidateGeometry checks every non-empty geometry and records failures
	// as feature warnings. Invalid features are still returned.
	ValidateGeometry bool
}

// DefaultReadOptions returns default options.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		SkipUnknown:      false,
		ObjectTypeFilter: nil,
		ValidateGeometry: false,
	}
}

func (o ReadOptions) internal() parser.Options {
	return parser.Options{
		Logger:           o.Logger,
		SkipUnknown:      o.SkipUnknown,
		ObjectTypeFilter: o.ObjectTypeFilter,
		ValidateGeometry: o.ValidateGeometry,
	}
}

package sosi

import "github.com/BiteMyBucket/sosi/internal/parser"

// ErrFormat is matched by errors.Is for every header problem that makes a
// source unreadable. It is only returned by Open and NewReader.
var ErrFormat = parser.ErrFormat

// ErrClosed is returned by Reader.Next after Close.
var ErrClosed = parser.ErrClosed

// Error types returned by the reader. Header errors are fatal; the others
// are reported through Feature.Warnings.
type (
	ErrUnknownCoordinateSystem = parser.ErrUnknownCoordinateSystem
	ErrInvalidHeader           = parser.ErrInvalidHeader
	ErrMalformedLine           = parser.ErrMalformedLine
	ErrCoordinateOverflow      = parser.ErrCoordinateOverflow
	ErrMissingCurve            = parser.ErrMissingCurve
	ErrInvalidGeometry         = parser.ErrInvalidGeometry
)

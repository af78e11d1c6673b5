package parser

import (
	"errors"
	"fmt"
)

// ErrFormat is matched (via errors.Is) by every error that makes a SOSI
// source unreadable as a whole. Such errors are only returned when a reader
// is opened.
var ErrFormat = errors.New("sosi: format error")

// ErrClosed is returned by Reader.Next after Close.
var ErrClosed = errors.New("sosi: reader closed")

// ErrUnknownCoordinateSystem indicates a KOORDSYS code that has no CRS mapping
type ErrUnknownCoordinateSystem struct {
	Code string
}

func (e *ErrUnknownCoordinateSystem) Error() string {
	if e.Code == "" {
		return "header declares no KOORDSYS"
	}
	return fmt.Sprintf("unknown KOORDSYS code: %s", e.Code)
}

func (e *ErrUnknownCoordinateSystem) Unwrap() error { return ErrFormat }

// ErrInvalidHeader indicates a header field that cannot be interpreted
type ErrInvalidHeader struct {
	Field  string
	Value  string
	Reason string
}

func (e *ErrInvalidHeader) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid header field %s=%q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid header field %s: %s", e.Field, e.Reason)
}

func (e *ErrInvalidHeader) Unwrap() error { return ErrFormat }

// ErrMalformedLine indicates a coordinate or reference line that was skipped
type ErrMalformedLine struct {
	Line   int
	Text   string
	Reason string
}

func (e *ErrMalformedLine) Error() string {
	return fmt.Sprintf("line %d: malformed %q: %s", e.Line, e.Text, e.Reason)
}

// ErrCoordinateOverflow indicates a raw coordinate beyond the exactly
// representable range of a float64
type ErrCoordinateOverflow struct {
	Line  int
	Value string
}

func (e *ErrCoordinateOverflow) Error() string {
	return fmt.Sprintf("line %d: raw coordinate %s out of range", e.Line, e.Value)
}

// ErrMissingCurve indicates a polygon reference to a curve id that has not
// been seen earlier in the file
type ErrMissingCurve struct {
	FeatureID int64
	CurveID   int64
}

func (e *ErrMissingCurve) Error() string {
	return fmt.Sprintf("feature %d references missing curve %d",
		e.FeatureID, e.CurveID)
}

// ErrInvalidGeometry indicates geometry that fails a structural validity rule
type ErrInvalidGeometry struct {
	Type   GeometryType
	Reason string
}

func (e *ErrInvalidGeometry) Error() string {
	return fmt.Sprintf("invalid geometry (%v): %s", e.Type, e.Reason)
}

package parser

import "strings"

// Kind is the declared geometry kind of a SOSI object group
type Kind int

const (
	KindUnknown Kind = iota
	KindPoint        // .PUNKT, .SYMBOL
	KindCurve        // .KURVE, .LINJE, .BUEP and other line primitives
	KindSurface      // .FLATE
	KindText         // .TEKST
)

// String returns the SOSI name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "PUNKT"
	case KindCurve:
		return "KURVE"
	case KindSurface:
		return "FLATE"
	case KindText:
		return "TEKST"
	default:
		return "UNKNOWN"
	}
}

// Attributes is an insertion-ordered string map. Keys are trimmed and never
// empty. Setting an existing key replaces its value and keeps its position.
type Attributes struct {
	keys   []string
	values map[string]string
}

// NewAttributes returns an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]string)}
}

// Set stores value under key. Blank keys are ignored.
func (a *Attributes) Set(key, value string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value stored under key.
func (a *Attributes) Get(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	keys := make([]string, len(a.keys))
	copy(keys, a.keys)
	return keys
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Map returns a copy of the attributes as a plain map.
func (a *Attributes) Map() map[string]string {
	m := make(map[string]string, a.Len())
	if a == nil {
		return m
	}
	for k, v := range a.values {
		m[k] = v
	}
	return m
}

// Feature is one top-level SOSI object group with its assembled geometry
type Feature struct {
	// ID is the group's local identifier (".KURVE 12:"), valid when HasID is set
	ID    int64
	HasID bool
	// Keyword is the group keyword as written, e.g. "PUNKT" or "BUEP"
	Keyword string
	Kind    Kind
	// Attributes holds every non-structural key of the group, sub-attributes
	// flattened to their own key
	Attributes *Attributes
	// Geometry is never nil-valued; groups without coordinates get an empty geometry
	Geometry Geometry
	// CoordinateCount is the number of vertices in Geometry
	CoordinateCount int
	// Warnings collects recoverable problems found while building the feature
	Warnings []error
}

// Get returns an attribute value.
func (f *Feature) Get(key string) (string, bool) {
	return f.Attributes.Get(key)
}

// ObjectType returns the OBJTYPE attribute, or "" if absent.
func (f *Feature) ObjectType() string {
	v, _ := f.Attributes.Get("OBJTYPE")
	return v
}

package sosi

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// GeoJSONFeature converts a feature to a GeoJSON feature. The local id
// becomes the feature id and every attribute becomes a string property.
// Coordinates stay in the file's CRS. GeoJSON has no empty Point, so a point
// or text without a position gets a null geometry.
func GeoJSONFeature(f *Feature) *geojson.Feature {
	gf := geojson.NewFeature(exportGeometry(f.Geometry()))
	if id, ok := f.ID(); ok {
		gf.ID = id
	}
	for _, key := range f.AttributeKeys() {
		v, _ := f.Attribute(key)
		gf.Properties[key] = v
	}
	return gf
}

// WriteGeoJSON writes features as one GeoJSON FeatureCollection.
func WriteGeoJSON(w io.Writer, features []*Feature) error {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(GeoJSONFeature(f))
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// GeoJSONWriter streams a FeatureCollection one feature at a time, so
// features never have to be held in memory together. Close must be called
// to terminate the collection.
type GeoJSONWriter struct {
	w      io.Writer
	count  int
	closed bool
}

// NewGeoJSONWriter returns a writer producing a FeatureCollection on w.
func NewGeoJSONWriter(w io.Writer) *GeoJSONWriter {
	return &GeoJSONWriter{w: w}
}

const geojsonPrefix = `{"type":"FeatureCollection","features":[`

// Write appends one feature to the collection.
func (gw *GeoJSONWriter) Write(f *Feature) error {
	if gw.closed {
		return ErrClosed
	}
	data, err := json.Marshal(GeoJSONFeature(f))
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}

	sep := ","
	if gw.count == 0 {
		sep = geojsonPrefix
	}
	if _, err := io.WriteString(gw.w, sep); err != nil {
		return err
	}
	if _, err := gw.w.Write(data); err != nil {
		return err
	}
	gw.count++
	return nil
}

// Count returns the number of features written.
func (gw *GeoJSONWriter) Count() int {
	return gw.count
}

// Close terminates the collection. An empty collection is still valid JSON.
func (gw *GeoJSONWriter) Close() error {
	if gw.closed {
		return nil
	}
	gw.closed = true
	if gw.count == 0 {
		if _, err := io.WriteString(gw.w, geojsonPrefix); err != nil {
			return err
		}
	}
	_, err := io.WriteString(gw.w, "]}\n")
	return err
}

// WKT returns the feature geometry as Well-Known Text. Empty geometries keep
// their declared type, for example "POINT EMPTY".
func WKT(f *Feature) string {
	g := f.Geometry()
	if g.Type == GeometryTypePoint && g.IsEmpty() {
		return "POINT EMPTY"
	}
	return wkt.MarshalString(g.Orb())
}

// exportGeometry is the orb value written for g. Orb has no empty Point;
// nil encodes as a null GeoJSON geometry.
func exportGeometry(g Geometry) orb.Geometry {
	if g.Type == GeometryTypePoint && g.IsEmpty() {
		return nil
	}
	return g.Orb()
}

// WriteWKT writes one line per feature: the local id (empty when the
// group has none), the OBJTYPE and the geometry, separated by tabs.
func WriteWKT(w io.Writer, features []*Feature) error {
	for _, f := range features {
		if err := writeWKTLine(w, f); err != nil {
			return err
		}
	}
	return nil
}

func writeWKTLine(w io.Writer, f *Feature) error {
	id := ""
	if n, ok := f.ID(); ok {
		id = fmt.Sprint(n)
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", id, f.ObjectType(), WKT(f))
	return err
}

// WKTWriter streams features as WKT lines.
type WKTWriter struct {
	w     io.Writer
	count int
}

// NewWKTWriter returns a writer producing WKT lines on w.
func NewWKTWriter(w io.Writer) *WKTWriter {
	return &WKTWriter{w: w}
}

// Write appends one feature line.
func (ww *WKTWriter) Write(f *Feature) error {
	if err := writeWKTLine(ww.w, f); err != nil {
		return err
	}
	ww.count++
	return nil
}

// Count returns the number of features written.
func (ww *WKTWriter) Count() int {
	return ww.count
}

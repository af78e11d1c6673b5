// Package sosi reads SOSI files, the Norwegian text exchange format for
// geographic data used by Kartverket and Norwegian municipalities.
//
// A SOSI file is a dot-level outline: a .HODE group with the coordinate
// system and unit, followed by object groups such as .PUNKT, .KURVE and
// .FLATE and a closing .SLUTT. Surfaces reference earlier curves by id and
// are stitched into closed rings while reading.
//
// # Streaming
//
// Reader returns one feature per call and holds only the curves polygons
// may still reference:
//
//	r, err := sosi.Open("0301_Arealdekke.sos", sosi.DefaultReadOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	fmt.Println("CRS:", r.CRS())
//	for {
//	    f, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("%s %s %d vertices (%.0f%%)\n",
//	        f.Kind(), f.ObjectType(), f.CoordinateCount(), r.Progress()*100)
//	}
//
// Coordinates are returned in the file's CRS with ENHET and ORIGO-NØ
// applied. X is east and Y is north.
//
// # Datasets
//
// ReadAll loads a whole file and builds an R-tree over feature extents:
//
//	ds, err := sosi.ReadAll("0301_Bygning.sos", sosi.DefaultReadOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	viewport := orb.Bound{Min: orb.Point{597000, 6642000}, Max: orb.Point{598000, 6643000}}
//	for _, f := range ds.FeaturesInBounds(viewport) {
//	    fmt.Println(f.Attribute("BYGNINGSNUMMER"))
//	}
//
// Many files are loaded with LoadParallel, cached with DatasetCache and
// located without reading features through Index.
//
// # Errors
//
// Only header problems and I/O failures are fatal; header errors match
// ErrFormat. Problems local to one object group, such as a malformed
// coordinate line or a reference to a missing curve, are attached to the
// feature and can be inspected with errors.As:
//
//	for _, w := range f.Warnings() {
//	    var missing *sosi.ErrMissingCurve
//	    if errors.As(w, &missing) {
//	        log.Printf("surface %d lacks curve %d", missing.FeatureID, missing.CurveID)
//	    }
//	}
//
// # Export
//
// WriteGeoJSON and WriteWKT convert features through github.com/paulmach/orb.
// GeoJSONWriter streams a collection without holding all features.
package sosi

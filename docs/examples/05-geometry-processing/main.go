package main

import (
	"fmt"
	"log"
	"os"

	"github.com/BiteMyBucket/sosi/pkg/sosi"
	"github.com/paulmach/orb/planar"
)

func processGeometry(feature *sosi.Feature) {
	geom := feature.Geometry()

	switch geom.Type {
	case sosi.GeometryTypePoint:
		if geom.IsEmpty() {
			fmt.Println("Point: (none)")
			return
		}
		c := geom.Coordinates[0]
		fmt.Printf("Point: %.2f, %.2f\n", c.X, c.Y)

	case sosi.GeometryTypeLineString:
		fmt.Printf("LineString with %d points, length %.2f m\n",
			len(geom.Coordinates), planar.Length(geom.Orb()))

	case sosi.GeometryTypePolygon:
		// First ring is the outer boundary, the rest are holes
		fmt.Printf("Polygon with %d rings, area %.2f m²\n",
			len(geom.Rings), planar.Area(geom.Orb()))
	}
}

func main() {
	ds, err := sosi.ReadAll("Arealdekke.sos", sosi.DefaultReadOptions())
	if err != nil {
		log.Fatal(err)
	}

	for _, f := range ds.Features() {
		fmt.Printf("\n%s:\n", f.ObjectType())
		processGeometry(f)
	}

	// Export what was read
	if err := sosi.WriteGeoJSON(os.Stdout, ds.Features()); err != nil {
		log.Fatal(err)
	}
}

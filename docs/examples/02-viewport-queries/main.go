package main

import (
	"fmt"
	"log"

	"github.com/BiteMyBucket/sosi/pkg/sosi"
	"github.com/paulmach/orb"
)

func main() {
	ds, err := sosi.ReadAll("Arealdekke.sos", sosi.DefaultReadOptions())
	if err != nil {
		log.Fatal(err)
	}

	// Viewport in the file's CRS (UTM metres)
	viewport := orb.Bound{
		Min: orb.Point{597000, 6642000},
		Max: orb.Point{599000, 6644000},
	}

	// Query R-tree index for visible features (O(log n))
	features := ds.FeaturesInBounds(viewport)

	fmt.Printf("Visible features: %d\n", len(features))

	for _, feature := range features {
		fmt.Printf("  %s: %s\n",
			feature.ObjectType(),
			feature.Geometry().Type)
	}
}

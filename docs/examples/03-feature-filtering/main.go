package main

import (
	"fmt"
	"log"

	"github.com/BiteMyBucket/sosi/pkg/sosi"
)

// Get all water surfaces
func getWater(ds *sosi.Dataset) []*sosi.Feature {
	var water []*sosi.Feature
	for _, t := range []string{"Innsjø", "Elv", "Havflate"} {
		water = append(water, ds.FeaturesByObjectType(t)...)
	}
	return water
}

// Get all boundary curves
func getCurves(ds *sosi.Dataset) []*sosi.Feature {
	var curves []*sosi.Feature
	for _, f := range ds.Features() {
		if f.Kind() == sosi.KindCurve {
			curves = append(curves, f)
		}
	}
	return curves
}

func main() {
	ds, err := sosi.ReadAll("Arealdekke.sos", sosi.DefaultReadOptions())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Water surfaces: %d\n", len(getWater(ds)))
	fmt.Printf("Curves: %d\n", len(getCurves(ds)))

	for _, t := range ds.ObjectTypes() {
		fmt.Printf("  %-24s %d\n", t.ObjectType, t.Count)
	}
}

package main

import (
	"fmt"
	"log"

	"github.com/BiteMyBucket/sosi/pkg/sosi"
)

func main() {
	// Read the whole file
	ds, err := sosi.ReadAll("Adresser.sos", sosi.DefaultReadOptions())
	if err != nil {
		log.Fatal(err)
	}

	// Print dataset info
	h := ds.Header()
	fmt.Printf("Dataset: %s\n", ds.Name())
	fmt.Printf("CRS: %s (%s)\n", h.CRS, h.CoordSysName)
	fmt.Printf("SOSI version: %s\n", h.Version)
	fmt.Printf("Features: %d\n", ds.FeatureCount())

	// Declared OMRÅDE, or the extent of the data
	if bounds, ok := ds.Bounds(); ok {
		fmt.Printf("Bounds: [%.2f,%.2f] to [%.2f,%.2f]\n",
			bounds.Min[0], bounds.Min[1],
			bounds.Max[0], bounds.Max[1])
	}
}

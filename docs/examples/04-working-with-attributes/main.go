package main

import (
	"fmt"
	"log"

	"github.com/BiteMyBucket/sosi/pkg/sosi"
)

func printFeatureDetails(feature *sosi.Feature) {
	id, _ := feature.ID()
	fmt.Printf("Feature: %s (ID %d)\n", feature.ObjectType(), id)

	// Nested groups are flattened to their leaf names
	if street, ok := feature.Attribute("GATENAVN"); ok {
		number, _ := feature.Attribute("HUSNR")
		fmt.Printf("  Address: %s %s\n", street, number)
	}
	if postcode, ok := feature.Attribute("POSTNR"); ok {
		place, _ := feature.Attribute("POSTNAVN")
		fmt.Printf("  Post: %s %s\n", postcode, place)
	}

	// Everything else, in file order
	for _, key := range feature.AttributeKeys() {
		v, _ := feature.Attribute(key)
		fmt.Printf("  %s = %s\n", key, v)
	}
}

func main() {
	ds, err := sosi.ReadAll("Adresser.sos", sosi.DefaultReadOptions())
	if err != nil {
		log.Fatal(err)
	}

	// Print details for first few features
	for i, f := range ds.Features() {
		if i >= 5 {
			break
		}
		printFeatureDetails(f)
	}
}

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/BiteMyBucket/sosi/pkg/sosi"
	"github.com/paulmach/orb"
)

func main() {
	// Index every .sos header below a directory
	index, err := sosi.BuildIndexFromDir(context.Background(), "./data", sosi.DefaultLoadOptions())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Index contains %d files\n\n", index.Count())

	for _, entry := range index.All() {
		fmt.Printf("Dataset: %s\n", entry.Name)
		fmt.Printf("  Path: %s\n", entry.Path)
		fmt.Printf("  CRS: %s\n", entry.CRS)
		if entry.HasArea {
			fmt.Printf("  Area: [%.2f,%.2f] to [%.2f,%.2f]\n",
				entry.Area.Min[0], entry.Area.Min[1],
				entry.Area.Max[0], entry.Area.Max[1])
		}
	}

	// Files covering a location, in UTM 33 only
	p := orb.Point{262000, 6650000}
	matches := index.Query(p.Bound(), sosi.QueryOptions{CRS: "EPSG:25833"})
	fmt.Printf("\nFiles containing %.0f, %.0f: %d\n", p[0], p[1], len(matches))
}

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/BiteMyBucket/sosi/pkg/sosi"
)

func main() {
	path := flag.String("file", "", "Path to SOSI file")
	flag.Parse()

	if *path == "" {
		log.Fatal("Please provide -file path")
	}

	// Only the .HODE group is read
	h, err := sosi.ReadHeader(*path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== Header ===\n")
	fmt.Printf("CRS: %s (%s)\n", h.CRS, h.CoordSysName)
	fmt.Printf("Unit: %g\n", h.XYFactor)
	fmt.Printf("Charset: %s\n", h.Charset)
	fmt.Printf("Version: %s, level %s\n\n", h.Version, h.Level)

	if h.HasArea {
		fmt.Printf("=== Area ===\n")
		fmt.Printf("North: %.2f to %.2f\n", h.Area.Min[1], h.Area.Max[1])
		fmt.Printf("East: %.2f to %.2f\n\n", h.Area.Min[0], h.Area.Max[0])
	}

	fmt.Printf("=== Attributes ===\n")
	for _, key := range h.AttributeKeys() {
		v, _ := h.Attribute(key)
		fmt.Printf("%-14s: %s\n", key, v)
	}
}

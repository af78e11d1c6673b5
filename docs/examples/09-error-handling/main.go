package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/BiteMyBucket/sosi/pkg/sosi"
)

func safeReadDataset(path string) (*sosi.Dataset, error) {
	ds, err := sosi.ReadAll(path, sosi.DefaultReadOptions())
	if err != nil {
		// Check if file exists
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("SOSI file not found: %s", path)
		}

		// Header problems make the whole file unreadable
		var crsErr *sosi.ErrUnknownCoordinateSystem
		if errors.As(err, &crsErr) {
			return nil, fmt.Errorf("%s: unsupported KOORDSYS %q", path, crsErr.Code)
		}
		if errors.Is(err, sosi.ErrFormat) {
			log.Printf("Not a usable SOSI file %s: %v", path, err)
		}
		return nil, err
	}

	// Problems confined to one feature are warnings
	for _, f := range ds.Features() {
		for _, w := range f.Warnings() {
			var missing *sosi.ErrMissingCurve
			if errors.As(w, &missing) {
				log.Printf("Warning: surface %d lost curve %d", missing.FeatureID, missing.CurveID)
				continue
			}
			log.Printf("Warning: %v", w)
		}
	}

	if ds.FeatureCount() == 0 {
		log.Printf("Warning: %s contains no features", path)
	}

	return ds, nil
}

func main() {
	ds, err := safeReadDataset("Arealdekke.sos")
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	fmt.Printf("Successfully loaded dataset: %s\n", ds.Name())
	fmt.Printf("Features: %d\n", ds.FeatureCount())

	// Try to read a non-existent file
	_, err = safeReadDataset("NONEXISTENT.sos")
	if err != nil {
		log.Printf("Expected error: %v", err)
	}
}

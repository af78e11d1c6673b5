package main

import (
	"context"
	"fmt"
	"log"

	"github.com/BiteMyBucket/sosi/pkg/sosi"
)

// Keep only specific object types for faster loading
func readWaterOnly(path string) (*sosi.Dataset, error) {
	opts := sosi.DefaultReadOptions()
	opts.ObjectTypeFilter = []string{
		"Innsjø",   // Lakes
		"Elv",      // Rivers
		"Havflate", // Sea
	}
	return sosi.ReadAll(path, opts)
}

// Strict mode with validation
func readWithValidation(path string) (*sosi.Dataset, error) {
	opts := sosi.DefaultReadOptions()
	opts.ValidateGeometry = true
	opts.SkipUnknown = true
	return sosi.ReadAll(path, opts)
}

func main() {
	fmt.Println("=== Reading water only ===")
	ds, err := readWaterOnly("Arealdekke.sos")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Features loaded: %d\n", ds.FeatureCount())

	fmt.Println("\n=== Reading with validation ===")
	ds2, err := readWithValidation("Arealdekke.sos")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Features loaded: %d, warnings: %d\n", ds2.FeatureCount(), ds2.WarningCount())

	// Many files at once, cached for reuse
	fmt.Println("\n=== Loading in parallel ===")
	opts := sosi.DefaultLoadOptions()
	opts.Progress = func(loaded, total int) {
		fmt.Printf("\rLoading: %d/%d", loaded, total)
	}
	set, errs := sosi.LoadParallel(context.Background(),
		[]string{"Adresser.sos", "Arealdekke.sos", "Stedsnavn.sos"}, opts)
	fmt.Printf("\nLoaded %d datasets, skipped %d\n", len(set.Datasets), len(errs))

	cache := sosi.NewDatasetCache(256 << 20)
	for _, ds := range set.Datasets {
		if err := cache.Add(ds.Path(), ds); err != nil {
			log.Printf("Not cached: %v", err)
		}
	}
	stats := cache.Stats()
	fmt.Printf("Cache: %d datasets, %d bytes\n", stats.DatasetCount, stats.UsedMemory)
}

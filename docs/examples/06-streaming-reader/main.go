package main

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/BiteMyBucket/sosi/pkg/sosi"
)

func main() {
	// Stream features without holding the whole file
	r, err := sosi.Open("zip://Basisdata.zip!Arealdekke.sos", sosi.DefaultReadOptions())
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	fmt.Printf("CRS: %s\n", r.CRS())

	count, warnings := 0, 0
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		count++
		warnings += len(f.Warnings())
		if count%10000 == 0 {
			fmt.Printf("\r%.0f%%", r.Progress()*100)
		}
	}

	fmt.Printf("\rFeatures: %d, warnings: %d\n", count, warnings)
}

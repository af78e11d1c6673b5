package parser

import (
	_ "embed"
	"encoding/csv"
	"strconv"
	"strings"
	"sync"
)

// koordsysCSV holds SOSI KOORDSYS codes and their EPSG equivalents.
// Columns: code, epsg, name
//
//go:embed koordsys.csv
var koordsysCSV string

// coordSys is one row of the KOORDSYS table
type coordSys struct {
	EPSG int
	Name string
}

var (
	coordSystems     map[string]coordSys
	coordSystemsOnce sync.Once
)

// loadCoordSystems loads the KOORDSYS table from embedded CSV
func loadCoordSystems() {
	coordSystems = make(map[string]coordSys)

	reader := csv.NewReader(strings.NewReader(koordsysCSV))
	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		return
	}

	// Skip header row
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		epsg, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			continue
		}
		cs := coordSys{EPSG: epsg}
		if len(record) > 2 {
			cs.Name = record[2]
		}
		coordSystems[strings.TrimSpace(record[0])] = cs
	}
}

// CoordSysToCRS maps a SOSI KOORDSYS code to an "EPSG:n" identifier.
func CoordSysToCRS(code string) (string, error) {
	coordSystemsOnce.Do(loadCoordSystems)

	code = strings.TrimSpace(code)
	cs, ok := coordSystems[code]
	if !ok {
		return "", &ErrUnknownCoordinateSystem{Code: code}
	}
	return "EPSG:" + strconv.Itoa(cs.EPSG), nil
}

// CoordSysName returns the descriptive name of a KOORDSYS code, e.g.
// "EUREF89 UTM sone 33".
func CoordSysName(code string) string {
	coordSystemsOnce.Do(loadCoordSystems)
	return coordSystems[strings.TrimSpace(code)].Name
}

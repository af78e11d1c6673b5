package sosi

import (
	"os"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func featureIDs(features []*Feature) []int64 {
	ids := make([]int64, len(features))
	for i, f := range features {
		ids[i], _ = f.ID()
	}
	return ids
}

func TestReadAllArealdekke(t *testing.T) {
	ds, err := ReadAll(testdataDir+"arealdekke.sos", DefaultReadOptions())
	require.NoError(t, err)

	assert.Equal(t, "arealdekke", ds.Name())
	assert.Equal(t, testdataDir+"arealdekke.sos", ds.Path())
	assert.Equal(t, "EPSG:25832", ds.CRS())
	assert.Equal(t, 4, ds.FeatureCount())
	assert.Len(t, ds.Features(), 4)
	assert.Equal(t, 1, ds.WarningCount())

	bounds, ok := ds.Bounds()
	require.True(t, ok, "feature extents stand in for a missing OMRÅDE")
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 100}}, bounds)

	lakes := ds.FeaturesByObjectType("Innsjø")
	require.Len(t, lakes, 1)
	assert.Equal(t, []int64{11}, featureIDs(lakes))
	assert.Empty(t, ds.FeaturesByObjectType("Bygning"))

	assert.Equal(t, []ObjectTypeCount{
		{ObjectType: "ArealdekkeGrense", Count: 1},
		{ObjectType: "Innsjø", Count: 1},
		{ObjectType: "Myr", Count: 1},
		{ObjectType: "ÅpentOmråde", Count: 1},
	}, ds.ObjectTypes())
}

func TestReadAllPrefersDeclaredArea(t *testing.T) {
	ds, err := ReadAll(testdataDir+"adresser.sos", DefaultReadOptions())
	require.NoError(t, err)

	bounds, ok := ds.Bounds()
	require.True(t, ok)
	assert.Equal(t, orb.Bound{Min: orb.Point{253000, 6645000}, Max: orb.Point{255000, 6647000}}, bounds)

	data, ok := ds.DataBounds()
	require.True(t, ok)
	assert.InDelta(t, 253673.99, data.Min[0], 1e-6)
	assert.InDelta(t, 253800.25, data.Max[0], 1e-6)
	assert.InDelta(t, 6645919.76, data.Min[1], 1e-6)
	assert.InDelta(t, 6646100.50, data.Max[1], 1e-6)

	assert.Equal(t, []ObjectTypeCount{{ObjectType: "Adresse", Count: 3}}, ds.ObjectTypes())
}

func TestFeaturesInBounds(t *testing.T) {
	ds, err := ReadAll(testdataDir+"arealdekke.sos", DefaultReadOptions())
	require.NoError(t, err)

	tests := []struct {
		name   string
		bounds orb.Bound
		want   []int64
	}{
		{
			name:   "inside the lake",
			bounds: orb.Bound{Min: orb.Point{45, 45}, Max: orb.Point{55, 55}},
			want:   []int64{1, 10, 11},
		},
		{
			name:   "touching the corner",
			bounds: orb.Bound{Min: orb.Point{100, 100}, Max: orb.Point{150, 150}},
			want:   []int64{1, 10},
		},
		{
			name:   "single point query",
			bounds: orb.Bound{Min: orb.Point{60, 60}, Max: orb.Point{60, 60}},
			want:   []int64{1, 10, 11},
		},
		{
			name:   "outside",
			bounds: orb.Bound{Min: orb.Point{200, 200}, Max: orb.Point{300, 300}},
			want:   []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ds.FeaturesInBounds(tt.bounds)
			assert.Equal(t, tt.want, featureIDs(got))

			linear := ds.featuresInBoundsLinear(tt.bounds)
			assert.Equal(t, tt.want, featureIDs(linear), "index and linear scan agree")
		})
	}
}

func TestFeaturesInBoundsPoints(t *testing.T) {
	ds, err := ReadAll(testdataDir+"adresser.sos", DefaultReadOptions())
	require.NoError(t, err)

	// Half a metre around the second address
	got := ds.FeaturesInBounds(orb.Bound{Min: orb.Point{253699.5, 6645999.5}, Max: orb.Point{253700.5, 6646000.5}})
	assert.Equal(t, []int64{2}, featureIDs(got))

	all := ds.FeaturesInBounds(orb.Bound{Min: orb.Point{253000, 6645000}, Max: orb.Point{255000, 6647000}})
	assert.Equal(t, []int64{1, 2, 3}, featureIDs(all))
}

func TestFeaturesInBoundsSkipsEmptyGeometry(t *testing.T) {
	ds, err := ReadAll(testdataDir+"navn.sos", DefaultReadOptions())
	require.NoError(t, err)
	require.Equal(t, 2, ds.FeatureCount())

	everything := orb.Bound{Min: orb.Point{-1e9, -1e9}, Max: orb.Point{1e9, 1e9}}
	assert.Equal(t, []int64{2}, featureIDs(ds.FeaturesInBounds(everything)))
}

func TestReadAllFrom(t *testing.T) {
	data, err := os.ReadFile(testdataDir + "navn.sos")
	require.NoError(t, err)

	ds, err := ReadAllFrom(strings.NewReader(string(data)), "navn", DefaultReadOptions())
	require.NoError(t, err)
	assert.Equal(t, "navn", ds.Name())
	assert.Empty(t, ds.Path())
	assert.Equal(t, 2, ds.FeatureCount())

	text := ds.Features()[1]
	assert.Equal(t, KindText, text.Kind())
	streng, _ := text.Attribute("STRENG")
	assert.Equal(t, "Blåfjell", streng)
	assert.True(t, text.Geometry().HasZ())
	assert.InDelta(t, 1234.5, text.Geometry().Coordinates[0].Z, 1e-9)
}

func TestReadAllHeaderError(t *testing.T) {
	_, err := ReadAllFrom(strings.NewReader(".HODE\n..TRANSPAR\n...KOORDSYS 999\n"), "bad", DefaultReadOptions())
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDatasetName(t *testing.T) {
	tests := map[string]string{
		"/data/0301_Bygning.sos":           "0301_Bygning",
		"relative.SOS":                     "relative",
		"zip:///data/fkb.zip!0301/Veg.sos": "Veg",
		"zip:///data/fkb.zip!top.sos":      "top",
		"/data/no_extension":               "no_extension",
	}
	for in, want := range tests {
		assert.Equal(t, want, datasetName(in), in)
	}
}

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BiteMyBucket/sosi/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdataDir = "../../testdata/sosi/"

func testConfig(format string, files ...string) *config.Config {
	cfg := config.Default()
	cfg.Format = format
	for _, f := range files {
		cfg.Paths = append(cfg.Paths, filepath.Join(testdataDir, f))
	}
	return cfg
}

func TestRun_Summary(t *testing.T) {
	t.Parallel()

	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	cfg := testConfig(config.FormatSummary, "adresser.sos", "arealdekke.sos")
	require.NoError(t, NewApp(out, logs, cfg).Run(context.Background()))

	s := out.String()
	assert.Contains(t, s, "adresser (")
	assert.Contains(t, s, "EPSG:25833")
	assert.Contains(t, s, "Features:   3")
	assert.Contains(t, s, "Bounds:     253000.00,6645000.00 255000.00,6647000.00")
	assert.Contains(t, s, "Adresse")
	assert.Contains(t, s, "arealdekke (")
	assert.Contains(t, s, "Features:   4")
	assert.Contains(t, s, "Innsjø")
	assert.Less(t, strings.Index(s, "adresser ("), strings.Index(s, "arealdekke ("), "datasets keep input order")

	assert.Contains(t, logs.String(), "Summary complete.")
}

func TestRun_SummaryMissingFile(t *testing.T) {
	t.Parallel()

	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	cfg := testConfig(config.FormatSummary, "adresser.sos", "missing.sos")
	err := NewApp(out, logs, cfg).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, "1 of 2 files could not be read", err.Error())

	assert.Contains(t, out.String(), "adresser (")
	assert.Contains(t, logs.String(), "failed to load SOSI file")
}

func TestRun_GeoJSON(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg := testConfig(config.FormatGeoJSON, "adresser.sos", "arealdekke.sos")
	require.NoError(t, NewApp(out, &bytes.Buffer{}, cfg).Run(context.Background()))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 7)
	assert.Equal(t, "Adresse", fc.Features[0].Properties["OBJTYPE"])
	assert.Equal(t, "Myr", fc.Features[6].Properties["OBJTYPE"])
}

func TestRun_GeoJSONNoReadableFiles(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg := testConfig(config.FormatGeoJSON, "missing.sos")
	err := NewApp(out, &bytes.Buffer{}, cfg).Run(context.Background())
	require.Error(t, err)

	// The collection is still terminated.
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, out.String())
}

func TestRun_WKTWithFilter(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg := testConfig(config.FormatWKT, "arealdekke.sos")
	cfg.ObjectTypes = []string{"Innsjø", "Myr"}
	require.NoError(t, NewApp(out, &bytes.Buffer{}, cfg).Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "11\tInnsjø\tPOLYGON"), lines[0])
	assert.Equal(t, "12\tMyr\tPOLYGON EMPTY", lines[1])
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(config.FormatWKT, "adresser.sos")
	err := NewApp(&bytes.Buffer{}, &bytes.Buffer{}, cfg).Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRun_OutputFailureStops(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.FormatWKT, "adresser.sos", "arealdekke.sos")
	err := NewApp(failingWriter{}, &bytes.Buffer{}, cfg).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, "disk full", err.Error())
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := newLogger("warn", "json", buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)
	assert.NotContains(t, line, "hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
}

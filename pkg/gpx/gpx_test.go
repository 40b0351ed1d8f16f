package gpx_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maximilian-franz/trackme/pkg/file"
	"github.com/maximilian-franz/trackme/pkg/gpx"
	"github.com/maximilian-franz/trackme/pkg/track"
	"github.com/stretchr/testify/assert"
)

// TestMarshal verifies that the rendered document is GPX 1.1 with the
// points in a single track segment.
func TestMarshal(t *testing.T) {
	points := []track.GeoPoint{
		{Latitude: 37.7749, Longitude: -122.4194},
		{Latitude: 37.7750, Longitude: -122.4195},
	}

	payload, err := gpx.Marshal(points, "morning ride")
	assert.NoError(t, err)

	doc := string(payload)
	assert.Contains(t, doc, `version="1.1"`)
	assert.Contains(t, doc, "morning ride")
	assert.Contains(t, doc, `lat="37.7749"`)
	assert.Contains(t, doc, `lon="-122.4195"`)
}

// TestMarshal_Empty verifies that an empty track still renders a valid
// document.
func TestMarshal_Empty(t *testing.T) {
	payload, err := gpx.Marshal(nil, "empty")
	assert.NoError(t, err)
	assert.Contains(t, string(payload), "<gpx")
}

// TestExport verifies that the GPX snapshot lands on disk.
func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.gpx")
	points := []track.GeoPoint{{Latitude: 1.5, Longitude: 2.5}}

	err := gpx.Export(points, "test", path, file.NewFileService())
	assert.NoError(t, err)

	raw, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `lat="1.5"`)
}

package track_test

import (
	"path/filepath"
	"testing"

	"github.com/maximilian-franz/trackme/pkg/file"
	"github.com/maximilian-franz/trackme/pkg/track"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newStatsLog(t *testing.T) *track.TrackLog {
	t.Helper()
	mirror := filepath.Join(t.TempDir(), "track.json")
	return track.NewTrackLog(mirror, file.NewFileService(), zerolog.Nop())
}

// TestTrackLog_Distance checks the cumulative track length against a known
// great-circle distance (Paris to London is roughly 344 km).
func TestTrackLog_Distance(t *testing.T) {
	log := newStatsLog(t)

	assert.Zero(t, log.Distance())

	assert.NoError(t, log.Append(track.GeoPoint{Latitude: 48.8566, Longitude: 2.3522}))
	assert.Zero(t, log.Distance())

	assert.NoError(t, log.Append(track.GeoPoint{Latitude: 51.5074, Longitude: -0.1278}))
	assert.InDelta(t, 344000, log.Distance(), 2000)
}

// TestTrackLog_Bounds verifies the bounding box over a small track.
func TestTrackLog_Bounds(t *testing.T) {
	log := newStatsLog(t)

	_, ok := log.Bounds()
	assert.False(t, ok)

	points := []track.GeoPoint{
		{Latitude: 10, Longitude: -5},
		{Latitude: -3, Longitude: 7},
		{Latitude: 4, Longitude: 2},
	}
	for _, p := range points {
		assert.NoError(t, log.Append(p))
	}

	bounds, ok := log.Bounds()
	assert.True(t, ok)
	assert.Equal(t, track.Bounds{MinLat: -3, MinLon: -5, MaxLat: 10, MaxLon: 7}, bounds)
}

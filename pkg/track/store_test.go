package track_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/maximilian-franz/trackme/pkg/file"
	"github.com/maximilian-franz/trackme/pkg/track"
	"github.com/maximilian-franz/trackme/tests/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// newTestLog creates a TrackLog backed by a mirror file in a temp directory.
func newTestLog(t *testing.T) (*track.TrackLog, string) {
	t.Helper()
	mirror := filepath.Join(t.TempDir(), "track.json")
	return track.NewTrackLog(mirror, file.NewFileService(), zerolog.Nop()), mirror
}

// TestTrackLog_RoundTrip verifies that Load after Replace yields the same
// points in the same order.
func TestTrackLog_RoundTrip(t *testing.T) {
	log, _ := newTestLog(t)

	points := []track.GeoPoint{
		{Latitude: 37.7749, Longitude: -122.4194},
		{Latitude: 37.7750, Longitude: -122.4195},
		{Latitude: 37.7751, Longitude: -122.4196},
	}

	err := log.Replace(points)
	assert.NoError(t, err)

	result := log.Load()
	assert.Equal(t, track.ReasonLoaded, result.Reason)
	assert.Equal(t, points, result.Points)
}

// TestTrackLog_LoadMissingFile verifies that a missing mirror yields an
// empty sequence instead of an error.
func TestTrackLog_LoadMissingFile(t *testing.T) {
	log, _ := newTestLog(t)

	result := log.Load()
	assert.Equal(t, track.ReasonNoFile, result.Reason)
	assert.Empty(t, result.Points)
	assert.NotNil(t, result.Points)
}

// TestTrackLog_LoadBlankFile verifies that the zero-length mirror Clear
// leaves behind reads as empty.
func TestTrackLog_LoadBlankFile(t *testing.T) {
	log, mirror := newTestLog(t)

	err := os.WriteFile(mirror, []byte{}, 0600)
	assert.NoError(t, err)

	result := log.Load()
	assert.Equal(t, track.ReasonBlank, result.Reason)
	assert.Empty(t, result.Points)
}

// TestTrackLog_LoadMalformed verifies that unparseable mirror contents
// degrade to an empty sequence.
func TestTrackLog_LoadMalformed(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{"not JSON", "definitely not json {"},
		{"JSON object", `{"latitude": 1.0}`},
		{"array of strings", `["a", "b"]`},
		{"binary garbage", "\x00\x01\x02\xff"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log, mirror := newTestLog(t)

			err := os.WriteFile(mirror, []byte(tc.contents), 0600)
			assert.NoError(t, err)

			result := log.Load()
			assert.Equal(t, track.ReasonMalformed, result.Reason)
			assert.Empty(t, result.Points)
		})
	}
}

// TestTrackLog_ClearIsIdempotent verifies that Clear followed by Load
// yields an empty sequence regardless of prior contents.
func TestTrackLog_ClearIsIdempotent(t *testing.T) {
	log, mirror := newTestLog(t)

	err := log.Replace([]track.GeoPoint{{Latitude: 1, Longitude: 2}})
	assert.NoError(t, err)

	err = log.Clear()
	assert.NoError(t, err)

	// The mirror must be a zero-length file, not an empty JSON array
	raw, err := os.ReadFile(mirror)
	assert.NoError(t, err)
	assert.Empty(t, raw)

	result := log.Load()
	assert.Equal(t, track.ReasonBlank, result.Reason)
	assert.Empty(t, result.Points)

	// Clearing again changes nothing
	err = log.Clear()
	assert.NoError(t, err)
	assert.Empty(t, log.Load().Points)
}

// TestTrackLog_AppendAccumulates verifies that sequential appends build the
// sequence in order, both in memory and in the mirror.
func TestTrackLog_AppendAccumulates(t *testing.T) {
	log, _ := newTestLog(t)

	a := track.GeoPoint{Latitude: 1, Longitude: 10}
	b := track.GeoPoint{Latitude: 2, Longitude: 20}
	c := track.GeoPoint{Latitude: 3, Longitude: 30}

	for _, p := range []track.GeoPoint{a, b, c} {
		err := log.Append(p)
		assert.NoError(t, err)
	}

	expected := []track.GeoPoint{a, b, c}
	assert.Equal(t, expected, log.Points())

	result := log.Load()
	assert.Equal(t, track.ReasonLoaded, result.Reason)
	assert.Equal(t, expected, result.Points)
}

// TestTrackLog_ReplaceThenAppend covers the concrete replace/append/load
// sequence end to end.
func TestTrackLog_ReplaceThenAppend(t *testing.T) {
	log, _ := newTestLog(t)

	err := log.Replace([]track.GeoPoint{{Latitude: 37.0, Longitude: -122.0}})
	assert.NoError(t, err)

	// Adopt the persisted point before mutating, as the agent does at start
	restored := log.Restore()
	assert.Equal(t, track.ReasonLoaded, restored.Reason)

	err = log.Append(track.GeoPoint{Latitude: 38.0, Longitude: -123.0})
	assert.NoError(t, err)

	result := log.Load()
	assert.Equal(t, []track.GeoPoint{
		{Latitude: 37.0, Longitude: -122.0},
		{Latitude: 38.0, Longitude: -123.0},
	}, result.Points)
}

// TestTrackLog_ClearLeavesMemoryUntouched verifies that Clear only affects
// the mirror; dropping the in-memory sequence is the caller's move.
func TestTrackLog_ClearLeavesMemoryUntouched(t *testing.T) {
	log, _ := newTestLog(t)

	err := log.Append(track.GeoPoint{Latitude: 5, Longitude: 6})
	assert.NoError(t, err)

	err = log.Clear()
	assert.NoError(t, err)
	assert.Equal(t, 1, log.Len())

	log.Reset()
	assert.Equal(t, 0, log.Len())
}

// TestTrackLog_AppendKeepsPointOnWriteFailure verifies that a failed
// mirror write surfaces an error but does not lose the in-memory point.
func TestTrackLog_AppendKeepsPointOnWriteFailure(t *testing.T) {
	fileOps := new(mocks.MockFileOperations)
	fileOps.On("WriteFileRaw", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	log := track.NewTrackLog("track.json", fileOps, zerolog.Nop())

	err := log.Append(track.GeoPoint{Latitude: 1, Longitude: 1})
	assert.Error(t, err)
	assert.Equal(t, 1, log.Len())

	fileOps.AssertExpectations(t)
}

// TestTrackLog_ReplaceEmptyWritesArray verifies that replacing with no
// points writes an empty JSON array rather than JSON null.
func TestTrackLog_ReplaceEmptyWritesArray(t *testing.T) {
	log, mirror := newTestLog(t)

	err := log.Replace(nil)
	assert.NoError(t, err)

	raw, err := os.ReadFile(mirror)
	assert.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

package track

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/maximilian-franz/trackme/pkg/file"
	"github.com/rs/zerolog"
)

// TrackLog owns the ordered sequence of points recorded during the current
// session and keeps a durable mirror of it on disk. The in-memory sequence
// is authoritative once restored; every mutation rewrites the mirror in
// full. Read failures of any kind degrade to an empty sequence and are
// never surfaced to callers, write failures propagate as plain errors.
type TrackLog struct {
	mirrorPath string
	fileOps    file.FileOperations
	logger     zerolog.Logger

	mu     sync.Mutex
	points []GeoPoint
}

// NewTrackLog creates an empty TrackLog backed by the mirror file at
// mirrorPath. Call Restore to adopt a previously persisted track.
func NewTrackLog(mirrorPath string, fileOps file.FileOperations, logger zerolog.Logger) *TrackLog {
	return &TrackLog{
		mirrorPath: mirrorPath,
		fileOps:    fileOps,
		logger:     logger,
	}
}

// Load reads the durable mirror in full. A missing mirror, a zero-length
// mirror and a mirror with unparseable contents all yield an empty result;
// the distinction survives only in the Reason field.
func (t *TrackLog) Load() LoadResult {
	exists, err := t.fileOps.IsFileExists(t.mirrorPath)
	if err != nil || !exists {
		return LoadResult{Points: []GeoPoint{}, Reason: ReasonNoFile}
	}

	raw, err := t.fileOps.ReadFileRaw(t.mirrorPath)
	if err != nil {
		t.logger.Warn().Err(err).Str("path", t.mirrorPath).Msg("Failed to read track mirror, starting empty")
		return LoadResult{Points: []GeoPoint{}, Reason: ReasonNoFile}
	}

	if len(raw) == 0 {
		return LoadResult{Points: []GeoPoint{}, Reason: ReasonBlank}
	}

	var points []GeoPoint
	if err := json.Unmarshal(raw, &points); err != nil {
		t.logger.Warn().Err(err).Str("path", t.mirrorPath).Msg("Track mirror is malformed, starting empty")
		return LoadResult{Points: []GeoPoint{}, Reason: ReasonMalformed}
	}

	if points == nil {
		points = []GeoPoint{}
	}
	return LoadResult{Points: points, Reason: ReasonLoaded}
}

// Restore loads the durable mirror and adopts the result as the in-memory
// sequence. Intended for process start, before any mutation.
func (t *TrackLog) Restore() LoadResult {
	result := t.Load()

	t.mu.Lock()
	t.points = append([]GeoPoint(nil), result.Points...)
	t.mu.Unlock()

	return result
}

// Replace overwrites the durable mirror with the full serialized contents
// of points. The write is a plain truncate-and-write; a crash mid-write can
// leave a corrupt mirror, which Load treats as empty.
func (t *TrackLog) Replace(points []GeoPoint) error {
	if points == nil {
		points = []GeoPoint{}
	}

	payload, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("failed to serialize track: %w", err)
	}

	if err := t.fileOps.WriteFileRaw(t.mirrorPath, payload); err != nil {
		return fmt.Errorf("failed to write track mirror: %w", err)
	}
	return nil
}

// Append adds one point to the in-memory sequence and re-persists the full
// sequence. The point is retained in memory even when persistence fails.
func (t *TrackLog) Append(p GeoPoint) error {
	t.mu.Lock()
	t.points = append(t.points, p)
	snapshot := append([]GeoPoint(nil), t.points...)
	t.mu.Unlock()

	return t.Replace(snapshot)
}

// Clear truncates the durable mirror to a zero-length file. It does not
// touch the in-memory sequence; callers pair it with Reset.
func (t *TrackLog) Clear() error {
	if err := t.fileOps.WriteFile(t.mirrorPath, ""); err != nil {
		return fmt.Errorf("failed to clear track mirror: %w", err)
	}
	return nil
}

// Reset drops the in-memory sequence without touching the mirror.
func (t *TrackLog) Reset() {
	t.mu.Lock()
	t.points = nil
	t.mu.Unlock()
}

// Points returns a copy of the current in-memory sequence, never nil.
func (t *TrackLog) Points() []GeoPoint {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := make([]GeoPoint, len(t.points))
	copy(snapshot, t.points)
	return snapshot
}

// Len returns the number of points currently held in memory.
func (t *TrackLog) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.points)
}

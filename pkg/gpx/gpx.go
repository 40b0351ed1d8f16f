package gpx

import (
	"fmt"

	"github.com/maximilian-franz/trackme/pkg/file"
	"github.com/maximilian-franz/trackme/pkg/track"
	"github.com/tkrajina/gpxgo/gpx"
)

const creator = "trackme"

// Marshal renders the given points as a GPX 1.1 document with a single
// track segment.
func Marshal(points []track.GeoPoint, name string) ([]byte, error) {
	segment := gpx.GPXTrackSegment{}
	for _, p := range points {
		segment.Points = append(segment.Points, gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
			},
		})
	}

	doc := &gpx.GPX{
		Creator: creator,
		Tracks: []gpx.GPXTrack{
			{
				Name:     name,
				Segments: []gpx.GPXTrackSegment{segment},
			},
		},
	}

	return doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
}

// Export writes the given points as a GPX file at path.
func Export(points []track.GeoPoint, name, path string, fileOps file.FileOperations) error {
	payload, err := Marshal(points, name)
	if err != nil {
		return fmt.Errorf("failed to render GPX: %w", err)
	}

	if err := fileOps.WriteFileRaw(path, payload); err != nil {
		return fmt.Errorf("failed to write GPX file: %w", err)
	}
	return nil
}

package track

import "math"

const earthRadiusMeters = 6371000.0

// haversine returns the great-circle distance between two points in meters.
func haversine(a, b GeoPoint) float64 {
	latA := a.Latitude * math.Pi / 180
	latB := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Distance returns the cumulative great-circle length of the in-memory
// track in meters. Tracks with fewer than two points have zero length.
func (t *TrackLog) Distance() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total float64
	for i := 1; i < len(t.points); i++ {
		total += haversine(t.points[i-1], t.points[i])
	}
	return total
}

// Bounds returns the bounding box of the in-memory track. The second
// return value is false when the track is empty.
func (t *TrackLog) Bounds() (Bounds, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.points) == 0 {
		return Bounds{}, false
	}

	b := Bounds{
		MinLat: t.points[0].Latitude,
		MaxLat: t.points[0].Latitude,
		MinLon: t.points[0].Longitude,
		MaxLon: t.points[0].Longitude,
	}
	for _, p := range t.points[1:] {
		b.MinLat = math.Min(b.MinLat, p.Latitude)
		b.MaxLat = math.Max(b.MaxLat, p.Latitude)
		b.MinLon = math.Min(b.MinLon, p.Longitude)
		b.MaxLon = math.Max(b.MaxLon, p.Longitude)
	}
	return b, true
}

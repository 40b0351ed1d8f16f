package track

// GeoPoint represents a single recorded coordinate pair in decimal degrees
// (WGS 84). It carries no identity beyond its coordinates; two points with
// the same latitude and longitude are equal.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EmptyReason explains why Load returned the points it did. Production
// callers only consume the points; the reason exists so that the silent
// recovery paths stay observable in tests and diagnostics.
type EmptyReason string

const (
	// ReasonLoaded indicates the mirror was read and parsed successfully.
	ReasonLoaded EmptyReason = "loaded"
	// ReasonNoFile indicates the mirror does not exist or could not be read.
	ReasonNoFile EmptyReason = "no_file"
	// ReasonBlank indicates the mirror exists but is zero-length, the state
	// Clear leaves behind.
	ReasonBlank EmptyReason = "blank"
	// ReasonMalformed indicates the mirror holds bytes that do not parse as
	// a JSON array of points.
	ReasonMalformed EmptyReason = "malformed"
)

// LoadResult is the outcome of reading the durable mirror. Points is never
// nil; every non-loaded reason carries an empty slice.
type LoadResult struct {
	Points []GeoPoint
	Reason EmptyReason
}

// Bounds is the bounding box enclosing a track.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

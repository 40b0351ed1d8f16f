package models

import (
	"time"
)

// TrackPoint represents a single recorded position fix with associated metadata
type TrackPoint struct {
	DeviceID  string    `json:"device_id"`
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
}

package models

import "time"

// ControlRequest represents a remote control command received by the device.
type ControlRequest struct {
	Action     string `json:"action"`                // One of the control actions in internal/constants.
	UserID     string `json:"user_id"`               // The ID of the user who initiated the command.
	ExportPath string `json:"export_path,omitempty"` // Target path for the export action.
}

// ControlResponse represents the outcome the device reports back after
// handling a control command.
type ControlResponse struct {
	DeviceID string `json:"device_id"`
	UserID   string `json:"user_id"`
	Action   string `json:"action"`
	Status   string `json:"status"`
	Detail   string `json:"detail,omitempty"`
}

// StatusReport is the payload returned for the status control action.
type StatusReport struct {
	DeviceID       string    `json:"device_id"`
	Timestamp      time.Time `json:"timestamp"`
	Points         int       `json:"points"`
	DistanceMeters float64   `json:"distance_meters"`
	UptimeSeconds  float64   `json:"uptime_seconds"`
	MemoryPercent  float64   `json:"memory_percent"`
}

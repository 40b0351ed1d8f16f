package constants

// Control actions accepted over the control topic
const (
	// ActionClear wipes the durable mirror and the in-memory track
	ActionClear = "clear"
	// ActionExport writes a GPX snapshot of the current track
	ActionExport = "export"
	// ActionStatus reports point count, distance and process health
	ActionStatus = "status"
)

// Control response statuses
const (
	// ControlStatusSuccess indicates the command was handled
	ControlStatusSuccess = "success"
	// ControlStatusFailed indicates the command failed
	ControlStatusFailed = "failed"
)

const (
	// DefaultExportPath is used when an export request names no target
	DefaultExportPath = "track.gpx"
	// DefaultControlWorkers bounds concurrently handled control commands
	DefaultControlWorkers = 2
)

package utils

import (
	"time"

	"github.com/maximilian-franz/trackme/pkg/file"
)

// Config represents the structure of the configuration file.
type Config struct {
	MQTT struct {
		Broker        string `yaml:"broker"`         // MQTT broker address
		ClientID      string `yaml:"client_id"`      // MQTT client ID
		CACertificate string `yaml:"ca_certificate"` // Path to the CA certificate (optional)
	} `yaml:"mqtt"`

	Identity struct {
		DeviceFile string `yaml:"device_file"` // Path to the device identity file
	} `yaml:"identity"`

	Services struct {
		Recorder struct {
			Topic             string        `yaml:"topic"`              // MQTT topic for published fixes
			Enabled           bool          `yaml:"enabled"`            // Enable/disable the recorder service
			Interval          time.Duration `yaml:"interval"`           // Interval between position polls (in seconds)
			QOS               int           `yaml:"qos"`                // MQTT QoS level for fix messages
			Provider          string        `yaml:"provider"`           // Position source: sensor, gpsd or google
			TrackFile         string        `yaml:"track_file"`         // Path to the durable track mirror
			GPSDevicePort     string        `yaml:"gps_device_port"`    // Serial port of the GPS receiver
			GPSDeviceBaudRate int           `yaml:"gps_baud_rate"`      // Baud rate for the GPS receiver
			GPSReadTimeout    time.Duration `yaml:"gps_read_timeout"`   // Serial read timeout (in seconds)
			GPSDAddress       string        `yaml:"gpsd_address"`       // host:port of the gpsd daemon
			MapsAPIKey        string        `yaml:"maps_api_key"`       // Google Maps Geolocation API key
		} `yaml:"recorder"`

		Control struct {
			Topic      string `yaml:"topic"`       // MQTT topic for control commands
			Enabled    bool   `yaml:"enabled"`     // Enable/disable the control service
			QOS        int    `yaml:"qos"`         // MQTT QoS level for control messages
			ExportPath string `yaml:"export_path"` // Default path for GPX exports
			Workers    int    `yaml:"workers"`     // Concurrent control command handlers
		} `yaml:"control"`

		Map struct {
			Enabled       bool   `yaml:"enabled"`        // Enable/disable the map server
			ListenAddress string `yaml:"listen_address"` // HTTP listen address for the map server
		} `yaml:"map"`
	} `yaml:"services"`
}

// LoadConfig loads the YAML configuration from the specified file.
// It returns a pointer to the Config struct and an error if loading fails.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	err := fileClient.ReadYamlFile(filename, &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

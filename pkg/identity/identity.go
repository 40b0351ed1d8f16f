package identity

import (
	"os"

	"github.com/google/uuid"
	"github.com/maximilian-franz/trackme/pkg/file"
)

// Identity holds the device's unique identifier and display name.
type Identity struct {
	ID   string `json:"device_id,omitempty"`
	Name string `json:"device_name,omitempty"`
}

// DeviceInfoInterface defines methods for managing the device identity.
type DeviceInfoInterface interface {
	LoadDeviceInfo() error
	EnsureDeviceID() (string, error)
	GetDeviceID() string
	GetDeviceIdentity() *Identity
}

// DeviceInfo manages the device identity file.
type DeviceInfo struct {
	DeviceInfoFile string
	Identity       Identity
	fileOps        file.FileOperations
}

// NewDeviceInfo initializes a new DeviceInfo instance.
func NewDeviceInfo(filePath string, fileOps file.FileOperations) DeviceInfoInterface {
	return &DeviceInfo{
		DeviceInfoFile: filePath,
		fileOps:        fileOps,
		Identity:       Identity{},
	}
}

// LoadDeviceInfo reads the identity file into the Identity field. A missing
// file leaves the identity empty and is not an error.
func (d *DeviceInfo) LoadDeviceInfo() error {
	err := d.fileOps.ReadJsonFile(d.DeviceInfoFile, &d.Identity)
	if err != nil {
		if os.IsNotExist(err) {
			d.Identity = Identity{}
			return nil
		}
		return err
	}

	return nil
}

// EnsureDeviceID returns the device ID, generating and persisting a fresh
// one when the identity file carried none.
func (d *DeviceInfo) EnsureDeviceID() (string, error) {
	if d.Identity.ID != "" {
		return d.Identity.ID, nil
	}

	d.Identity.ID = uuid.New().String()
	if err := d.fileOps.WriteJsonFile(d.DeviceInfoFile, d.Identity); err != nil {
		return "", err
	}
	return d.Identity.ID, nil
}

// GetDeviceIdentity returns the current device Identity.
func (d *DeviceInfo) GetDeviceIdentity() *Identity {
	return &d.Identity
}

// GetDeviceID returns the current device ID.
func (d *DeviceInfo) GetDeviceID() string {
	return d.Identity.ID
}

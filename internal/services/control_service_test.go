package services_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maximilian-franz/trackme/internal/constants"
	"github.com/maximilian-franz/trackme/internal/models"
	"github.com/maximilian-franz/trackme/internal/services"
	"github.com/maximilian-franz/trackme/pkg/file"
	"github.com/maximilian-franz/trackme/pkg/track"
	"github.com/maximilian-franz/trackme/tests/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type controlFixture struct {
	mqttClient *mocks.MockMQTTClient
	trackLog   *track.TrackLog
	mirror     string
	service    *services.ControlService
	responses  chan []byte
}

func newControlFixture(t *testing.T) *controlFixture {
	t.Helper()

	mockDeviceInfo := new(mocks.MockDeviceInfo)
	mockDeviceInfo.On("GetDeviceID").Return("dev-1")

	mockToken := new(mocks.MockToken)
	mockToken.On("Wait").Return(true)
	mockToken.On("Error").Return(nil)

	responses := make(chan []byte, 4)
	mockMQTT := new(mocks.MockMQTTClient)
	mockMQTT.On("Publish", "trackme/control/dev-1/response", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToken).
		Run(func(args mock.Arguments) {
			responses <- args.Get(3).([]byte)
		})

	mirror := filepath.Join(t.TempDir(), "track.json")
	trackLog := track.NewTrackLog(mirror, file.NewFileService(), zerolog.Nop())

	svc := services.NewControlService(
		"trackme/control",
		1,
		1,
		"",
		mockDeviceInfo,
		mockMQTT,
		file.NewFileService(),
		trackLog,
		zerolog.Nop(),
	)

	return &controlFixture{
		mqttClient: mockMQTT,
		trackLog:   trackLog,
		mirror:     mirror,
		service:    svc,
		responses:  responses,
	}
}

func (f *controlFixture) awaitResponse(t *testing.T) models.ControlResponse {
	t.Helper()

	select {
	case payload := <-f.responses:
		var response models.ControlResponse
		assert.NoError(t, json.Unmarshal(payload, &response))
		return response
	case <-time.After(2 * time.Second):
		t.Fatal("no control response published")
		return models.ControlResponse{}
	}
}

func (f *controlFixture) handle(t *testing.T, request models.ControlRequest) {
	t.Helper()

	payload, err := json.Marshal(request)
	assert.NoError(t, err)
	f.service.HandleControl(nil, mocks.NewMockMessage("trackme/control/dev-1", payload))
}

// TestControlService_Clear verifies that the clear action wipes both the
// in-memory track and the durable mirror.
func TestControlService_Clear(t *testing.T) {
	f := newControlFixture(t)
	assert.NoError(t, f.trackLog.Append(track.GeoPoint{Latitude: 1, Longitude: 2}))

	f.handle(t, models.ControlRequest{Action: constants.ActionClear, UserID: "u-1"})

	response := f.awaitResponse(t)
	assert.Equal(t, constants.ControlStatusSuccess, response.Status)
	assert.Equal(t, "dev-1", response.DeviceID)
	assert.Equal(t, "u-1", response.UserID)

	assert.Equal(t, 0, f.trackLog.Len())

	raw, err := os.ReadFile(f.mirror)
	assert.NoError(t, err)
	assert.Empty(t, raw)
}

// TestControlService_Export verifies that the export action writes a GPX
// snapshot of the current track.
func TestControlService_Export(t *testing.T) {
	f := newControlFixture(t)
	assert.NoError(t, f.trackLog.Append(track.GeoPoint{Latitude: 37.7749, Longitude: -122.4194}))

	exportPath := filepath.Join(t.TempDir(), "out.gpx")
	f.handle(t, models.ControlRequest{Action: constants.ActionExport, ExportPath: exportPath})

	response := f.awaitResponse(t)
	assert.Equal(t, constants.ControlStatusSuccess, response.Status)
	assert.Equal(t, exportPath, response.Detail)

	raw, err := os.ReadFile(exportPath)
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `lat="37.7749"`)
}

// TestControlService_Status verifies that the status action reports the
// current track length.
func TestControlService_Status(t *testing.T) {
	f := newControlFixture(t)
	assert.NoError(t, f.trackLog.Append(track.GeoPoint{Latitude: 1, Longitude: 1}))
	assert.NoError(t, f.trackLog.Append(track.GeoPoint{Latitude: 2, Longitude: 2}))

	f.handle(t, models.ControlRequest{Action: constants.ActionStatus})

	response := f.awaitResponse(t)
	assert.Equal(t, constants.ControlStatusSuccess, response.Status)

	var report models.StatusReport
	assert.NoError(t, json.Unmarshal([]byte(response.Detail), &report))
	assert.Equal(t, 2, report.Points)
	assert.Greater(t, report.DistanceMeters, 0.0)
}

// TestControlService_UnknownAction verifies that an unknown action yields
// a failed response.
func TestControlService_UnknownAction(t *testing.T) {
	f := newControlFixture(t)

	f.handle(t, models.ControlRequest{Action: "reboot"})

	response := f.awaitResponse(t)
	assert.Equal(t, constants.ControlStatusFailed, response.Status)
	assert.Contains(t, response.Detail, "unknown control action")
}

// TestControlService_MalformedRequestIgnored verifies that garbage on the
// control topic is dropped without a response.
func TestControlService_MalformedRequestIgnored(t *testing.T) {
	f := newControlFixture(t)

	f.service.HandleControl(nil, mocks.NewMockMessage("trackme/control/dev-1", []byte("not json")))

	select {
	case <-f.responses:
		t.Fatal("malformed request produced a response")
	case <-time.After(100 * time.Millisecond):
	}
}

// TestControlService_StartStop tests subscription lifecycle including
// double start and double stop.
func TestControlService_StartStop(t *testing.T) {
	f := newControlFixture(t)

	mockToken := new(mocks.MockToken)
	mockToken.On("Wait").Return(true)
	mockToken.On("Error").Return(nil)

	f.mqttClient.On("Subscribe", "trackme/control/dev-1", byte(1), mock.Anything).Return(mockToken)
	f.mqttClient.On("Unsubscribe", []string{"trackme/control/dev-1"}).Return(mockToken)

	assert.NoError(t, f.service.Start())

	err := f.service.Start()
	assert.Error(t, err)
	assert.Equal(t, "control service is already running", err.Error())

	assert.NoError(t, f.service.Stop())

	err = f.service.Stop()
	assert.Error(t, err)
	assert.Equal(t, "control service is not running", err.Error())
}

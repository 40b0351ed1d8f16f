package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/maximilian-franz/trackme/internal/constants"
	"github.com/maximilian-franz/trackme/internal/models"
	"github.com/maximilian-franz/trackme/internal/utils"
	"github.com/maximilian-franz/trackme/pkg/file"
	"github.com/maximilian-franz/trackme/pkg/gpx"
	"github.com/maximilian-franz/trackme/pkg/identity"
	"github.com/maximilian-franz/trackme/pkg/mqtt"
	"github.com/maximilian-franz/trackme/pkg/track"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/mem"
)

// ControlService listens for remote control commands over MQTT and applies
// them to the track log: clearing the track, exporting it as GPX, or
// reporting recorder status.
type ControlService struct {
	// Configuration fields
	subTopic   string
	qos        int
	exportPath string

	// Dependencies
	deviceInfo identity.DeviceInfoInterface
	mqttClient mqtt.MQTTClient
	fileClient file.FileOperations
	trackLog   *track.TrackLog
	logger     zerolog.Logger

	// Internal state management
	pool      *utils.WorkerPool
	startedAt time.Time
	running   bool
}

// NewControlService initializes a new ControlService with the given parameters.
func NewControlService(subTopic string, qos, workers int, exportPath string, deviceInfo identity.DeviceInfoInterface,
	mqttClient mqtt.MQTTClient, fileClient file.FileOperations, trackLog *track.TrackLog,
	logger zerolog.Logger) *ControlService {
	if workers <= 0 {
		workers = constants.DefaultControlWorkers
	}
	if exportPath == "" {
		exportPath = constants.DefaultExportPath
	}

	return &ControlService{
		subTopic:   subTopic,
		qos:        qos,
		exportPath: exportPath,
		deviceInfo: deviceInfo,
		mqttClient: mqttClient,
		fileClient: fileClient,
		trackLog:   trackLog,
		logger:     logger,
		pool:       utils.NewWorkerPool(workers),
	}
}

// Start subscribes to the control topic and listens for incoming commands.
func (cs *ControlService) Start() error {
	if cs.running {
		cs.logger.Warn().Msg("ControlService is already running")
		return errors.New("control service is already running")
	}

	topic := cs.subTopic + "/" + cs.deviceInfo.GetDeviceID()
	token := cs.mqttClient.Subscribe(topic, byte(cs.qos), cs.HandleControl)
	token.Wait()
	if err := token.Error(); err != nil {
		cs.logger.Error().Err(err).Str("topic", topic).Msg("Failed to subscribe to control topic")
		return err
	}

	cs.startedAt = time.Now()
	cs.running = true
	cs.logger.Info().Str("topic", topic).Msg("ControlService started")
	return nil
}

// Stop unsubscribes from the control topic and drains in-flight commands.
func (cs *ControlService) Stop() error {
	if !cs.running {
		cs.logger.Warn().Msg("ControlService is not running")
		return errors.New("control service is not running")
	}

	topic := cs.subTopic + "/" + cs.deviceInfo.GetDeviceID()
	token := cs.mqttClient.Unsubscribe(topic)
	token.Wait()
	if err := token.Error(); err != nil {
		cs.logger.Error().Err(err).Str("topic", topic).Msg("Failed to unsubscribe from control topic")
		return err
	}

	cs.pool.Shutdown()

	cs.running = false
	cs.logger.Info().Msg("ControlService stopped")
	return nil
}

// HandleControl decodes an incoming control command and hands it to the
// worker pool, so a slow export cannot block the MQTT callback.
func (cs *ControlService) HandleControl(client MQTT.Client, msg MQTT.Message) {
	var request models.ControlRequest
	if err := json.Unmarshal(msg.Payload(), &request); err != nil {
		cs.logger.Error().Err(err).Str("topic", msg.Topic()).Msg("Failed to decode control request")
		return
	}

	cs.logger.Info().
		Str("action", request.Action).
		Str("user_id", request.UserID).
		Msg("Received control request")

	cs.pool.Submit(func() {
		cs.execute(request)
	})
}

// execute applies one control request and publishes the response.
func (cs *ControlService) execute(request models.ControlRequest) {
	response := models.ControlResponse{
		DeviceID: cs.deviceInfo.GetDeviceID(),
		UserID:   request.UserID,
		Action:   request.Action,
		Status:   constants.ControlStatusSuccess,
	}

	var err error
	switch request.Action {
	case constants.ActionClear:
		err = cs.clearTrack()
	case constants.ActionExport:
		response.Detail, err = cs.exportTrack(request.ExportPath)
	case constants.ActionStatus:
		response.Detail, err = cs.statusReport()
	default:
		err = fmt.Errorf("unknown control action: %s", request.Action)
	}

	if err != nil {
		cs.logger.Error().Err(err).Str("action", request.Action).Msg("Control action failed")
		response.Status = constants.ControlStatusFailed
		response.Detail = err.Error()
	}

	cs.publishResponse(response)
}

// clearTrack drops the in-memory sequence and truncates the durable
// mirror. The two steps are deliberately coupled here at the call site.
func (cs *ControlService) clearTrack() error {
	cs.trackLog.Reset()
	return cs.trackLog.Clear()
}

// exportTrack writes a GPX snapshot of the current track and returns the
// path it was written to.
func (cs *ControlService) exportTrack(path string) (string, error) {
	if path == "" {
		path = cs.exportPath
	}

	points := cs.trackLog.Points()
	name := "trackme " + cs.deviceInfo.GetDeviceID()
	if err := gpx.Export(points, name, path, cs.fileClient); err != nil {
		return "", err
	}

	cs.logger.Info().Str("path", path).Int("points", len(points)).Msg("Track exported as GPX")
	return path, nil
}

// statusReport assembles the status payload as a JSON string.
func (cs *ControlService) statusReport() (string, error) {
	report := models.StatusReport{
		DeviceID:       cs.deviceInfo.GetDeviceID(),
		Timestamp:      time.Now(),
		Points:         cs.trackLog.Len(),
		DistanceMeters: cs.trackLog.Distance(),
		UptimeSeconds:  time.Since(cs.startedAt).Seconds(),
	}

	if memStats, err := mem.VirtualMemory(); err == nil {
		report.MemoryPercent = memStats.UsedPercent
	} else {
		cs.logger.Warn().Err(err).Msg("Failed to retrieve memory statistics")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// publishResponse sends the control response to the response topic.
func (cs *ControlService) publishResponse(response models.ControlResponse) {
	payload, err := json.Marshal(response)
	if err != nil {
		cs.logger.Error().Err(err).Msg("Failed to serialize control response")
		return
	}

	topic := cs.subTopic + "/" + cs.deviceInfo.GetDeviceID() + "/response"
	token := cs.mqttClient.Publish(topic, byte(cs.qos), false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		cs.logger.Error().Err(err).Str("topic", topic).Msg("Failed to publish control response")
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/maximilian-franz/trackme/internal/models"
	"github.com/maximilian-franz/trackme/internal/web"
	"github.com/maximilian-franz/trackme/pkg/identity"
	"github.com/maximilian-franz/trackme/pkg/location"
	"github.com/maximilian-franz/trackme/pkg/mqtt"
	"github.com/maximilian-franz/trackme/pkg/track"
	"github.com/rs/zerolog"
)

// RecorderService polls the position provider at a fixed interval, appends
// each fix to the track log and publishes it to the MQTT broker.
type RecorderService struct {
	// Configuration fields
	topic    string
	interval time.Duration
	qos      int

	// Dependencies
	deviceInfo identity.DeviceInfoInterface
	mqttClient mqtt.MQTTClient
	trackLog   *track.TrackLog
	provider   location.Provider
	hub        *web.Hub
	logger     zerolog.Logger

	// Internal state management
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewRecorderService creates a new RecorderService instance with the provided configuration.
func NewRecorderService(topic string, interval time.Duration, qos int, deviceInfo identity.DeviceInfoInterface,
	mqttClient mqtt.MQTTClient, trackLog *track.TrackLog, provider location.Provider, hub *web.Hub,
	logger zerolog.Logger) *RecorderService {
	return &RecorderService{
		topic:      topic,
		interval:   interval,
		qos:        qos,
		deviceInfo: deviceInfo,
		mqttClient: mqttClient,
		trackLog:   trackLog,
		provider:   provider,
		hub:        hub,
		logger:     logger,
		running:    false,
	}
}

// Start initiates the RecorderService, polling the position provider and
// appending each fix to the track log.
func (r *RecorderService) Start() error {
	if r.running {
		r.logger.Warn().Msg("RecorderService is already running")
		return errors.New("recorder service is already running")
	}

	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.running = true

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := r.recordCurrentPosition(); err != nil {
					r.logger.Error().
						Err(err).
						Msg("Failed to record current position")
				}
			case <-r.ctx.Done():
				r.logger.Info().Msg("RecorderService is stopping")
				r.running = false
				return
			}
		}
	}()

	r.logger.Info().
		Str("topic", r.topic).
		Dur("interval", r.interval).
		Int("qos", r.qos).
		Msg("RecorderService started")
	return nil
}

// Stop gracefully stops the RecorderService, ensuring all goroutines are terminated.
func (r *RecorderService) Stop() error {
	if !r.running {
		r.logger.Warn().Msg("RecorderService is not running")
		return errors.New("recorder service is not running")
	}

	r.cancel()
	r.wg.Wait()

	if err := r.provider.Close(); err != nil {
		r.logger.Error().Err(err).Msg("Failed to close position provider")
		return err
	}

	r.running = false
	r.logger.Info().Msg("RecorderService stopped")
	return nil
}

// recordCurrentPosition fetches one fix, appends it to the track log and
// publishes it. A persistence failure is logged but does not suppress the
// publish; the in-memory sequence already holds the point.
func (r *RecorderService) recordCurrentPosition() error {
	loc, err := r.provider.GetLocation()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("Failed to get location from provider")
		return err
	}

	point := track.GeoPoint{Latitude: loc.Latitude, Longitude: loc.Longitude}
	if err := r.trackLog.Append(point); err != nil {
		r.logger.Error().Err(err).Msg("Failed to persist track point")
	}

	if r.hub != nil {
		r.hub.Broadcast(point)
	}

	fix := models.TrackPoint{
		DeviceID:  r.deviceInfo.GetDeviceID(),
		Timestamp: time.Now(),
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Accuracy:  loc.Accuracy,
	}

	payload, err := json.Marshal(fix)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to serialize track point")
		return err
	}

	token := r.mqttClient.Publish(r.topic, byte(r.qos), false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		r.logger.Error().
			Err(err).
			Str("topic", r.topic).
			Msg("Failed to publish track point to MQTT")
		return err
	}

	r.logger.Debug().
		Float64("latitude", loc.Latitude).
		Float64("longitude", loc.Longitude).
		Int("track_length", r.trackLog.Len()).
		Msg("Track point recorded")
	return nil
}

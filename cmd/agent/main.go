package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/maximilian-franz/trackme/internal/service_registry"
	"github.com/maximilian-franz/trackme/internal/utils"
	"github.com/maximilian-franz/trackme/internal/web"
	"github.com/maximilian-franz/trackme/pkg/file"
	"github.com/maximilian-franz/trackme/pkg/identity"
	"github.com/maximilian-franz/trackme/pkg/mqtt"
	"github.com/maximilian-franz/trackme/pkg/track"
	"github.com/rs/zerolog"
)

const hubBufferSize = 16

func main() {
	// Set up structured logging with JSON output
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Initialize file operations handler
	fileClient := file.NewFileService()

	// Load configuration from file
	config, err := utils.LoadConfig("configs/config.yaml", fileClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Generate a unique MQTT Client ID by appending a UUID
	config.MQTT.ClientID = config.MQTT.ClientID + "-" + uuid.New().String()
	log.Info().Str("client_id", config.MQTT.ClientID).Msg("Using MQTT Client ID")

	// Initialize the shared MQTT connection
	mqttClient := mqtt.NewMqttService(fileClient)
	err = mqttClient.Initialize(config.MQTT.Broker, config.MQTT.ClientID, config.MQTT.CACertificate)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize MQTT connection")
	}

	// Initialize DeviceInfo and make sure the device has an ID
	deviceInfo := identity.NewDeviceInfo(config.Identity.DeviceFile, fileClient)
	if err := deviceInfo.LoadDeviceInfo(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load device information")
	}
	deviceID, err := deviceInfo.EnsureDeviceID()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to persist device ID")
	}
	log.Info().Str("device_id", deviceID).Msg("Device identity ready")

	// Restore the track log from its durable mirror
	trackLog := track.NewTrackLog(config.Services.Recorder.TrackFile, fileClient, log)
	restored := trackLog.Restore()
	log.Info().
		Int("points", len(restored.Points)).
		Str("reason", string(restored.Reason)).
		Msg("Track log restored")

	// Hub fans appended points out to live map subscribers
	hub := web.NewHub(hubBufferSize, log)

	// Create a new service registry to manage services
	serviceRegistry := service_registry.NewServiceRegistry(mqttClient, fileClient, trackLog, hub, log)

	// Register all services based on the configuration
	if err := serviceRegistry.RegisterServices(config, deviceInfo); err != nil {
		log.Fatal().Err(err).Msg("Failed to register services")
	}

	// Start all registered services in the registry
	if err := serviceRegistry.StartServices(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start services")
	}
	log.Info().Msg("All services started successfully")

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down gracefully...")
	if err := serviceRegistry.StopServices(); err != nil {
		log.Error().Err(err).Msg("Failed to stop services cleanly")
	}
	mqttClient.Disconnect(250)
}

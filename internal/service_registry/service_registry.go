package service_registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/maximilian-franz/trackme/internal/registry"
	"github.com/maximilian-franz/trackme/internal/services"
	"github.com/maximilian-franz/trackme/internal/utils"
	"github.com/maximilian-franz/trackme/internal/web"
	"github.com/maximilian-franz/trackme/pkg/file"
	"github.com/maximilian-franz/trackme/pkg/identity"
	"github.com/maximilian-franz/trackme/pkg/location"
	"github.com/maximilian-franz/trackme/pkg/mqtt"
	"github.com/maximilian-franz/trackme/pkg/track"
	"github.com/rs/zerolog"
)

// ServiceRegistry manages the lifecycle of the agent's services.
type ServiceRegistry struct {
	services    map[string]registry.Service // Stores registered services
	serviceKeys []string                    // Maintains order of service registration
	mqttClient  mqtt.MQTTClient
	fileClient  file.FileOperations
	trackLog    *track.TrackLog
	hub         *web.Hub
	Logger      zerolog.Logger
}

// NewServiceRegistry initializes a new service registry with dependencies.
func NewServiceRegistry(mqttClient mqtt.MQTTClient, fileClient file.FileOperations, trackLog *track.TrackLog,
	hub *web.Hub, logger zerolog.Logger) *ServiceRegistry {
	return &ServiceRegistry{
		services:   make(map[string]registry.Service),
		mqttClient: mqttClient,
		fileClient: fileClient,
		trackLog:   trackLog,
		hub:        hub,
		Logger:     logger,
	}
}

// RegisterService adds a new service to the registry.
func (sr *ServiceRegistry) RegisterService(name string, svc registry.Service) {
	if _, exists := sr.services[name]; exists {
		sr.Logger.Warn().Msgf("Service %s is already registered", name)
		return
	}
	sr.services[name] = svc
	sr.serviceKeys = append(sr.serviceKeys, name)
	sr.Logger.Info().Msgf("Registered service: %s", name)
}

// StartServices initiates all registered services in order.
// If a service fails to start, it stops already started services.
func (sr *ServiceRegistry) StartServices() error {
	startedServices := []string{}

	for _, name := range sr.serviceKeys {
		svc := sr.services[name]
		sr.Logger.Info().Msgf("Starting service: %s", name)
		if err := svc.Start(); err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to start service: %s", name)

			// Stop already started services before returning
			sr.Logger.Warn().Msg("Stopping already started services due to startup failure...")
			for i := len(startedServices) - 1; i >= 0; i-- {
				_ = sr.services[startedServices[i]].Stop()
			}
			return err
		}
		startedServices = append(startedServices, name)
	}

	return nil
}

// StopServices stops all services in reverse order.
func (sr *ServiceRegistry) StopServices() error {
	var stopErrors []error
	for i := len(sr.serviceKeys) - 1; i >= 0; i-- {
		name := sr.serviceKeys[i]
		if err := sr.services[name].Stop(); err != nil {
			stopErrors = append(stopErrors, fmt.Errorf("failed to stop %s: %w", name, err))
		}
	}
	if len(stopErrors) > 0 {
		for _, e := range stopErrors {
			sr.Logger.Error().Err(e).Msg("Service stop failure")
		}
		return errors.Join(stopErrors...)
	}
	return nil
}

// RegisterServices initializes and registers enabled services based on configuration.
func (sr *ServiceRegistry) RegisterServices(config *utils.Config, deviceInfo identity.DeviceInfoInterface) error {
	// Ordered service definitions with inline constructors
	servicesInOrder := []struct {
		name        string
		enabled     bool
		constructor func() (registry.Service, error)
	}{
		{
			name:    "recorder",
			enabled: config.Services.Recorder.Enabled,
			constructor: func() (registry.Service, error) {
				provider, err := sr.buildProvider(config)
				if err != nil {
					sr.Logger.Error().Err(err).Msg("Failed to create position provider")
					return nil, err
				}
				return services.NewRecorderService(
					config.Services.Recorder.Topic,
					time.Duration(config.Services.Recorder.Interval)*time.Second,
					config.Services.Recorder.QOS,
					deviceInfo,
					sr.mqttClient,
					sr.trackLog,
					provider,
					sr.hub,
					sr.Logger,
				), nil
			},
		},
		{
			name:    "control",
			enabled: config.Services.Control.Enabled,
			constructor: func() (registry.Service, error) {
				return services.NewControlService(
					config.Services.Control.Topic,
					config.Services.Control.QOS,
					config.Services.Control.Workers,
					config.Services.Control.ExportPath,
					deviceInfo,
					sr.mqttClient,
					sr.fileClient,
					sr.trackLog,
					sr.Logger,
				), nil
			},
		},
		{
			name:    "map",
			enabled: config.Services.Map.Enabled,
			constructor: func() (registry.Service, error) {
				return services.NewMapService(
					config.Services.Map.ListenAddress,
					sr.trackLog,
					sr.hub,
					sr.Logger,
				), nil
			},
		},
	}

	// Register services in the predefined order
	registeredServices := []string{}
	for _, svc := range servicesInOrder {
		if svc.enabled {
			serviceInstance, err := svc.constructor()
			if err != nil {
				sr.Logger.Error().Err(err).Msgf("Failed to create %s service", svc.name)
				return err
			}
			sr.RegisterService(svc.name, serviceInstance)
			registeredServices = append(registeredServices, svc.name)
		}
	}

	sr.Logger.Info().Msgf("Registered services in order: %v", registeredServices)
	return nil
}

// buildProvider selects the position provider configured for the recorder.
func (sr *ServiceRegistry) buildProvider(config *utils.Config) (location.Provider, error) {
	cfg := config.Services.Recorder
	switch cfg.Provider {
	case "sensor":
		return location.NewSerialNMEAProvider(
			cfg.GPSDevicePort,
			cfg.GPSDeviceBaudRate,
			time.Duration(cfg.GPSReadTimeout)*time.Second,
		), nil
	case "gpsd":
		return location.NewGPSDProvider(cfg.GPSDAddress)
	case "google":
		return location.NewGoogleGeolocationProvider(cfg.MapsAPIKey)
	default:
		return nil, fmt.Errorf("unknown position provider: %s", cfg.Provider)
	}
}

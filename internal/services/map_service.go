package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maximilian-franz/trackme/internal/web"
	"github.com/maximilian-franz/trackme/pkg/track"
	"github.com/rs/zerolog"
)

// MapService serves the recorded track on a local Leaflet map: the page
// itself, the track as JSON, summary stats and a live SSE stream of newly
// appended points.
type MapService struct {
	// Configuration fields
	listenAddress string

	// Dependencies
	trackLog *track.TrackLog
	hub      *web.Hub
	logger   zerolog.Logger

	// Internal state management
	server  *http.Server
	running bool
}

// NewMapService creates a new MapService listening on listenAddress.
func NewMapService(listenAddress string, trackLog *track.TrackLog, hub *web.Hub, logger zerolog.Logger) *MapService {
	return &MapService{
		listenAddress: listenAddress,
		trackLog:      trackLog,
		hub:           hub,
		logger:        logger,
	}
}

// Start launches the HTTP server in a separate goroutine.
func (m *MapService) Start() error {
	if m.running {
		m.logger.Warn().Msg("MapService is already running")
		return errors.New("map service is already running")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", m.handleIndex)
	router.GET("/api/track", m.handleTrack)
	router.GET("/api/track/stats", m.handleStats)
	router.GET("/api/track/live", m.handleLive)

	m.server = &http.Server{
		Addr:    m.listenAddress,
		Handler: router,
	}

	go func() {
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error().Err(err).Msg("Map server terminated unexpectedly")
		}
	}()

	m.running = true
	m.logger.Info().Str("address", m.listenAddress).Msg("MapService started")
	return nil
}

// Stop shuts the HTTP server down, waiting briefly for open connections.
func (m *MapService) Stop() error {
	if !m.running {
		m.logger.Warn().Msg("MapService is not running")
		return errors.New("map service is not running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.server.Shutdown(ctx); err != nil {
		m.logger.Error().Err(err).Msg("Failed to shut down map server")
		return err
	}

	m.running = false
	m.logger.Info().Msg("MapService stopped")
	return nil
}

// handleIndex serves the embedded Leaflet page.
func (m *MapService) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(mapPageHTML))
}

// handleTrack returns the current in-memory sequence as a JSON array.
func (m *MapService) handleTrack(c *gin.Context) {
	c.JSON(http.StatusOK, m.trackLog.Points())
}

// handleStats returns point count, cumulative distance and bounding box.
func (m *MapService) handleStats(c *gin.Context) {
	stats := gin.H{
		"points":          m.trackLog.Len(),
		"distance_meters": m.trackLog.Distance(),
	}
	if bounds, ok := m.trackLog.Bounds(); ok {
		stats["bounds"] = bounds
	}

	c.JSON(http.StatusOK, stats)
}

// handleLive streams appended points as server-sent events until the
// client disconnects.
func (m *MapService) handleLive(c *gin.Context) {
	id, points := m.hub.Subscribe()
	defer m.hub.Unsubscribe(id)

	c.Stream(func(w io.Writer) bool {
		select {
		case p := <-points:
			c.SSEvent("point", p)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

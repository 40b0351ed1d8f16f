package web

import (
	"github.com/google/uuid"
	"github.com/maximilian-franz/trackme/pkg/track"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"
)

// Hub fans appended track points out to live map subscribers. Subscriber
// channels are buffered; a subscriber that falls behind misses points
// rather than blocking the recorder.
type Hub struct {
	subscribers cmap.ConcurrentMap[string, chan track.GeoPoint]
	buffer      int
	logger      zerolog.Logger
}

// NewHub creates a Hub whose subscriber channels buffer up to buffer points.
func NewHub(buffer int, logger zerolog.Logger) *Hub {
	return &Hub{
		subscribers: cmap.New[chan track.GeoPoint](),
		buffer:      buffer,
		logger:      logger,
	}
}

// Subscribe registers a new subscriber and returns its ID along with the
// channel points will arrive on.
func (h *Hub) Subscribe() (string, <-chan track.GeoPoint) {
	id := uuid.New().String()
	ch := make(chan track.GeoPoint, h.buffer)
	h.subscribers.Set(id, ch)

	h.logger.Debug().Str("subscriber", id).Msg("Live track subscriber registered")
	return id, ch
}

// Unsubscribe removes a subscriber. The channel is left open for the
// garbage collector; closing it here could race with an in-flight
// Broadcast.
func (h *Hub) Unsubscribe(id string) {
	h.subscribers.Remove(id)
	h.logger.Debug().Str("subscriber", id).Msg("Live track subscriber removed")
}

// Broadcast delivers a point to every subscriber without blocking.
func (h *Hub) Broadcast(p track.GeoPoint) {
	h.subscribers.IterCb(func(id string, ch chan track.GeoPoint) {
		select {
		case ch <- p:
		default:
			h.logger.Debug().Str("subscriber", id).Msg("Subscriber buffer full, dropping point")
		}
	})
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	return h.subscribers.Count()
}

package web_test

import (
	"testing"
	"time"

	"github.com/maximilian-franz/trackme/internal/web"
	"github.com/maximilian-franz/trackme/pkg/track"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// TestHub_BroadcastReachesSubscribers verifies fan-out to every subscriber.
func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	hub := web.NewHub(4, zerolog.Nop())

	_, first := hub.Subscribe()
	_, second := hub.Subscribe()
	assert.Equal(t, 2, hub.Count())

	point := track.GeoPoint{Latitude: 1, Longitude: 2}
	hub.Broadcast(point)

	for _, ch := range []<-chan track.GeoPoint{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, point, got)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the broadcast point")
		}
	}
}

// TestHub_UnsubscribeRemovesSubscriber verifies removed subscribers no
// longer count and receive nothing.
func TestHub_UnsubscribeRemovesSubscriber(t *testing.T) {
	hub := web.NewHub(4, zerolog.Nop())

	id, ch := hub.Subscribe()
	hub.Unsubscribe(id)
	assert.Equal(t, 0, hub.Count())

	hub.Broadcast(track.GeoPoint{Latitude: 1, Longitude: 1})

	select {
	case <-ch:
		t.Fatal("unsubscribed channel received a point")
	case <-time.After(50 * time.Millisecond):
	}
}

// TestHub_SlowSubscriberDoesNotBlock verifies a full subscriber buffer
// drops points instead of stalling the broadcaster.
func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := web.NewHub(1, zerolog.Nop())

	_, ch := hub.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Broadcast(track.GeoPoint{Latitude: float64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow subscriber")
	}

	// The buffer held exactly one point, the first one
	got := <-ch
	assert.Equal(t, track.GeoPoint{Latitude: 0}, got)
}

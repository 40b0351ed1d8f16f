package location

import (
	"context"
	"time"

	"googlemaps.github.io/maps"
)

// GoogleGeolocationProvider uses the Google Maps Geolocation API to get
// location data when no GPS hardware is available.
type GoogleGeolocationProvider struct {
	client *maps.Client
}

// NewGoogleGeolocationProvider creates a new GoogleGeolocationProvider instance.
func NewGoogleGeolocationProvider(apiKey string) (*GoogleGeolocationProvider, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &GoogleGeolocationProvider{
		client: c,
	}, nil
}

// GetLocation resolves the device's location from nearby WiFi access
// points, falling back to IP-based positioning when no scan data is
// available.
func (g *GoogleGeolocationProvider) GetLocation() (Location, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// A failed WiFi scan is not fatal, ConsiderIP still yields a coarse fix
	wifiAPs, err := getWiFiAccessPoints(ctx)
	if err != nil {
		wifiAPs = nil
	}

	req := &maps.GeolocationRequest{
		ConsiderIP:       true,
		WiFiAccessPoints: wifiAPs,
	}

	resp, err := g.client.Geolocate(ctx, req)
	if err != nil {
		return Location{}, err
	}

	return Location{
		Latitude:  resp.Location.Lat,
		Longitude: resp.Location.Lng,
		Accuracy:  resp.Accuracy,
	}, nil
}

// Close releases the provider. The maps client holds no connection state.
func (g *GoogleGeolocationProvider) Close() error {
	return nil
}

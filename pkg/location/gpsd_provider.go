package location

import (
	"errors"
	"math"
	"sync"

	"github.com/stratoberry/go-gpsd"
)

// GPSDProvider retrieves location data from a local gpsd daemon. It keeps
// a watch session open and hands out the most recent TPV fix.
type GPSDProvider struct {
	session *gpsd.Session

	mu  sync.RWMutex
	fix *Location
}

// NewGPSDProvider connects to the gpsd daemon at address (host:port) and
// starts watching for position reports.
func NewGPSDProvider(address string) (*GPSDProvider, error) {
	session, err := gpsd.Dial(address)
	if err != nil {
		return nil, err
	}

	p := &GPSDProvider{session: session}
	session.AddFilter("TPV", p.handleTPV)
	session.Watch()

	return p, nil
}

// handleTPV stores the latest usable fix. Reports without at least a 2D
// fix are ignored.
func (p *GPSDProvider) handleTPV(r interface{}) {
	tpv, ok := r.(*gpsd.TPVReport)
	if !ok {
		return
	}
	if tpv.Mode < gpsd.Mode2D {
		return
	}

	p.mu.Lock()
	p.fix = &Location{
		Latitude:  tpv.Lat,
		Longitude: tpv.Lon,
		Accuracy:  math.Max(tpv.Epx, tpv.Epy),
	}
	p.mu.Unlock()
}

// GetLocation returns the most recent fix received from gpsd.
func (p *GPSDProvider) GetLocation() (Location, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.fix == nil {
		return Location{}, errors.New("no GPS fix received from gpsd yet")
	}
	return *p.fix, nil
}

// Close shuts down the gpsd watch session.
func (p *GPSDProvider) Close() error {
	return p.session.Close()
}

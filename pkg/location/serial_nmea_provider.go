package location

import (
	"bufio"
	"errors"
	"strings"
	"time"

	"github.com/adrianmo/go-nmea"
	"github.com/tarm/serial"
)

// SerialNMEAProvider retrieves location data from a GPS receiver connected
// via a serial port, reading NMEA sentences until a usable fix appears.
type SerialNMEAProvider struct {
	port        string
	baudRate    int
	readTimeout time.Duration
}

// NewSerialNMEAProvider creates a SerialNMEAProvider for the given port and
// baud rate.
func NewSerialNMEAProvider(port string, baudRate int, readTimeout time.Duration) *SerialNMEAProvider {
	return &SerialNMEAProvider{
		port:        port,
		baudRate:    baudRate,
		readTimeout: readTimeout,
	}
}

// GetLocation reads NMEA sentences from the receiver and returns the first
// GGA or RMC fix it finds.
func (d *SerialNMEAProvider) GetLocation() (Location, error) {
	c := &serial.Config{Name: d.port, Baud: d.baudRate, ReadTimeout: d.readTimeout}
	s, err := serial.OpenPort(c)
	if err != nil {
		return Location{}, err
	}
	defer s.Close()

	scanner := bufio.NewScanner(s)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			// Garbled sentences are common on serial GPS, keep reading
			continue
		}

		switch msg := sentence.(type) {
		case nmea.GGA:
			if msg.FixQuality == nmea.Invalid {
				continue
			}
			return Location{
				Latitude:  msg.Latitude,
				Longitude: msg.Longitude,
				Accuracy:  float64(msg.HDOP), // HDOP as a proxy for accuracy
			}, nil
		case nmea.RMC:
			if msg.Validity != nmea.ValidRMC {
				continue
			}
			return Location{
				Latitude:  msg.Latitude,
				Longitude: msg.Longitude,
			}, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return Location{}, err
	}

	return Location{}, errors.New("no valid GPS data found")
}

// Close releases the provider. The serial port is opened per read, so
// there is nothing to release here.
func (d *SerialNMEAProvider) Close() error {
	return nil
}

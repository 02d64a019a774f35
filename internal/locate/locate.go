// Package locate geocodes free-text addresses and points the globe camera at them.
package locate

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/i474232898/weather-timelapse/internal/viewer"
)

const (
	// Tilt is the camera tilt in degrees.
	Tilt = 60.0
	// Range is the camera distance in meters.
	Range = 100 * 1000.0

	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

// ErrGeocodeFailed wraps every unsuccessful lookup.
var ErrGeocodeFailed = errors.New("geocode failed")

// Result is one geocoding match.
type Result struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formattedAddress,omitempty"`
}

// Geocoder resolves an address to candidate locations, best match first.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]Result, error)
}

// StatusError carries the geocoding service's status code.
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return e.Status
}

// Fields is the part of the page the locator writes to.
type Fields interface {
	SetCoordinates(lat, lng float64)
	Alert(msg string)
}

// Locator moves the globe camera to geocoded addresses.
type Locator struct {
	geocoder Geocoder
	globe    viewer.Viewer
	page     Fields
}

func NewLocator(geocoder Geocoder, globe viewer.Viewer, page Fields) *Locator {
	return &Locator{geocoder: geocoder, globe: globe, page: page}
}

// Locate geocodes address and looks at the first match. Failures are alerted
// on the page and returned wrapped in ErrGeocodeFailed.
func (l *Locator) Locate(ctx context.Context, address string) (Result, error) {
	results, err := l.geocoder.Geocode(ctx, address)
	if err == nil && len(results) == 0 {
		err = &StatusError{Status: StatusZeroResults}
	}
	if err != nil {
		status := statusOf(err)
		log.Printf("INFO: locate: %q: %v", address, err)
		l.page.Alert("Geocode failed: " + status)
		return Result{}, fmt.Errorf("%w: %s", ErrGeocodeFailed, status)
	}

	first := results[0]
	l.page.SetCoordinates(first.Latitude, first.Longitude)
	l.globe.SetAbstractView(viewer.LookAt{
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
		Tilt:      Tilt,
		Range:     Range,
	})
	return first, nil
}

func statusOf(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return err.Error()
}

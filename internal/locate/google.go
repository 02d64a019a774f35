package locate

import (
	"context"

	"github.com/kelvins/geocoder"
)

// statusByMessage maps the geocoder package's error texts back to the
// service status they stand for. REQUEST_DENIED and INVALID_REQUEST carry the
// service's own error message and are passed through.
var statusByMessage = map[string]string{
	"No results found.":                StatusZeroResults,
	"You are over your quota.":         StatusOverQueryLimit,
	"Server error. Please, try again.": StatusUnknownError,
}

func statusFromError(err error) string {
	if status, ok := statusByMessage[err.Error()]; ok {
		return status
	}
	return err.Error()
}

// GoogleGeocoder uses the Google Geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder sets the process-wide API key used by the geocoder package.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

// Geocode looks up address. The geocoder package returns a single location
// per query, so the result has at most one entry.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type lookup struct {
		loc geocoder.Location
		err error
	}
	// geocoder.Geocoding uses a client without a timeout and takes no context,
	// so a hung request outlives ctx; the buffered channel lets it finish.
	done := make(chan lookup, 1)
	go func() {
		loc, err := geocoder.Geocoding(geocoder.Address{Street: address})
		done <- lookup{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, &StatusError{Status: statusFromError(res.err)}
		}
		return []Result{{
			Latitude:         res.loc.Latitude,
			Longitude:        res.loc.Longitude,
			FormattedAddress: address,
		}}, nil
	}
}

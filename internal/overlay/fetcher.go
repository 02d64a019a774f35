// Package overlay fetches the per-hour station overlay documents.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/i474232898/weather-timelapse/internal/kml"
	"github.com/i474232898/weather-timelapse/internal/resilience"
)

// ErrEmptyOverlay is returned when the endpoint answers with nothing to display.
var ErrEmptyOverlay = errors.New("overlay is empty")

const maxOverlayBytes = 32 << 20

// Fetcher loads KML overlays over HTTP. A failed fetch is not retried.
type Fetcher struct {
	client resilience.Client
}

// NewFetcher creates a Fetcher on top of the shared HTTP client.
func NewFetcher(httpClient *http.Client) *Fetcher {
	return &Fetcher{
		client: resilience.Client{
			HTTP:    httpClient,
			Breaker: resilience.NewBreaker("overlay"),
		},
	}
}

// URL builds the overlay address for dateHour relative to the page URL.
func URL(pageURL, dateHour string) string {
	return pageURL + "samples.kml?" + url.Values{"date": {dateHour}}.Encode()
}

// Fetch downloads and parses the overlay at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*kml.KML, error) {
	resp, err := f.client.Do(ctx, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, rawURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch overlay: %w", err)
	}
	defer resp.Body.Close()

	doc, err := kml.Decode(io.LimitReader(resp.Body, maxOverlayBytes))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyOverlay
		}
		return nil, err
	}
	if doc.Empty() {
		return nil, ErrEmptyOverlay
	}
	return doc, nil
}

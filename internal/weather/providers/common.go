package providers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/i474232898/weather-timelapse/internal/resilience"
)

// providerBackoff is shared by every current-weather provider.
var providerBackoff = resilience.Backoff{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

func newClient(client *http.Client, name string) resilience.Client {
	return resilience.Client{
		HTTP:    client,
		Breaker: resilience.NewBreaker(name),
		Backoff: providerBackoff,
	}
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

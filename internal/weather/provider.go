package weather

import (
	"context"
	"time"
)

// ProviderReading represents a single provider's normalized reading
// that can be aggregated into a Sample.
type ProviderReading struct {
	ProviderName string
	Timestamp    time.Time

	TemperatureC float64
	WindSpeedMS  float64
	PressureHpa  float64
	Condition    Condition
}

// Provider abstracts a current-weather source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, station Station) (ProviderReading, error)
}

// Store keeps at most one sample per station per hour: the first valid one,
// or the first one seen while none is valid.
type Store interface {
	// SaveSample stores s unless its station already has a sample for that
	// hour that s does not replace.
	SaveSample(s Sample) bool
	SamplesAt(hour time.Time) []Sample
	StationHistory(stationID string, from, to time.Time) ([]Sample, error)
}

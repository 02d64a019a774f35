package weather

import (
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// QualityValid marks a measurement that passed quality control.
const QualityValid = "1"

// Station is a fixed observation site.
type Station struct {
	ID        string  `json:"id" yaml:"id" validate:"required"`
	Name      string  `json:"name,omitempty" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"gte=-180,lte=180"`
}

// Position returns the station coordinates.
func (s Station) Position() *Position {
	return &Position{Longitude: s.Longitude, Latitude: s.Latitude}
}

// Position is a point on the globe. Samples with an unknown position carry nil.
type Position struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Measurement is a value with its quality flag.
type Measurement struct {
	Value   float64 `json:"value"`
	Quality string  `json:"quality"`
}

// Valid reports whether the measurement passed quality control.
func (m Measurement) Valid() bool {
	return m.Quality == QualityValid
}

// Sample is one station's observation for one hour.
type Sample struct {
	StationID      string      `json:"stationId"`
	Position       *Position   `json:"position,omitempty"`
	Hour           time.Time   `json:"hour"` // always UTC, truncated to the hour
	AirTemperature Measurement `json:"airTemperature"`
	WindSpeed      float64     `json:"windSpeed,omitempty"`
	Pressure       float64     `json:"pressureHpa,omitempty"`
	Condition      Condition   `json:"condition,omitempty"`

	// Providers contributing to this sample.
	Providers []ProviderContribution `json:"providers,omitempty"`
}

// Replaces reports whether s should take the place of old as its station's
// sample for the hour. Only a valid reading displaces an invalid one.
func (s Sample) Replaces(old Sample) bool {
	return s.AirTemperature.Valid() && !old.AirTemperature.Valid()
}

// ProviderContribution describes data coming from a single provider used in aggregation.
type ProviderContribution struct {
	ProviderName string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"`
}

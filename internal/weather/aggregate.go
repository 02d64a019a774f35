package weather

import (
	"time"

	"github.com/i474232898/weather-timelapse/internal/datehour"
)

// AggregateReadings combines provider readings into one sample for station.
// Numeric fields are averaged; the condition is picked by majority. The sample
// hour is the newest reading's hour, or now's when no reading has a timestamp.
func AggregateReadings(station Station, readings []ProviderReading, now time.Time) Sample {
	sample := Sample{
		StationID: station.ID,
		Position:  station.Position(),
		Hour:      datehour.Truncate(now),
		Condition: ConditionUnknown,
	}
	if len(readings) == 0 {
		return sample
	}

	var sumTemp, sumWind, sumPressure float64
	conditionCounts := make(map[Condition]int)
	providers := make([]ProviderContribution, 0, len(readings))
	var newestTS time.Time

	for _, r := range readings {
		sumTemp += r.TemperatureC
		sumWind += r.WindSpeedMS
		sumPressure += r.PressureHpa
		conditionCounts[r.Condition]++

		if r.Timestamp.After(newestTS) {
			newestTS = r.Timestamp
		}
		providers = append(providers, ProviderContribution{
			ProviderName: r.ProviderName,
			Timestamp:    r.Timestamp,
		})
	}

	n := float64(len(readings))

	bestCond := ConditionUnknown
	bestCount := 0
	for cond, count := range conditionCounts {
		if count > bestCount || (count == bestCount && cond < bestCond) {
			bestCount = count
			bestCond = cond
		}
	}

	if !newestTS.IsZero() {
		sample.Hour = datehour.Truncate(newestTS)
	}
	sample.AirTemperature = Measurement{Value: sumTemp / n, Quality: QualityValid}
	sample.WindSpeed = sumWind / n
	sample.Pressure = sumPressure / n
	sample.Condition = bestCond
	sample.Providers = providers
	return sample
}

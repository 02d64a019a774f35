package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-timelapse/internal/weather"
)

var chicago = weather.Station{ID: "725300", Latitude: 41.98, Longitude: -87.9}

func serve(t *testing.T, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenMeteoProvider_Fetch(t *testing.T) {
	srv := serve(t, `{"current_weather":{"temperature":12.5,"windspeed":36,"time":"2024-02-29T13:00","weathercode":61}}`,
		func(r *http.Request) {
			assert.Equal(t, "41.9800", r.URL.Query().Get("latitude"))
			assert.Equal(t, "-87.9000", r.URL.Query().Get("longitude"))
		})

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL

	r, err := p.Fetch(context.Background(), chicago)
	require.NoError(t, err)
	assert.Equal(t, "openmeteo", r.ProviderName)
	assert.Equal(t, 12.5, r.TemperatureC)
	assert.InDelta(t, 10.0, r.WindSpeedMS, 1e-9)
	assert.Equal(t, weather.ConditionRain, r.Condition)
	assert.Equal(t, time.Date(2024, time.February, 29, 13, 0, 0, 0, time.UTC), r.Timestamp)
}

func TestOpenWeatherProvider_Fetch(t *testing.T) {
	srv := serve(t, `{"dt":1700000000,"main":{"temp":-1.5,"pressure":1012},"wind":{"speed":3},"weather":[{"main":"Snow"}]}`,
		func(r *http.Request) {
			assert.Equal(t, "key", r.URL.Query().Get("appid"))
			assert.Equal(t, "41.9800", r.URL.Query().Get("lat"))
		})

	p := NewOpenWeatherProvider(srv.Client(), "key")
	p.baseURL = srv.URL

	r, err := p.Fetch(context.Background(), chicago)
	require.NoError(t, err)
	assert.Equal(t, -1.5, r.TemperatureC)
	assert.Equal(t, 1012.0, r.PressureHpa)
	assert.Equal(t, weather.ConditionSnow, r.Condition)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), r.Timestamp)

	_, err = NewOpenWeatherProvider(srv.Client(), "").Fetch(context.Background(), chicago)
	assert.Error(t, err)
}

func TestWeatherAPIProvider_Fetch(t *testing.T) {
	srv := serve(t, `{"current":{"last_updated_epoch":1700000000,"temp_c":20,"wind_kph":18,"pressure_mb":1001,"condition":{"text":"Patchy light drizzle"}}}`,
		func(r *http.Request) {
			assert.Equal(t, "41.9800,-87.9000", r.URL.Query().Get("q"))
		})

	p := NewWeatherAPIProvider(srv.Client(), "key")
	p.baseURL = srv.URL

	r, err := p.Fetch(context.Background(), chicago)
	require.NoError(t, err)
	assert.Equal(t, 20.0, r.TemperatureC)
	assert.InDelta(t, 5.0, r.WindSpeedMS, 1e-9)
	assert.Equal(t, weather.ConditionRain, r.Condition)
}

func TestConditionMapping(t *testing.T) {
	assert.Equal(t, weather.ConditionStorm, mapWeatherAPICondition("Thundery outbreaks possible"))
	assert.Equal(t, weather.ConditionMist, mapWeatherAPICondition("Freezing fog"))
	assert.Equal(t, weather.ConditionCloudy, mapWeatherAPICondition("Overcast"))
	assert.Equal(t, weather.ConditionMist, mapOpenMeteoCondition(45))
	assert.Equal(t, weather.ConditionUnknown, mapOpenWeatherCondition("Tornado"))
}

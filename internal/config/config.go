package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-timelapse/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string

	// PageURL is where the overlays are served from; it must end in "/".
	PageURL string

	// TimelapseDelay is the pause between two hours of a run.
	TimelapseDelay time.Duration

	// FetchInterval controls how often stations are sampled.
	FetchInterval time.Duration

	HTTPTimeout time.Duration

	// Stations to sample.
	Stations []weather.Station

	// StoreMaxHours bounds the hourly buckets held in memory.
	StoreMaxHours int

	// OverlayIconHref is the image draped over the globe in every overlay.
	OverlayIconHref string

	Port string
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GOOGLE_GEOCODING_API_KEY")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.OverlayIconHref = os.Getenv("OVERLAY_ICON_HREF")

	cfg.PageURL = getenvDefault("PAGE_URL", "http://localhost:"+cfg.Port+"/")
	if !strings.HasSuffix(cfg.PageURL, "/") {
		cfg.PageURL += "/"
	}

	var err error
	if cfg.TimelapseDelay, err = getenvDuration("TIMELAPSE_DELAY", "1s"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.StoreMaxHours = getenvInt("STORE_MAX_HOURS", 24*366)

	if path := os.Getenv("STATIONS_FILE"); path != "" {
		stations, err := LoadStations(path)
		if err != nil {
			return nil, err
		}
		cfg.Stations = stations
	}

	return cfg, nil
}

type stationsFile struct {
	Stations []weather.Station `yaml:"stations" validate:"dive"`
}

// LoadStations reads and validates a YAML station list.
func LoadStations(path string) ([]weather.Station, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stations file: %w", err)
	}
	return ParseStations(data)
}

// ParseStations decodes a YAML document of the form
//
//	stations:
//	  - id: "725300"
//	    name: Chicago O'Hare
//	    latitude: 41.98
//	    longitude: -87.9
func ParseStations(data []byte) ([]weather.Station, error) {
	var f stationsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse stations file: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid stations file: %w", err)
	}

	seen := make(map[string]bool, len(f.Stations))
	for _, st := range f.Stations {
		if seen[st.ID] {
			return nil, fmt.Errorf("invalid stations file: duplicate station %q", st.ID)
		}
		seen[st.ID] = true
	}
	return f.Stations, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/i474232898/weather-timelapse/internal/kml"
)

// ErrNoProviders is returned when sampling is attempted without providers.
var ErrNoProviders = errors.New("no weather providers configured")

// OverlayName is the KML document name of an hourly overlay.
const OverlayName = "stations"

// Service orchestrates sampling stations through providers and rendering
// stored samples as overlays.
type Service struct {
	store     Store
	providers []Provider
	now       func() time.Time
}

// NewService creates a new Service.
func NewService(store Store, providers []Provider) *Service {
	return &Service{
		store:     store,
		providers: providers,
		now:       time.Now,
	}
}

// FetchAndStore fetches data from all providers concurrently for the given station,
// aggregates successful readings, and stores a sample for the reading hour.
func (s *Service) FetchAndStore(ctx context.Context, station Station) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings []ProviderReading
	)

	if len(s.providers) == 0 {
		log.Printf("ERROR: No providers available to sample station %s", station.ID)
		return ErrNoProviders
	}

	for _, p := range s.providers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := p.Fetch(ctx, station)
			if err != nil {
				// Partial success is fine; the remaining providers still count.
				log.Printf("provider %s fetch failed for station %s: %v", p.Name(), station.ID, err)
				return
			}

			mu.Lock()
			readings = append(readings, r)
			mu.Unlock()
		}()
	}

	wg.Wait()

	if len(readings) == 0 {
		log.Printf("no successful provider readings for station %s; nothing stored", station.ID)
		return nil
	}

	sample := AggregateReadings(station, readings, s.now())
	if !s.store.SaveSample(sample) {
		log.Printf("DEBUG: station %s already sampled for %s", station.ID, sample.Hour.Format(time.RFC3339))
	}
	return nil
}

// Import stores externally collected samples, normalizing their hour.
// It returns how many were new.
func (s *Service) Import(samples []Sample) int {
	stored := 0
	for _, sample := range samples {
		sample.Hour = sample.Hour.UTC().Truncate(time.Hour)
		if s.store.SaveSample(sample) {
			stored++
		}
	}
	return stored
}

// Overlay renders the valid samples of hour as a KML document: one placemark
// per station, ordered by station ID, plus a world ground overlay when
// iconHref is set.
func (s *Service) Overlay(hour time.Time, iconHref string) *kml.KML {
	samples := lo.Filter(s.store.SamplesAt(hour), func(sample Sample, _ int) bool {
		return sample.AirTemperature.Valid()
	})
	sort.Slice(samples, func(i, j int) bool { return samples[i].StationID < samples[j].StationID })

	doc := &kml.Document{
		Name:       OverlayName,
		Placemarks: lo.Map(samples, func(sample Sample, _ int) kml.Placemark { return placemark(sample) }),
	}
	if iconHref != "" {
		doc.GroundOverlays = []kml.GroundOverlay{{
			Icon:      &kml.Icon{Href: iconHref},
			LatLonBox: kml.WorldBox(),
		}}
	}
	return &kml.KML{Xmlns: kml.Namespace, Document: doc}
}

// StationHistory delegates to the underlying store.
func (s *Service) StationHistory(stationID string, from, to time.Time) ([]Sample, error) {
	return s.store.StationHistory(stationID, from, to)
}

func placemark(sample Sample) kml.Placemark {
	pm := kml.Placemark{
		ID:          sample.StationID,
		Name:        sample.StationID,
		Description: fmt.Sprintf("%.1f °C", sample.AirTemperature.Value),
	}
	if sample.Position != nil {
		pm.Point = kml.NewPoint(sample.Position.Longitude, sample.Position.Latitude)
	}
	return pm
}

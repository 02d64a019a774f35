package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-timelapse/internal/weather"
)

// DefaultInterval is used when the configured interval is not positive.
const DefaultInterval = 15 * time.Minute

// Sampler stores one sample for a station.
type Sampler interface {
	FetchAndStore(ctx context.Context, station weather.Station) error
}

// Scheduler periodically samples current weather for the configured stations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sampler   Sampler
	stations  []weather.Station
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler.
func New(stations []weather.Station, interval time.Duration, sampler Sampler) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		sampler:   sampler,
		stations:  stations,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the sampling job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.stations) == 0 {
		log.Println("scheduler: no stations configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce samples every station concurrently and waits for all of them.
func (s *Scheduler) RunOnce() {
	log.Println("scheduler: running station sampling job")

	var wg sync.WaitGroup
	for _, st := range s.stations {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			if err := s.sampler.FetchAndStore(ctx, st); err != nil {
				log.Printf("scheduler: sampling failed for station %s: %v", st.ID, err)
			}
		}()
	}
	wg.Wait()
	log.Println("scheduler: completed station sampling job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/i474232898/weather-timelapse/internal/weather"
)

var (
	// ErrNotFound is returned when no samples match a station query.
	ErrNotFound = errors.New("no samples for station")
)

// DefaultMaxHours keeps one year of hourly buckets.
const DefaultMaxHours = 24 * 366

// hourBucket holds the samples of one hour, keyed by station ID.
type hourBucket struct {
	samples map[string]weather.Sample
}

// MemoryStore is a concurrency-safe in-memory sample store. Hours are kept in
// an LRU so the least recently written or read hour is evicted first.
type MemoryStore struct {
	mu    sync.RWMutex
	hours *lru.Cache[int64, *hourBucket]
}

// NewMemoryStore creates a store keeping at most maxHours hourly buckets.
// If maxHours is <= 0, DefaultMaxHours is used.
func NewMemoryStore(maxHours int) *MemoryStore {
	if maxHours <= 0 {
		maxHours = DefaultMaxHours
	}
	cache, err := lru.New[int64, *hourBucket](maxHours)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &MemoryStore{hours: cache}
}

func hourKey(t time.Time) int64 {
	return t.UTC().Truncate(time.Hour).Unix()
}

// SaveSample stores s unless its station already has a sample for the hour.
// An invalid stored sample gives way to the first valid one.
func (s *MemoryStore) SaveSample(sample weather.Sample) bool {
	key := hourKey(sample.Hour)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.hours.Get(key)
	if !ok {
		bucket = &hourBucket{samples: make(map[string]weather.Sample)}
		s.hours.Add(key, bucket)
	}
	if old, exists := bucket.samples[sample.StationID]; exists && !sample.Replaces(old) {
		return false
	}
	bucket.samples[sample.StationID] = sample
	return true
}

// SamplesAt returns the samples of the hour containing hour, in no particular order.
func (s *MemoryStore) SamplesAt(hour time.Time) []weather.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.hours.Get(hourKey(hour))
	if !ok {
		return nil
	}
	out := make([]weather.Sample, 0, len(bucket.samples))
	for _, sample := range bucket.samples {
		out = append(out, sample)
	}
	return out
}

// StationHistory returns a station's samples between from and to (inclusive),
// oldest first.
func (s *MemoryStore) StationHistory(stationID string, from, to time.Time) ([]weather.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.Sample
	for _, key := range s.hours.Keys() {
		bucket, ok := s.hours.Peek(key)
		if !ok {
			continue
		}
		sample, ok := bucket.samples[stationID]
		if !ok {
			continue
		}
		if sample.Hour.Before(from) || sample.Hour.After(to) {
			continue
		}
		result = append(result, sample)
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Hour.Before(result[j].Hour) })
	return result, nil
}

// Len returns the number of hours currently held.
func (s *MemoryStore) Len() int {
	return s.hours.Len()
}

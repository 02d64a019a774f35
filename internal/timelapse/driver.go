// Package timelapse steps station overlays forward one hour at a time.
//
// Each Start begins a run that fetches the overlay for its date-hour, swaps it
// into the globe, waits a fixed delay and moves on to the next hour. Start and
// Stop advance a shared generation token; a run whose token is no longer live
// finishes the fetch it has in flight, displays it, and then ends.
package timelapse

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-timelapse/internal/datehour"
	"github.com/i474232898/weather-timelapse/internal/kml"
	"github.com/i474232898/weather-timelapse/internal/overlay"
	"github.com/i474232898/weather-timelapse/internal/viewer"
)

// DefaultDelay is the pause between two hours of a run.
const DefaultDelay = time.Second

const (
	InvalidDateMessage = "Try a date formatted like '" + datehour.Example + "'"
	FetchFailedMessage = "Error fetching historical data"
)

// ErrInvalidDateHour is returned by Start for malformed input.
var ErrInvalidDateHour = errors.New("invalid date-hour")

// Fetcher loads the overlay document at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*kml.KML, error)
}

// Display is the page surface a run writes to.
type Display interface {
	SetDate(label string)
	Alert(msg string)
}

// Config tunes a Driver. After and Defer exist so tests can control time.
type Config struct {
	// PageURL is the page location overlays are resolved against, e.g. "http://host/".
	PageURL string
	Delay   time.Duration
	// After defaults to time.After.
	After func(time.Duration) <-chan time.Time
	// Defer runs f shortly after the current step; defaults to time.AfterFunc(0, f).
	Defer func(f func())
}

// Status describes the newest run.
type Status struct {
	Token     int64  `json:"token"`
	State     State  `json:"state"`
	RunID     string `json:"runId,omitempty"`
	DateHour  string `json:"dateHour,omitempty"`
	OverlayID string `json:"overlayId,omitempty"`
}

// Session is the state shared by the runs of one page: the token, the
// overlay currently attached to the globe and the newest run.
type Session struct {
	mu       sync.Mutex
	tokens   Generation
	previous *viewer.Feature
	latest   *run
}

type run struct {
	id       string
	token    int64
	start    string
	ctx      context.Context
	cancel   context.CancelFunc
	state    State
	dateHour string
}

// Driver starts and stops runs for one session.
type Driver struct {
	ctx     context.Context
	fetcher Fetcher
	globe   viewer.Viewer
	page    Display
	cfg     Config
	session Session
	wg      sync.WaitGroup
}

// NewDriver creates a Driver. Runs end when ctx is done.
func NewDriver(ctx context.Context, cfg Config, fetcher Fetcher, globe viewer.Viewer, page Display) *Driver {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.After == nil {
		cfg.After = time.After
	}
	if cfg.Defer == nil {
		cfg.Defer = func(f func()) { time.AfterFunc(0, f) }
	}
	return &Driver{
		ctx:     ctx,
		fetcher: fetcher,
		globe:   globe,
		page:    page,
		cfg:     cfg,
	}
}

// Start invalidates any current run and, if dateHour is well formed, begins a
// new run at that hour.
func (d *Driver) Start(dateHour string) error {
	s := &d.session
	s.mu.Lock()
	token := d.supersedeLocked()
	if !datehour.IsValid(dateHour) {
		s.mu.Unlock()
		d.page.Alert(InvalidDateMessage)
		return fmt.Errorf("%w: %q", ErrInvalidDateHour, dateHour)
	}

	ctx, cancel := context.WithCancel(d.ctx)
	r := &run{
		id:       uuid.NewString(),
		token:    token,
		start:    dateHour,
		ctx:      ctx,
		cancel:   cancel,
		state:    StateIdle,
		dateHour: dateHour,
	}
	s.latest = r
	s.mu.Unlock()

	log.Printf("INFO: timelapse: run %s starting at %s (token %d)", r.id, dateHour, token)
	d.wg.Add(1)
	go d.loop(r)
	return nil
}

// Stop invalidates the current run. A fetch already in flight still completes.
func (d *Driver) Stop() {
	s := &d.session
	s.mu.Lock()
	token := d.supersedeLocked()
	s.mu.Unlock()
	log.Printf("INFO: timelapse: stopped (token %d)", token)
}

// Status reports on the newest run.
func (d *Driver) Status() Status {
	s := &d.session
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{Token: s.tokens.Current(), State: StateIdle}
	if s.previous != nil {
		st.OverlayID = s.previous.ID
	}
	if r := s.latest; r != nil {
		st.RunID = r.id
		st.DateHour = r.dateHour
		st.State = r.state
		if !r.state.Terminal() && !s.tokens.IsCurrent(r.token) {
			st.State = StateStopped
		}
	}
	return st
}

// Wait blocks until every run has ended.
func (d *Driver) Wait() {
	d.wg.Wait()
}

func (d *Driver) supersedeLocked() int64 {
	token := d.session.tokens.Next()
	if r := d.session.latest; r != nil {
		r.cancel()
	}
	return token
}

func (d *Driver) loop(r *run) {
	defer d.wg.Done()
	defer r.cancel()

	d.advance(r, EventStart)
	dh := r.start
	for {
		d.setDateHour(r, dh)

		doc, err := d.fetcher.Fetch(d.ctx, overlay.URL(d.cfg.PageURL, dh))
		if err == nil && doc.Empty() {
			err = overlay.ErrEmptyOverlay
		}
		if err != nil {
			d.advance(r, EventFetchFailed)
			if d.ctx.Err() != nil {
				return
			}
			log.Printf("ERROR: timelapse: run %s: fetch %s: %v", r.id, dh, err)
			d.cfg.Defer(func() { d.page.Alert(FetchFailedMessage) })
			return
		}

		d.show(dh, doc)

		if !d.session.tokens.IsCurrent(r.token) {
			d.advance(r, EventTokenStale)
			return
		}
		d.advance(r, EventFetchSucceeded)

		select {
		case <-d.cfg.After(d.cfg.Delay):
		case <-r.ctx.Done():
			d.advance(r, EventTokenStale)
			return
		}
		if !d.session.tokens.IsCurrent(r.token) {
			d.advance(r, EventTokenStale)
			return
		}
		d.advance(r, EventDelayElapsed)

		dh = datehour.Increment(dh)
	}
}

// show swaps doc in as the only overlay on the globe. Runs that went stale
// while fetching still get here once, so the last overlay attached wins.
func (d *Driver) show(dh string, doc *kml.KML) {
	s := &d.session
	s.mu.Lock()
	defer s.mu.Unlock()

	d.page.SetDate(dh + ":00 UTC")
	if s.previous != nil {
		if err := d.globe.RemoveChild(s.previous); err != nil {
			log.Printf("ERROR: timelapse: detach overlay %s: %v", s.previous.ID, err)
		}
	}
	f := viewer.NewFeature(doc)
	d.globe.AppendChild(f)
	s.previous = f
}

func (d *Driver) advance(r *run, ev Event) {
	s := &d.session
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Transition(r.state, ev)
	if err != nil {
		log.Printf("ERROR: timelapse: run %s: %v", r.id, err)
		return
	}
	r.state = next
}

func (d *Driver) setDateHour(r *run, dh string) {
	s := &d.session
	s.mu.Lock()
	defer s.mu.Unlock()
	r.dateHour = dh
}

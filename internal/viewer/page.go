package viewer

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"
)

// Alert is a message shown to the user.
type Alert struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// PageSnapshot is a point-in-time copy of the page fields.
type PageSnapshot struct {
	Date      string  `json:"date"`
	Latitude  string  `json:"latitude"`
	Longitude string  `json:"longitude"`
	Alerts    []Alert `json:"alerts"`
}

// Page holds the display fields and alerts of a session.
type Page struct {
	mu        sync.RWMutex
	date      string
	latitude  string
	longitude string
	alerts    []Alert
	maxAlerts int
}

// NewPage creates a page that keeps at most maxAlerts alerts (0 = unlimited).
func NewPage(maxAlerts int) *Page {
	return &Page{maxAlerts: maxAlerts}
}

func (p *Page) SetDate(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.date = label
}

// SetCoordinates fills the latitude and longitude fields.
func (p *Page) SetCoordinates(lat, lng float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latitude = strconv.FormatFloat(lat, 'f', -1, 64)
	p.longitude = strconv.FormatFloat(lng, 'f', -1, 64)
}

// Alert records a user-facing message.
func (p *Page) Alert(msg string) {
	log.Printf("INFO: page alert: %s", msg)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, Alert{Message: msg, At: time.Now().UTC()})
	if p.maxAlerts > 0 && len(p.alerts) > p.maxAlerts {
		p.alerts = p.alerts[len(p.alerts)-p.maxAlerts:]
	}
}

// Alerts returns a copy of the recorded alerts, oldest first.
func (p *Page) Alerts() []Alert {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Alert, len(p.alerts))
	copy(out, p.alerts)
	return out
}

func (p *Page) Snapshot() PageSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	alerts := make([]Alert, len(p.alerts))
	copy(alerts, p.alerts)
	return PageSnapshot{
		Date:      p.date,
		Latitude:  p.latitude,
		Longitude: p.longitude,
		Alerts:    alerts,
	}
}

// Init makes the globe visible once it has been created. When create fails
// the page reports it and the returned viewer is nil.
func Init(page *Page, create func() (*Globe, error)) *Globe {
	g, err := create()
	if err != nil {
		page.Alert(fmt.Sprintf("Error!: %v", err))
		return nil
	}
	g.SetVisibility(true)
	return g
}

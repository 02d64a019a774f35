// Package viewer models the globe the station overlays are drawn on and the
// page fields shown next to it.
package viewer

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/weather-timelapse/internal/kml"
)

// ErrNotAttached is returned when removing a feature that is not in the scene.
var ErrNotAttached = errors.New("feature is not attached")

// Feature is one object in the globe's scene graph.
type Feature struct {
	ID  string
	Doc *kml.KML
}

// NewFeature wraps a parsed overlay document for the scene graph.
func NewFeature(doc *kml.KML) *Feature {
	return &Feature{ID: uuid.NewString(), Doc: doc}
}

// LookAt positions the camera. Tilt is in degrees, Range in meters.
type LookAt struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Tilt      float64 `json:"tilt"`
	Range     float64 `json:"range"`
}

// Viewer is what the time-lapse and locator flows need from a globe.
type Viewer interface {
	SetVisibility(visible bool)
	AppendChild(f *Feature)
	RemoveChild(f *Feature) error
	SetAbstractView(view LookAt)
}

// Globe is an in-process scene: a window, a feature container and a camera.
type Globe struct {
	mu       sync.RWMutex
	visible  bool
	features []*Feature
	view     LookAt
}

// NewGlobe creates an empty, hidden globe.
func NewGlobe() *Globe {
	return &Globe{}
}

func (g *Globe) SetVisibility(visible bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.visible = visible
}

func (g *Globe) Visible() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.visible
}

// AppendChild adds f to the end of the feature container.
func (g *Globe) AppendChild(f *Feature) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.features = append(g.features, f)
}

// RemoveChild detaches f from the feature container.
func (g *Globe) RemoveChild(f *Feature) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, cur := range g.features {
		if cur == f {
			g.features = append(g.features[:i], g.features[i+1:]...)
			return nil
		}
	}
	return ErrNotAttached
}

// Children returns a copy of the attached features, in attach order.
func (g *Globe) Children() []*Feature {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Feature, len(g.features))
	copy(out, g.features)
	return out
}

func (g *Globe) SetAbstractView(view LookAt) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.view = view
}

func (g *Globe) View() LookAt {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.view
}

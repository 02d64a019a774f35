package timelapse

import "sync/atomic"

// Generation is the run token. Every Start and Stop advances it, and a run
// keeps going only while the value it captured is still the live one.
type Generation struct {
	n atomic.Int64
}

// Next advances the token and returns the new value.
func (g *Generation) Next() int64 {
	return g.n.Add(1)
}

// Current returns the live value without advancing it.
func (g *Generation) Current() int64 {
	return g.n.Load()
}

// IsCurrent reports whether token is still the live value.
func (g *Generation) IsCurrent(token int64) bool {
	return g.n.Load() == token
}

// Package heads keeps the list of physical monitors attached to one X screen
// and answers point lookups against it.
package heads

import (
	"fmt"

	"github.com/1broseidon/winplace/internal/geom"
)

// Head is one physical monitor.
type Head struct {
	ID     int       `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	Bounds geom.Rect `json:"bounds" yaml:"bounds"`
}

// Heads is an immutable monitor layout. Index 0 is the primary monitor.
type Heads struct {
	screen geom.Rect
	heads  []Head
}

// New builds a layout for a root window of the given size. When no monitors
// are given the whole screen is treated as a single head.
func New(screenWidth, screenHeight int, heads []Head) (*Heads, error) {
	if screenWidth <= 0 || screenHeight <= 0 {
		return nil, fmt.Errorf("invalid screen size %dx%d", screenWidth, screenHeight)
	}
	screen := geom.Rect{Width: screenWidth, Height: screenHeight}
	out := make([]Head, 0, len(heads))
	for i, h := range heads {
		if h.Bounds.Empty() {
			return nil, fmt.Errorf("monitor %d (%s) has empty geometry %s", i, h.Name, h.Bounds)
		}
		out = append(out, h)
	}
	if len(out) == 0 {
		out = append(out, Head{ID: 0, Name: "default", Bounds: screen})
	}
	return &Heads{screen: screen, heads: out}, nil
}

// Single returns a one-monitor layout covering the whole screen.
func Single(screenWidth, screenHeight int) *Heads {
	screen := geom.Rect{Width: screenWidth, Height: screenHeight}
	return &Heads{screen: screen, heads: []Head{{Name: "default", Bounds: screen}}}
}

// Screen returns the root window rectangle.
func (h *Heads) Screen() geom.Rect {
	return h.screen
}

// Count returns the number of monitors.
func (h *Heads) Count() int {
	return len(h.heads)
}

// Geometry returns the bounds of monitor n. Out of range indexes fall back to
// the primary monitor.
func (h *Heads) Geometry(n int) geom.Rect {
	if n < 0 || n >= len(h.heads) {
		n = 0
	}
	return h.heads[n].Bounds
}

// List returns a copy of the monitors.
func (h *Heads) List() []Head {
	out := make([]Head, len(h.heads))
	copy(out, h.heads)
	return out
}

// AtPoint returns the monitor containing x, y. Points in dead space between
// monitors resolve to the closest one.
func (h *Heads) AtPoint(x, y int) geom.Rect {
	return h.heads[h.IndexAt(x, y)].Bounds
}

// IndexAt is AtPoint returning the monitor index.
func (h *Heads) IndexAt(x, y int) int {
	best, bestDist := 0, -1
	for i, head := range h.heads {
		if head.Bounds.Contains(x, y) {
			return i
		}
		d := distance(head.Bounds, x, y)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// distance is the squared distance from x, y to the nearest pixel of r.
func distance(r geom.Rect, x, y int) int {
	dx, dy := 0, 0
	switch {
	case x < r.X:
		dx = r.X - x
	case x >= r.Right():
		dx = x - r.Right() + 1
	}
	switch {
	case y < r.Y:
		dy = r.Y - y
	case y >= r.Bottom():
		dy = y - r.Bottom() + 1
	}
	return dx*dx + dy*dy
}

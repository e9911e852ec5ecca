// Package nudge moves windows by a fixed step and keeps them reachable.
package nudge

import (
	"fmt"
	"strings"

	"github.com/1broseidon/winplace/internal/placement"
)

// DefaultStep is the nudge distance in pixels when none is configured.
const DefaultStep = 32

// Direction represents an arrow key direction
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection accepts up, down, left and right.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "north":
		return DirUp, nil
	case "down", "south":
		return DirDown, nil
	case "left", "west":
		return DirLeft, nil
	case "right", "east":
		return DirRight, nil
	}
	return 0, fmt.Errorf("unknown direction %q (want up, down, left or right)", s)
}

// Delta returns the offset of one step in direction d.
func Delta(d Direction, step int) (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -step
	case DirDown:
		return 0, step
	case DirLeft:
		return -step, 0
	case DirRight:
		return step, 0
	}
	return 0, 0
}

// Apply moves w one step in direction d and then constrains it in minimal
// mode, so a window can be pushed partly off screen but never lost. It
// returns the edges the constraint clamped.
func Apply(e *placement.Engine, w *placement.Window, snap placement.Snapshot, d Direction, step int) placement.Edge {
	if w == nil || w.Has(placement.FlagFullscreen) {
		return 0
	}
	if step <= 0 {
		step = DefaultStep
	}
	dx, dy := Delta(d, step)
	w.X += dx
	w.Y += dy
	return e.Constrain(w, snap, placement.ConstrainMinimal)
}

// Package placement decides where windows go: it keeps new windows clear of
// panels and docks, keeps moved windows reachable, finds free space for new
// windows and grows windows towards their neighbours.
//
// The package does no I/O of its own. Monitor layout, the pointer and the
// window configuration sink are reached through small interfaces, and window
// state is passed in explicitly as a Snapshot for every call. An Engine is
// not safe for concurrent use; callers serialise placement calls.
package placement

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/winplace/internal/geom"
)

// MinVisible is the default number of frame pixels kept on screen by a
// minimal constraint pass.
const MinVisible = 15

// holeThreshold is the size at or below which free space between windows is
// treated as noise by smart placement.
const holeThreshold = 15

// Monitors describes the physical monitor layout of one screen.
type Monitors interface {
	// Screen returns the root window rectangle.
	Screen() geom.Rect
	Count() int
	Geometry(n int) geom.Rect
	// AtPoint returns the monitor containing, or closest to, x, y.
	AtPoint(x, y int) geom.Rect
}

// Pointer reports the pointer position in root coordinates.
type Pointer interface {
	Position() (x, y int, err error)
}

// Configurer applies a computed geometry to a managed window. Only the
// fields named by mask are meaningful.
type Configurer interface {
	Configure(w *Window, r geom.Rect, mask ChangeMask) error
}

// Margins are reserved pixels at each screen edge on top of struts.
type Margins struct {
	Top    int `json:"top" yaml:"top"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
	Right  int `json:"right" yaml:"right"`
}

// Params are the tunables of the engine.
type Params struct {
	Margins Margins
	Mode    Mode
	// Ratio is a percentage of the usable area. Windows smaller than it are
	// centred or put under the pointer; 100 or more always does so.
	Ratio        int
	SnapToBorder bool
	MinVisible   int
}

// DefaultParams mirrors the stock window manager settings.
func DefaultParams() Params {
	return Params{
		Mode:         ModeCenter,
		Ratio:        20,
		SnapToBorder: false,
		MinVisible:   MinVisible,
	}
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if p.Ratio < 0 {
		return fmt.Errorf("placement ratio must be >= 0, got %d", p.Ratio)
	}
	if p.MinVisible < 0 {
		return fmt.Errorf("min visible must be >= 0, got %d", p.MinVisible)
	}
	if p.Margins.Top < 0 || p.Margins.Bottom < 0 || p.Margins.Left < 0 || p.Margins.Right < 0 {
		return fmt.Errorf("margins must be >= 0")
	}
	switch p.Mode {
	case ModeSmart, ModeCenter, ModeMouse:
	default:
		return fmt.Errorf("invalid placement mode %d", int(p.Mode))
	}
	return nil
}

// Engine runs placement policies against a monitor layout.
type Engine struct {
	params   Params
	monitors Monitors
	pointer  Pointer
	sink     Configurer
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithPointer sets the pointer used by mouse placement and monitor lookup.
// Without one the pointer is assumed to rest at the origin.
func WithPointer(p Pointer) Option {
	return func(e *Engine) { e.pointer = p }
}

// WithConfigurer sets the sink used by Fill.
func WithConfigurer(c Configurer) Option {
	return func(e *Engine) { e.sink = c }
}

// WithLogger sets the logger for placement decisions.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine.
func New(params Params, monitors Monitors, opts ...Option) *Engine {
	if params.MinVisible <= 0 {
		params.MinVisible = MinVisible
	}
	e := &Engine{
		params:   params,
		monitors: monitors,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Params returns the engine parameters.
func (e *Engine) Params() Params {
	return e.params
}

// Monitors returns the monitor layout.
func (e *Engine) Monitors() Monitors {
	return e.monitors
}

// MarginArea intersects a monitor with the configured screen margins.
func (e *Engine) MarginArea(mon geom.Rect) geom.Rect {
	screen := e.monitors.Screen()
	m := e.params.Margins
	x := max(m.Left, mon.X)
	y := max(m.Top, mon.Y)
	w := min(screen.Width-m.Right, mon.Right()) - x
	h := min(screen.Height-m.Bottom, mon.Bottom()) - y
	return geom.Rect{X: x, Y: y, Width: w, Height: h}
}

// UsableArea returns the part of mon left after margins and the struts of
// every visible client other than exclude.
func (e *Engine) UsableArea(mon geom.Rect, snap Snapshot, exclude *Window) geom.Rect {
	return MaxSpace(e.MarginArea(mon), others(snap.Clients, exclude), e.monitors.Screen())
}

func (e *Engine) pointerPosition() (int, int) {
	if e.pointer == nil {
		return 0, 0
	}
	x, y, err := e.pointer.Position()
	if err != nil {
		e.logger.Debug("pointer query failed", "error", err)
		return 0, 0
	}
	return x, y
}

package placement

import (
	"fmt"

	"github.com/1broseidon/winplace/internal/geom"
)

// WindowID identifies a client window.
type WindowID uint32

func (id WindowID) String() string {
	return fmt.Sprintf("0x%x", uint32(id))
}

// Insets are the frame decoration thicknesses around the client area.
type Insets struct {
	Left   int `json:"left" yaml:"left"`
	Right  int `json:"right" yaml:"right"`
	Top    int `json:"top" yaml:"top"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// Flags is the runtime state of a window.
type Flags uint32

const (
	FlagVisible Flags = 1 << iota
	FlagHasStrut
	FlagFullscreen
	FlagLegacyFullscreen
	FlagMaximizedHorz
	FlagMaximizedVert
	FlagHasBorder
	FlagManaged
	FlagResizable
	FlagSkipPager
	FlagSkipTaskbar
	FlagUserPosition
	FlagProgramPosition

	FlagMaximized = FlagMaximizedHorz | FlagMaximizedVert
)

var flagNames = []string{
	"visible",
	"strut",
	"fullscreen",
	"legacy_fullscreen",
	"maximized_horz",
	"maximized_vert",
	"border",
	"managed",
	"resizable",
	"skip_pager",
	"skip_taskbar",
	"user_position",
	"program_position",
}

func (f Flags) String() string {
	return bitNames(uint64(f), flagNames)
}

// ParseFlags builds a flag set from names such as "visible" or "strut".
func ParseFlags(names []string) (Flags, error) {
	v, err := parseBitNames(names, flagNames)
	if err != nil {
		return 0, fmt.Errorf("flags: %w", err)
	}
	return Flags(v), nil
}

// Type is the window type classification. A window may carry several bits.
type Type uint32

const (
	TypeNormal Type = 1 << iota
	TypeDialog
	TypeModalDialog
	TypeUtility
	TypeToolbar
	TypeMenu
	TypeSplash
	TypeDock
	TypeDesktop
	TypeDontPlace

	// TypeRegularFocusable is the class of ordinary application windows.
	TypeRegularFocusable = TypeNormal | TypeDialog | TypeModalDialog
)

var typeNames = []string{
	"normal",
	"dialog",
	"modal_dialog",
	"utility",
	"toolbar",
	"menu",
	"splash",
	"dock",
	"desktop",
	"dont_place",
}

func (t Type) String() string {
	return bitNames(uint64(t), typeNames)
}

// ParseType builds a type set from names such as "normal" or "dialog".
func ParseType(names []string) (Type, error) {
	v, err := parseBitNames(names, typeNames)
	if err != nil {
		return 0, fmt.Errorf("type: %w", err)
	}
	return Type(v), nil
}

// Layer is the stacking layer of a window, lowest first.
type Layer int

const (
	LayerDesktop Layer = iota
	LayerBelow
	LayerNormal
	LayerOnTop
	LayerDock
	LayerAboveDock
	LayerFullscreen
)

var layerNames = []string{"desktop", "below", "normal", "ontop", "dock", "above_dock", "fullscreen"}

func (l Layer) String() string {
	if l >= 0 && int(l) < len(layerNames) {
		return layerNames[l]
	}
	return fmt.Sprintf("Layer(%d)", int(l))
}

// ParseLayer converts a layer name. The empty string is LayerNormal.
func ParseLayer(s string) (Layer, error) {
	if s == "" {
		return LayerNormal, nil
	}
	for i, n := range layerNames {
		if n == s {
			return Layer(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layer %q", s)
}

// Window is the placement view of one client. X, Y, Width and Height
// describe the client area; the frame is derived from Insets.
type Window struct {
	ID           WindowID
	Name         string
	X            int
	Y            int
	Width        int
	Height       int
	Insets       Insets
	Layer        Layer
	Flags        Flags
	Type         Type
	TransientFor WindowID
	Struts       Struts
}

func (w *Window) FrameX() int      { return w.X - w.Insets.Left }
func (w *Window) FrameY() int      { return w.Y - w.Insets.Top }
func (w *Window) FrameWidth() int  { return w.Width + w.Insets.Left + w.Insets.Right }
func (w *Window) FrameHeight() int { return w.Height + w.Insets.Top + w.Insets.Bottom }

// Frame returns the decorated outer rectangle.
func (w *Window) Frame() geom.Rect {
	return geom.Rect{X: w.FrameX(), Y: w.FrameY(), Width: w.FrameWidth(), Height: w.FrameHeight()}
}

// Client returns the undecorated client rectangle.
func (w *Window) Client() geom.Rect {
	return geom.Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height}
}

// Has reports whether all bits of f are set.
func (w *Window) Has(f Flags) bool {
	return w.Flags&f == f
}

// Is reports whether any bit of t is set.
func (w *Window) Is(t Type) bool {
	return w.Type&t != 0
}

// RegularFocusable reports whether w is an ordinary application window.
func (w *Window) RegularFocusable() bool {
	return w.Is(TypeRegularFocusable)
}

// IsTransient reports whether w names a parent window.
func (w *Window) IsTransient() bool {
	return w.TransientFor != 0 && w.TransientFor != w.ID
}

// HasExplicitPosition reports whether the user or program asked for a
// specific position.
func (w *Window) HasExplicitPosition() bool {
	return w.Flags&(FlagUserPosition|FlagProgramPosition) != 0
}

// Constrained reports whether w must be kept reachable on screen.
func (w *Window) Constrained() bool {
	return w.Layer > LayerDesktop &&
		w.Layer < LayerAboveDock &&
		!w.Is(TypeDesktop|TypeDock) &&
		!w.Has(FlagLegacyFullscreen)
}

// CanFill reports whether w may be grown by a fill operation.
func (w *Window) CanFill() bool {
	return w.RegularFocusable() &&
		w.Has(FlagResizable) &&
		!w.Has(FlagFullscreen) &&
		!w.Has(FlagMaximized)
}

// bearsStruts reports whether w currently reserves screen edges.
func (w *Window) bearsStruts() bool {
	return w.Has(FlagHasStrut | FlagVisible)
}

// Snapshot is the window state one placement call works on. Clients is the
// general client list; Stack is the stacking order, bottom first. Both are
// borrowed for the duration of the call.
type Snapshot struct {
	Clients []*Window
	Stack   []*Window
}

// Lookup finds a client by ID.
func (s Snapshot) Lookup(id WindowID) *Window {
	if id == 0 {
		return nil
	}
	for _, w := range s.Clients {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// others returns the clients other than w.
func others(clients []*Window, w *Window) []*Window {
	out := make([]*Window, 0, len(clients))
	for _, c := range clients {
		if w != nil && same(c, w) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// same reports whether a and b refer to the same client.
func same(a, b *Window) bool {
	return a == b || (a.ID != 0 && a.ID == b.ID)
}

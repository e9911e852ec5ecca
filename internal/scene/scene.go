// Package scene loads window layouts from YAML so placement decisions can be
// replayed without an X server.
//
// A scene lists the screen, its monitors, the pointer position, the engine
// parameters and every client window from the bottom of the stack to the
// top. One window is named as the target of the simulated action.
package scene

import (
	"fmt"
	"os"

	"github.com/1broseidon/winplace/internal/config"
	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/heads"
	"github.com/1broseidon/winplace/internal/placement"
)

type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type Monitor struct {
	Name   string `yaml:"name"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// Params overrides the engine defaults. Unset fields keep their defaults.
type Params struct {
	Mode         *string  `yaml:"mode"`
	Ratio        *int     `yaml:"ratio"`
	SnapToBorder *bool    `yaml:"snap_to_border"`
	MinVisible   *int     `yaml:"min_visible"`
	Margins      *Margins `yaml:"margins"`
}

// LegacyStrut is the four-value _NET_WM_STRUT form whose bands span the
// whole screen edge.
type LegacyStrut struct {
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
}

type Window struct {
	ID           uint32            `yaml:"id"`
	Name         string            `yaml:"name"`
	X            int               `yaml:"x"`
	Y            int               `yaml:"y"`
	Width        int               `yaml:"width"`
	Height       int               `yaml:"height"`
	Insets       placement.Insets  `yaml:"insets"`
	Layer        string            `yaml:"layer"`
	Type         []string          `yaml:"type"`
	Flags        []string          `yaml:"flags"`
	TransientFor uint32            `yaml:"transient_for"`
	Struts       *placement.Struts `yaml:"struts"`
	Strut        *LegacyStrut      `yaml:"strut"`
}

// Target names the window acted on and the action to simulate.
type Target struct {
	ID        uint32 `yaml:"id"`
	Action    string `yaml:"action"`
	Axis      string `yaml:"axis"`
	Constrain string `yaml:"constrain"`
	Direction string `yaml:"direction"`
	Step      int    `yaml:"step"`
}

type Scene struct {
	Screen   Size      `yaml:"screen"`
	Monitors []Monitor `yaml:"monitors"`
	Pointer  *Point    `yaml:"pointer"`
	Params   Params    `yaml:"params"`
	Windows  []Window  `yaml:"windows"`
	Target   Target    `yaml:"target"`
}

// defaultFlags apply to windows that do not list flags at all.
const defaultFlags = placement.FlagVisible | placement.FlagManaged | placement.FlagResizable | placement.FlagHasBorder

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := config.DecodeStrict(data, &s); err != nil {
		return nil, err
	}
	if s.Screen.Width <= 0 || s.Screen.Height <= 0 {
		return nil, fmt.Errorf("screen: width and height must be > 0")
	}
	if len(s.Windows) == 0 {
		return nil, fmt.Errorf("windows: at least one window is required")
	}
	seen := make(map[uint32]struct{}, len(s.Windows))
	for i, w := range s.Windows {
		if w.ID == 0 {
			return nil, fmt.Errorf("windows[%d]: id must be non-zero", i)
		}
		if _, dup := seen[w.ID]; dup {
			return nil, fmt.Errorf("windows[%d]: duplicate id %d", i, w.ID)
		}
		seen[w.ID] = struct{}{}
		if w.Struts != nil && w.Strut != nil {
			return nil, fmt.Errorf("windows[%d]: struts and strut are mutually exclusive", i)
		}
	}
	if s.Target.ID == 0 {
		s.Target.ID = s.Windows[len(s.Windows)-1].ID
	}
	if _, ok := seen[s.Target.ID]; !ok {
		return nil, fmt.Errorf("target: unknown window id %d", s.Target.ID)
	}
	return &s, nil
}

// World is a scene resolved into engine inputs.
type World struct {
	Heads    *heads.Heads
	Params   placement.Params
	Snapshot placement.Snapshot
	Target   *placement.Window
	Pointer  placement.Pointer
}

// Build resolves the scene. Each call returns fresh windows, so a World can
// be mutated by a simulation without affecting later builds.
func (s *Scene) Build() (*World, error) {
	hs := make([]heads.Head, 0, len(s.Monitors))
	for i, m := range s.Monitors {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("monitor-%d", i)
		}
		hs = append(hs, heads.Head{
			ID:     i,
			Name:   name,
			Bounds: geom.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		})
	}
	layout, err := heads.New(s.Screen.Width, s.Screen.Height, hs)
	if err != nil {
		return nil, fmt.Errorf("monitors: %w", err)
	}

	params, err := s.Params.resolve()
	if err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}

	screen := layout.Screen()
	world := &World{Heads: layout, Params: params}
	for i, ws := range s.Windows {
		w, err := ws.build(screen)
		if err != nil {
			return nil, fmt.Errorf("windows[%d]: %w", i, err)
		}
		world.Snapshot.Clients = append(world.Snapshot.Clients, w)
		world.Snapshot.Stack = append(world.Snapshot.Stack, w)
		if w.ID == placement.WindowID(s.Target.ID) {
			world.Target = w
		}
	}

	if s.Pointer != nil {
		world.Pointer = fixedPointer{x: s.Pointer.X, y: s.Pointer.Y}
	} else {
		cx, cy := screen.Center()
		world.Pointer = fixedPointer{x: cx, y: cy}
	}
	return world, nil
}

func (p Params) resolve() (placement.Params, error) {
	out := placement.DefaultParams()
	if p.Mode != nil {
		mode, err := placement.ParseMode(*p.Mode)
		if err != nil {
			return placement.Params{}, err
		}
		out.Mode = mode
	}
	if p.Ratio != nil {
		out.Ratio = *p.Ratio
	}
	if p.SnapToBorder != nil {
		out.SnapToBorder = *p.SnapToBorder
	}
	if p.MinVisible != nil {
		out.MinVisible = *p.MinVisible
	}
	if p.Margins != nil {
		out.Margins = placement.Margins{
			Top:    p.Margins.Top,
			Bottom: p.Margins.Bottom,
			Left:   p.Margins.Left,
			Right:  p.Margins.Right,
		}
	}
	if err := out.Validate(); err != nil {
		return placement.Params{}, err
	}
	return out, nil
}

func (ws Window) build(screen geom.Rect) (*placement.Window, error) {
	if ws.Width <= 0 || ws.Height <= 0 {
		return nil, fmt.Errorf("window %d: width and height must be > 0", ws.ID)
	}
	layer, err := placement.ParseLayer(ws.Layer)
	if err != nil {
		return nil, err
	}
	typ := placement.TypeNormal
	if len(ws.Type) > 0 {
		if typ, err = placement.ParseType(ws.Type); err != nil {
			return nil, err
		}
	}
	flags := defaultFlags
	if ws.Flags != nil {
		if flags, err = placement.ParseFlags(ws.Flags); err != nil {
			return nil, err
		}
	}

	w := &placement.Window{
		ID:           placement.WindowID(ws.ID),
		Name:         ws.Name,
		X:            ws.X,
		Y:            ws.Y,
		Width:        ws.Width,
		Height:       ws.Height,
		Insets:       ws.Insets,
		Layer:        layer,
		Flags:        flags,
		Type:         typ,
		TransientFor: placement.WindowID(ws.TransientFor),
	}
	switch {
	case ws.Struts != nil:
		w.Struts = *ws.Struts
	case ws.Strut != nil:
		w.Struts = placement.FullStruts(screen, ws.Strut.Left, ws.Strut.Right, ws.Strut.Top, ws.Strut.Bottom)
	}
	if !w.Struts.IsZero() {
		w.Flags |= placement.FlagHasStrut
	}
	return w, nil
}

type fixedPointer struct{ x, y int }

func (p fixedPointer) Position() (int, int, error) { return p.x, p.y, nil }

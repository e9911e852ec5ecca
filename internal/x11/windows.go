package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/placement"
)

const (
	stateHidden     = "_NET_WM_STATE_HIDDEN"
	stateFullscreen = "_NET_WM_STATE_FULLSCREEN"
	stateMaxHorz    = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateMaxVert    = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateSkipPager  = "_NET_WM_STATE_SKIP_PAGER"
	stateSkipTask   = "_NET_WM_STATE_SKIP_TASKBAR"
	stateAbove      = "_NET_WM_STATE_ABOVE"
	stateBelow      = "_NET_WM_STATE_BELOW"
	stateModal      = "_NET_WM_STATE_MODAL"

	allDesktops = 0xFFFFFFFF
)

var windowTypes = map[string]placement.Type{
	"_NET_WM_WINDOW_TYPE_NORMAL":  placement.TypeNormal,
	"_NET_WM_WINDOW_TYPE_DIALOG":  placement.TypeDialog,
	"_NET_WM_WINDOW_TYPE_UTILITY": placement.TypeUtility,
	"_NET_WM_WINDOW_TYPE_TOOLBAR": placement.TypeToolbar,
	"_NET_WM_WINDOW_TYPE_MENU":    placement.TypeMenu,
	"_NET_WM_WINDOW_TYPE_SPLASH":  placement.TypeSplash,
	"_NET_WM_WINDOW_TYPE_DOCK":    placement.TypeDock,
	"_NET_WM_WINDOW_TYPE_DESKTOP": placement.TypeDesktop,
}

// windowType maps _NET_WM_WINDOW_TYPE atoms onto a type set. The first
// recognised atom wins, as the property lists them in order of preference.
// Modal dialogs are reported through _NET_WM_STATE_MODAL.
func windowType(atoms []string, states []string, transient bool) placement.Type {
	t := placement.Type(0)
	for _, a := range atoms {
		if v, ok := windowTypes[a]; ok {
			t = v
			break
		}
	}
	if t == 0 {
		// ICCCM: untyped transients are dialogs.
		if transient {
			t = placement.TypeDialog
		} else {
			t = placement.TypeNormal
		}
	}
	if t == placement.TypeDialog && hasState(states, stateModal) {
		t = placement.TypeModalDialog
	}
	return t
}

func stateFlags(states []string) placement.Flags {
	var f placement.Flags
	for _, s := range states {
		switch s {
		case stateFullscreen:
			f |= placement.FlagFullscreen
		case stateMaxHorz:
			f |= placement.FlagMaximizedHorz
		case stateMaxVert:
			f |= placement.FlagMaximizedVert
		case stateSkipPager:
			f |= placement.FlagSkipPager
		case stateSkipTask:
			f |= placement.FlagSkipTaskbar
		}
	}
	return f
}

func windowLayer(t placement.Type, states []string) placement.Layer {
	switch {
	case t&placement.TypeDesktop != 0:
		return placement.LayerDesktop
	case t&placement.TypeDock != 0:
		return placement.LayerDock
	case hasState(states, stateFullscreen):
		return placement.LayerFullscreen
	case hasState(states, stateAbove):
		return placement.LayerOnTop
	case hasState(states, stateBelow):
		return placement.LayerBelow
	default:
		return placement.LayerNormal
	}
}

func hasState(states []string, want string) bool {
	for _, s := range states {
		if s == want {
			return true
		}
	}
	return false
}

// strutsFromPartial converts _NET_WM_STRUT_PARTIAL, whose end coordinates
// are inclusive, into exclusive-end struts.
func strutsFromPartial(sp *ewmh.WmStrutPartial) placement.Struts {
	s := placement.Struts{
		Left:         int(sp.Left),
		Right:        int(sp.Right),
		Top:          int(sp.Top),
		Bottom:       int(sp.Bottom),
		LeftStartY:   int(sp.LeftStartY),
		RightStartY:  int(sp.RightStartY),
		TopStartX:    int(sp.TopStartX),
		BottomStartX: int(sp.BottomStartX),
	}
	if sp.Left > 0 {
		s.LeftEndY = int(sp.LeftEndY) + 1
	}
	if sp.Right > 0 {
		s.RightEndY = int(sp.RightEndY) + 1
	}
	if sp.Top > 0 {
		s.TopEndX = int(sp.TopEndX) + 1
	}
	if sp.Bottom > 0 {
		s.BottomEndX = int(sp.BottomEndX) + 1
	}
	return s
}

// hintFlags reads position requests and resizability from WM_NORMAL_HINTS.
func hintFlags(h *icccm.NormalHints) placement.Flags {
	f := placement.FlagResizable
	if h == nil {
		return f
	}
	if h.Flags&icccm.SizeHintUSPosition != 0 {
		f |= placement.FlagUserPosition
	}
	if h.Flags&icccm.SizeHintPPosition != 0 {
		f |= placement.FlagProgramPosition
	}
	if h.Flags&icccm.SizeHintPMinSize != 0 && h.Flags&icccm.SizeHintPMaxSize != 0 &&
		h.MinWidth == h.MaxWidth && h.MinHeight == h.MaxHeight && h.MaxWidth > 0 {
		f &^= placement.FlagResizable
	}
	return f
}

// ReadWindow builds the placement view of one managed client.
func (c *Connection) ReadWindow(id xproto.Window, currentDesktop int) (*placement.Window, error) {
	xu := c.XUtil
	g, err := xproto.GetGeometry(xu.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return nil, fmt.Errorf("window %d: failed to get geometry: %w", id, err)
	}
	pos, err := xproto.TranslateCoordinates(xu.Conn(), id, c.Root, 0, 0).Reply()
	if err != nil {
		return nil, fmt.Errorf("window %d: failed to translate coordinates: %w", id, err)
	}

	w := &placement.Window{
		ID:     placement.WindowID(id),
		X:      int(pos.DstX),
		Y:      int(pos.DstY),
		Width:  int(g.Width),
		Height: int(g.Height),
		Flags:  placement.FlagManaged,
	}

	if name, err := ewmh.WmNameGet(xu, id); err == nil && name != "" {
		w.Name = name
	} else if name, err := icccm.WmNameGet(xu, id); err == nil {
		w.Name = name
	}

	if ext, err := ewmh.FrameExtentsGet(xu, id); err == nil {
		w.Insets = placement.Insets{
			Left:   int(ext.Left),
			Right:  int(ext.Right),
			Top:    int(ext.Top),
			Bottom: int(ext.Bottom),
		}
		if w.Insets != (placement.Insets{}) {
			w.Flags |= placement.FlagHasBorder
		}
	}

	if parent, err := icccm.WmTransientForGet(xu, id); err == nil && parent != 0 && parent != c.Root {
		w.TransientFor = placement.WindowID(parent)
	}

	states, _ := ewmh.WmStateGet(xu, id)
	types, _ := ewmh.WmWindowTypeGet(xu, id)
	w.Type = windowType(types, states, w.TransientFor != 0)
	w.Layer = windowLayer(w.Type, states)
	w.Flags |= stateFlags(states)

	hints, _ := icccm.WmNormalHintsGet(xu, id)
	w.Flags |= hintFlags(hints)

	if c.isShown(id, states, currentDesktop) {
		w.Flags |= placement.FlagVisible
	}

	if sp, err := ewmh.WmStrutPartialGet(xu, id); err == nil {
		w.Struts = strutsFromPartial(sp)
	} else if s, err := ewmh.WmStrutGet(xu, id); err == nil {
		sw, sh, err := c.ScreenSize()
		if err == nil {
			w.Struts = placement.FullStruts(
				geom.Rect{Width: sw, Height: sh},
				int(s.Left), int(s.Right), int(s.Top), int(s.Bottom),
			)
		}
	}
	if !w.Struts.IsZero() {
		w.Flags |= placement.FlagHasStrut
	}

	return w, nil
}

func (c *Connection) isShown(id xproto.Window, states []string, currentDesktop int) bool {
	if hasState(states, stateHidden) {
		return false
	}
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), id).Reply()
	if err != nil || attrs.MapState != xproto.MapStateViewable {
		return false
	}
	if currentDesktop < 0 {
		return true
	}
	desktop, err := ewmh.WmDesktopGet(c.XUtil, id)
	if err != nil {
		return true
	}
	return desktop == allDesktops || int(desktop) == currentDesktop
}

// Snapshot reads every managed client. Clients come from _NET_CLIENT_LIST
// and the stack from _NET_CLIENT_LIST_STACKING, bottom first. Windows that
// vanish while being read are skipped.
func (c *Connection) Snapshot() (placement.Snapshot, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return placement.Snapshot{}, fmt.Errorf("failed to get client list: %w", err)
	}
	stacking, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil {
		stacking = clients
	}

	desktop, err := c.GetCurrentDesktop()
	if err != nil {
		desktop = -1
	}

	byID := make(map[xproto.Window]*placement.Window, len(clients))
	snap := placement.Snapshot{Clients: make([]*placement.Window, 0, len(clients))}
	for _, id := range clients {
		w, err := c.ReadWindow(id, desktop)
		if err != nil {
			continue
		}
		byID[id] = w
		snap.Clients = append(snap.Clients, w)
	}
	snap.Stack = stackOrder(stacking, byID)
	return snap, nil
}

func stackOrder(stacking []xproto.Window, byID map[xproto.Window]*placement.Window) []*placement.Window {
	out := make([]*placement.Window, 0, len(stacking))
	for _, id := range stacking {
		if w, ok := byID[id]; ok {
			out = append(out, w)
		}
	}
	return out
}

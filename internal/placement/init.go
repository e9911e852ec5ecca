package placement

import (
	"github.com/1broseidon/winplace/internal/geom"
)

// centredSlack is how far, in pixels, a requested position may be from a
// centred one and still count as centred.
const centredSlack = 25

// InitPosition positions a window that is about to be shown for the first
// time. Windows with a requested position, dialogs, transients and windows
// that opt out of placement keep their position, only kept on screen.
// Everything else is placed automatically inside the usable area of the
// active monitor. Regular windows that do not fit the usable area are
// flagged for maximization.
func (e *Engine) InitPosition(w *Window, snap Snapshot) {
	if w == nil {
		return
	}

	n := e.monitors.Count()
	var mx, my int
	var mon geom.Rect
	if n > 1 || e.params.Mode == ModeMouse {
		mx, my = e.pointerPosition()
		mon = e.monitors.AtPoint(mx, my)
	} else {
		mon = e.monitors.Geometry(0)
	}

	place := true
	if w.HasExplicitPosition() || w.Is(TypeDontPlace|TypeDialog) || w.IsTransient() {
		if !w.HasExplicitPosition() && w.IsTransient() {
			if parent := snap.Lookup(w.TransientFor); parent != nil {
				w.X = parent.X + (parent.Width-w.Width)/2
				w.Y = parent.Y + (parent.Height-w.Height)/2
				if n > 1 {
					cx, cy := w.Frame().Center()
					mon = e.monitors.AtPoint(cx, cy)
				}
			}
		}
		if w.Constrained() {
			e.keepVisible(w, snap, n, mon)
		}
		place = false
	}

	full := e.UsableArea(mon, snap, w)

	if place {
		fw, fh := w.FrameWidth(), w.FrameHeight()
		ratio := e.params.Ratio
		switch {
		case ratio >= 100 || 100*fw*fh < ratio*full.Width*full.Height:
			if e.params.Mode == ModeMouse {
				mousePlacement(w, full, mx, my)
				e.logger.Debug("mouse placement", "window", w.ID, "x", w.X, "y", w.Y)
			} else {
				centerPlacement(w, full)
				e.logger.Debug("center placement", "window", w.ID, "x", w.X, "y", w.Y)
			}
		case fw >= full.Width && fh >= full.Height:
			centerPlacement(w, full)
			e.logger.Debug("center placement, window larger than work area", "window", w.ID, "x", w.X, "y", w.Y)
		default:
			e.smartPlacement(w, full, snap)
		}
	}

	if w.RegularFocusable() {
		autoMaximize(w, full)
	}
}

// keepVisible re-centres windows that were centred for a different screen
// geometry, then constrains them fully.
func (e *Engine) keepVisible(w *Window, snap Snapshot, n int, mon geom.Rect) {
	centred := false
	if w.X == 0 && w.Y == 0 && w.Is(TypeDialog) {
		centred = true
	} else if n > 1 {
		screen := e.monitors.Screen()
		centred = isCentred(w, screen.Width, screen.Height)
		for i := 0; !centred && i < n; i++ {
			r := e.monitors.Geometry(i)
			centred = isCentred(w, r.Width, r.Height)
		}
	}
	if centred {
		w.X = mon.X + (mon.Width-w.Width)/2
		w.Y = mon.Y + (mon.Height-w.Height)/2
	}
	e.Constrain(w, snap, ConstrainFull)
}

// isCentred compares the client position with a centred one on an area of
// the given size, in that area's own coordinates.
func isCentred(w *Window, width, height int) bool {
	dx := abs(w.X - (width-w.Width)/2)
	dy := abs(w.Y - (height-w.Height)/2)
	return dx < centredSlack && dy < centredSlack
}

func autoMaximize(w *Window, full geom.Rect) {
	if w.Has(FlagFullscreen) || !w.Has(FlagHasBorder) {
		return
	}
	if !w.Has(FlagMaximizedHorz) && w.FrameWidth() > full.Width {
		w.Flags |= FlagMaximizedHorz
	}
	if !w.Has(FlagMaximizedVert) && w.FrameHeight() > full.Height {
		w.Flags |= FlagMaximizedVert
	}
}

func centerPlacement(w *Window, full geom.Rect) {
	w.X = max(full.X+w.Insets.Left+(full.Width-w.FrameWidth())/2, full.X+w.Insets.Left)
	w.Y = max(full.Y+w.Insets.Top+(full.Height-w.FrameHeight())/2, full.Y+w.Insets.Top)
}

// mousePlacement centres the frame under the pointer. When the frame is
// larger than the area the top-left corner wins.
func mousePlacement(w *Window, full geom.Rect, mx, my int) {
	fw, fh := w.FrameWidth(), w.FrameHeight()
	left, top := w.Insets.Left, w.Insets.Top

	x := mx + left - fw/2
	y := my + top - fh/2

	x = min(x, full.Right()-fw+left)
	y = min(y, full.Bottom()-fh+top)

	w.X = max(x, full.X+left)
	w.Y = max(y, full.Y+top)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

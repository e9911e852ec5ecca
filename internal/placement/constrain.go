package placement

import "github.com/1broseidon/winplace/internal/geom"

// Constrain moves w back into a reachable position on the monitor under its
// frame centre and returns the edges it clamped. Fullscreen windows are left
// alone.
//
// In full mode the frame is kept clear of right and bottom struts, then
// inside the monitor, then clear of left and top struts, so the monitor
// bounds win over the first pass and the left and top struts win over both.
// In minimal mode only max(top inset, MinVisible) pixels of the frame must
// stay reachable. The checks run in a fixed order and each one overwrites
// the position when it fires.
func (e *Engine) Constrain(w *Window, snap Snapshot, mode ConstrainMode) Edge {
	if w == nil || w.Has(FlagFullscreen) {
		return 0
	}
	cx, cy := w.Frame().Center()
	mon := e.monitors.AtPoint(cx, cy)
	var ret Edge
	if mode == ConstrainMinimal {
		ret = e.constrainMinimal(w, snap, mon)
	} else {
		ret = e.constrainFull(w, snap, mon)
	}
	if ret != 0 {
		e.logger.Debug("constrained window",
			"window", w.ID,
			"mode", mode,
			"edges", ret,
			"x", w.X,
			"y", w.Y,
		)
	}
	return ret
}

func (e *Engine) constrainFull(w *Window, snap Snapshot, mon geom.Rect) Edge {
	screen := e.monitors.Screen()
	fw, fh := w.FrameWidth(), w.FrameHeight()
	left, top := w.Insets.Left, w.Insets.Top
	fx, fy := w.FrameX(), w.FrameY()
	var ret Edge

	for _, c := range snap.Clients {
		if same(c, w) || !c.bearsStruts() {
			continue
		}
		s := c.Struts
		if geom.SegmentOverlap(fy, fy+fh, s.RightStartY, s.RightEndY) > 0 &&
			geom.SegmentOverlap(fx, fx+fw, screen.Width-s.Right, screen.Width) > 0 {
			w.X = screen.Width - s.Right - fw + left
			fx = w.FrameX()
			ret |= EdgeRight
		}
		if geom.SegmentOverlap(fx, fx+fw, s.BottomStartX, s.BottomEndX) > 0 &&
			geom.SegmentOverlap(fy, fy+fh, screen.Height-s.Bottom, screen.Height) > 0 {
			w.Y = screen.Height - s.Bottom - fh + top
			fy = w.FrameY()
			ret |= EdgeBottom
		}
	}

	if fx+fw >= mon.Right() {
		w.X = mon.Right() - fw + left
		fx = w.FrameX()
		ret |= EdgeRight
	}
	if fx <= mon.X {
		w.X = mon.X + left
		fx = w.FrameX()
		ret |= EdgeLeft
	}
	if fy+fh >= mon.Bottom() {
		w.Y = mon.Bottom() - fh + top
		fy = w.FrameY()
		ret |= EdgeBottom
	}
	if fy <= mon.Y {
		w.Y = mon.Y + top
		fy = w.FrameY()
		ret |= EdgeTop
	}

	for _, c := range snap.Clients {
		if same(c, w) || !c.bearsStruts() {
			continue
		}
		s := c.Struts
		if geom.SegmentOverlap(fy, fy+fh, s.LeftStartY, s.LeftEndY) > 0 &&
			geom.SegmentOverlap(fx, fx+fw, 0, s.Left) > 0 {
			w.X = s.Left + left
			fx = w.FrameX()
			ret |= EdgeLeft
		}
		if geom.SegmentOverlap(fx, fx+fw, s.TopStartX, s.TopEndX) > 0 &&
			geom.SegmentOverlap(fy, fy+fh, 0, s.Top) > 0 {
			w.Y = s.Top + top
			fy = w.FrameY()
			ret |= EdgeTop
		}
	}
	return ret
}

func (e *Engine) constrainMinimal(w *Window, snap Snapshot, mon geom.Rect) Edge {
	screen := e.monitors.Screen()
	fw, fh := w.FrameWidth(), w.FrameHeight()
	left, top := w.Insets.Left, w.Insets.Top
	fx, fy := w.FrameX(), w.FrameY()
	visible := top
	if visible == 0 {
		visible = fh
	}
	minVisible := max(top, e.params.MinVisible)
	var ret Edge

	if fx+fw <= mon.X+minVisible {
		w.X = mon.X + minVisible - fw + left
		fx = w.FrameX()
		ret |= EdgeLeft
	}
	if fx+minVisible >= mon.Right() {
		w.X = mon.Right() - minVisible + left
		fx = w.FrameX()
		ret |= EdgeRight
	}
	if fy+fh <= mon.Y+minVisible {
		w.Y = mon.Y + minVisible - fh + top
		fy = w.FrameY()
		ret |= EdgeTop
	}
	if fy+minVisible >= mon.Bottom() {
		w.Y = mon.Bottom() - minVisible + top
		fy = w.FrameY()
		ret |= EdgeBottom
	}
	// Title bar flush with or just above the monitor top.
	if fy <= mon.Y && fy >= mon.Y-top {
		w.Y = mon.Y + top
		fy = w.FrameY()
		ret |= EdgeTop
	}

	for _, c := range snap.Clients {
		if same(c, w) || !c.bearsStruts() {
			continue
		}
		s := c.Struts
		if geom.SegmentOverlap(fy, fy+fh, s.RightStartY, s.RightEndY) > 0 &&
			fx >= screen.Width-s.Right-minVisible {
			w.X = screen.Width - s.Right - minVisible + left
			fx = w.FrameX()
			ret |= EdgeRight
		}
		if geom.SegmentOverlap(fy, fy+fh, s.LeftStartY, s.LeftEndY) > 0 &&
			fx+fw <= s.Left+minVisible {
			w.X = s.Left + minVisible - fw + left
			fx = w.FrameX()
			ret |= EdgeLeft
		}
		if geom.SegmentOverlap(fx, fx+fw, s.BottomStartX, s.BottomEndX) > 0 &&
			fy >= screen.Height-s.Bottom-minVisible {
			w.Y = screen.Height - s.Bottom - minVisible + top
			fy = w.FrameY()
			ret |= EdgeBottom
		}
		if geom.SegmentOverlap(fx, fx+fw, s.TopStartX, s.TopEndX) > 0 {
			if geom.SegmentOverlap(fy, fy+visible, 0, s.Top) > 0 {
				w.Y = s.Top + top
				fy = w.FrameY()
				ret |= EdgeTop
			}
			if fy+fh <= s.Top+minVisible {
				w.Y = s.Top + minVisible - fh + top
				fy = w.FrameY()
				ret |= EdgeTop
			}
		}
	}
	return ret
}

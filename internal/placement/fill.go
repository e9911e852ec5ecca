package placement

import (
	"fmt"

	"github.com/1broseidon/winplace/internal/geom"
)

type neighbours struct {
	west, east, north, south *Window
}

// findNeighbours returns the closest visible window on each requested side
// of w, among windows on the same layer whose span overlaps w on the other
// axis.
func findNeighbours(w *Window, clients []*Window, axis FillAxis) neighbours {
	var n neighbours
	fx, fy, fw, fh := w.FrameX(), w.FrameY(), w.FrameWidth(), w.FrameHeight()

	for _, c := range clients {
		if same(c, w) || !c.Has(FlagVisible) || c.Layer != w.Layer {
			continue
		}
		cx, cy, cw, ch := c.FrameX(), c.FrameY(), c.FrameWidth(), c.FrameHeight()

		if axis&FillHorizontal != 0 && geom.SegmentOverlap(fy, fy+fh, cy, cy+ch) > 0 {
			if cx+cw <= fx && (n.west == nil || n.west.FrameX()+n.west.FrameWidth() < cx+cw) {
				n.west = c
			}
			if fx+fw <= cx && (n.east == nil || cx < n.east.FrameX()) {
				n.east = c
			}
		}

		if axis&FillVertical != 0 && geom.SegmentOverlap(fx, fx+fw, cx, cx+cw) > 0 {
			if cy+ch <= fy && (n.north == nil || n.north.FrameY()+n.north.FrameHeight() < cy+ch) {
				n.north = c
			}
			if fy+fh <= cy && (n.south == nil || cy < n.south.FrameY()) {
				n.south = c
			}
		}
	}
	return n
}

// FillRect computes the client geometry w would get from a fill along axis,
// and the mask of fields that change. ok is false when w cannot be filled.
func (e *Engine) FillRect(w *Window, snap Snapshot, axis FillAxis) (r geom.Rect, mask ChangeMask, ok bool) {
	if w == nil || !w.CanFill() || axis&FillBoth == 0 {
		return geom.Rect{}, 0, false
	}

	n := findNeighbours(w, snap.Clients, axis)
	screen := e.monitors.Screen()
	frame := w.Frame()
	cx, cy := frame.Center()
	full := e.MarginArea(e.monitors.AtPoint(cx, cy))
	clients := others(snap.Clients, w)

	switch {
	case axis&FillBoth == FillBoth:
		mask = ChangeX | ChangeY | ChangeWidth | ChangeHeight
		full = MaxSpace(full, clients, screen)
	case axis&FillVertical != 0:
		mask = ChangeY | ChangeHeight
		tmp := MaxSpace(geom.Rect{X: frame.X, Y: full.Y, Width: frame.Width, Height: full.Height}, clients, screen)
		full.Y, full.Height = tmp.Y, tmp.Height
	default:
		mask = ChangeX | ChangeWidth
		tmp := MaxSpace(geom.Rect{X: full.X, Y: frame.Y, Width: full.Width, Height: frame.Height}, clients, screen)
		full.X, full.Width = tmp.X, tmp.Width
	}

	r = w.Client()
	ins := w.Insets

	if mask&ChangeX != 0 {
		x := full.X + ins.Left
		if n.west != nil {
			x += max(n.west.FrameX()+n.west.FrameWidth()-full.X, 0)
		}
		width := full.Width - ins.Right - (x - full.X)
		if n.east != nil {
			width -= max(full.Width-(n.east.FrameX()-full.X), 0)
		}
		r.X, r.Width = x, width
	}

	if mask&ChangeY != 0 {
		y := full.Y + ins.Top
		if n.north != nil {
			y += max(n.north.FrameY()+n.north.FrameHeight()-full.Y, 0)
		}
		height := full.Height - ins.Bottom - (y - full.Y)
		if n.south != nil {
			height -= max(full.Height-(n.south.FrameY()-full.Y), 0)
		}
		r.Y, r.Height = y, height
	}

	return r, mask, true
}

// Fill grows w along axis up to its nearest neighbours or the usable area
// edge and hands the result to the configure sink. Windows that cannot be
// filled and unmanaged windows are left untouched.
func (e *Engine) Fill(w *Window, snap Snapshot, axis FillAxis) error {
	r, mask, ok := e.FillRect(w, snap, axis)
	if !ok {
		return nil
	}
	e.logger.Debug("fill", "window", w.ID, "axis", axis, "rect", r, "mask", mask)
	if !w.Has(FlagManaged) || e.sink == nil {
		return nil
	}
	if err := e.sink.Configure(w, r, mask); err != nil {
		return fmt.Errorf("configure window %s: %w", w.ID, err)
	}
	return nil
}

package placement

import (
	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/region"
)

// candidate is a free rectangle the new frame could go into.
type candidate struct {
	rect geom.Rect
	area int
	fits bool
}

func newCandidate(r geom.Rect, fw, fh int) candidate {
	return candidate{rect: r, area: r.Area(), fits: fw <= r.Width && fh <= r.Height}
}

// better reports whether c should replace cur: anything that fits beats
// anything that does not, a smaller fit beats a larger one and a larger
// miss beats a smaller one.
func (c candidate) better(cur candidate) bool {
	if !cur.fits {
		return c.fits || c.area > cur.area
	}
	return c.fits && c.area < cur.area
}

// smartPlacement looks for free space among the visible windows. It walks
// the stack from the top down, accumulating the frames of regular windows,
// and keeps the last free space that still had room.
func (e *Engine) smartPlacement(w *Window, full geom.Rect, snap Snapshot) {
	fw, fh := w.FrameWidth(), w.FrameHeight()

	monitor := region.FromRect(full)
	used := region.New()
	var hole region.Region
	found := false

	for i := len(snap.Stack) - 1; i >= 0; i-- {
		c := snap.Stack[i]
		if same(c, w) || !c.Has(FlagVisible) || !c.RegularFocusable() {
			continue
		}

		frame := c.Frame()
		switch monitor.ContainsRect(frame) {
		case region.OverlapOut:
			continue
		case region.OverlapIn:
			used = used.UnionRect(frame)
		case region.OverlapPart:
			used = used.Union(monitor.IntersectRect(frame))
		}

		free := monitor.Subtract(used)
		if !hasRoom(free) {
			break
		}
		hole = free
		found = true
	}

	if !found {
		w.X = full.X + w.Insets.Left
		w.Y = full.Y + w.Insets.Top
		e.logger.Debug("smart placement found no hole", "window", w.ID, "x", w.X, "y", w.Y)
		return
	}

	best := bestCandidate(hole, full, fw, fh)
	x, y := best.rect.X, best.rect.Y

	if !best.fits {
		if n := x + fw - full.Right(); n > 0 {
			x -= n
		}
		if n := y + fh - full.Bottom(); n > 0 {
			y -= n
		}
	}

	if e.params.SnapToBorder {
		if x > full.X && best.rect.Right() == full.Right() {
			x = full.Right() - fw
		}
		if y > full.Y && best.rect.Bottom() == full.Bottom() {
			y = full.Bottom() - fh
		}
	}

	w.X = x + w.Insets.Left
	w.Y = y + w.Insets.Top
	e.logger.Debug("smart placement",
		"window", w.ID,
		"hole", best.rect,
		"fits", best.fits,
		"x", w.X,
		"y", w.Y,
	)
}

// hasRoom reports whether any rectangle of free is larger than the noise
// threshold in both dimensions.
func hasRoom(free region.Region) bool {
	for _, r := range free.Rects() {
		if r.Width > holeThreshold && r.Height > holeThreshold {
			return true
		}
	}
	return false
}

// bestCandidate grows every rectangle of hole in both axis orders and picks
// the best result. hole must not be empty.
func bestCandidate(hole region.Region, full geom.Rect, fw, fh int) candidate {
	var best candidate
	first := true
	for _, r := range hole.Rects() {
		a := r
		expandHorizontal(hole, &a, full)
		expandVertical(hole, &a, full)
		pick := newCandidate(a, fw, fh)

		b := r
		expandVertical(hole, &b, full)
		expandHorizontal(hole, &b, full)
		if alt := newCandidate(b, fw, fh); alt.better(pick) {
			pick = alt
		}

		if first || pick.better(best) {
			best = pick
			first = false
		}
	}
	return best
}

// expandHorizontal grows r left and right while the added strip stays inside
// hole, trying the whole way to the edge of full first.
func expandHorizontal(hole region.Region, r *geom.Rect, full geom.Rect) {
	if r.X > full.X {
		probe := geom.Rect{X: full.X, Y: r.Y, Width: r.X - full.X, Height: r.Height}
		switch hole.ContainsRect(probe) {
		case region.OverlapIn:
			r.Width += r.X - full.X
			r.X = full.X
		case region.OverlapPart:
			probe = geom.Rect{X: r.X, Y: r.Y, Width: 0, Height: r.Height}
			for {
				probe.X--
				probe.Width++
				if hole.ContainsRect(probe) != region.OverlapIn {
					break
				}
			}
			if grow := probe.Width - 1; grow > 0 {
				r.X -= grow
				r.Width += grow
			}
		}
	}

	if r.Right() < full.Right() {
		probe := geom.Rect{X: r.Right(), Y: r.Y, Width: full.Right() - r.Right(), Height: r.Height}
		switch hole.ContainsRect(probe) {
		case region.OverlapIn:
			r.Width += probe.Width
		case region.OverlapPart:
			probe.Width = 0
			for {
				probe.Width++
				if hole.ContainsRect(probe) != region.OverlapIn {
					break
				}
			}
			if grow := probe.Width - 1; grow > 0 {
				r.Width += grow
			}
		}
	}
}

// expandVertical is expandHorizontal for the top and bottom edges.
func expandVertical(hole region.Region, r *geom.Rect, full geom.Rect) {
	if r.Y > full.Y {
		probe := geom.Rect{X: r.X, Y: full.Y, Width: r.Width, Height: r.Y - full.Y}
		switch hole.ContainsRect(probe) {
		case region.OverlapIn:
			r.Height += r.Y - full.Y
			r.Y = full.Y
		case region.OverlapPart:
			probe = geom.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: 0}
			for {
				probe.Y--
				probe.Height++
				if hole.ContainsRect(probe) != region.OverlapIn {
					break
				}
			}
			if grow := probe.Height - 1; grow > 0 {
				r.Y -= grow
				r.Height += grow
			}
		}
	}

	if r.Bottom() < full.Bottom() {
		probe := geom.Rect{X: r.X, Y: r.Bottom(), Width: r.Width, Height: full.Bottom() - r.Bottom()}
		switch hole.ContainsRect(probe) {
		case region.OverlapIn:
			r.Height += probe.Height
		case region.OverlapPart:
			probe.Height = 0
			for {
				probe.Height++
				if hole.ContainsRect(probe) != region.OverlapIn {
					break
				}
			}
			if grow := probe.Height - 1; grow > 0 {
				r.Height += grow
			}
		}
	}
}

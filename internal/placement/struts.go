package placement

import "github.com/1broseidon/winplace/internal/geom"

// Struts are the screen edge reservations of one window, measured from the
// root window edges. Start coordinates are inclusive, end coordinates
// exclusive.
type Struts struct {
	Left   int `json:"left" yaml:"left"`
	Right  int `json:"right" yaml:"right"`
	Top    int `json:"top" yaml:"top"`
	Bottom int `json:"bottom" yaml:"bottom"`

	LeftStartY   int `json:"left_start_y" yaml:"left_start_y"`
	LeftEndY     int `json:"left_end_y" yaml:"left_end_y"`
	RightStartY  int `json:"right_start_y" yaml:"right_start_y"`
	RightEndY    int `json:"right_end_y" yaml:"right_end_y"`
	TopStartX    int `json:"top_start_x" yaml:"top_start_x"`
	TopEndX      int `json:"top_end_x" yaml:"top_end_x"`
	BottomStartX int `json:"bottom_start_x" yaml:"bottom_start_x"`
	BottomEndX   int `json:"bottom_end_x" yaml:"bottom_end_x"`
}

// FullStruts returns struts whose bands span the whole screen edge, the
// shape of a legacy _NET_WM_STRUT reservation.
func FullStruts(screen geom.Rect, left, right, top, bottom int) Struts {
	return Struts{
		Left:       left,
		Right:      right,
		Top:        top,
		Bottom:     bottom,
		LeftEndY:   screen.Height,
		RightEndY:  screen.Height,
		TopEndX:    screen.Width,
		BottomEndX: screen.Width,
	}
}

// IsZero reports whether no edge is reserved.
func (s Struts) IsZero() bool {
	return s.Left == 0 && s.Right == 0 && s.Top == 0 && s.Bottom == 0
}

func (s Struts) LeftBand(screen geom.Rect) geom.Rect {
	return geom.NewRect(0, s.LeftStartY, s.Left, s.LeftEndY)
}

func (s Struts) RightBand(screen geom.Rect) geom.Rect {
	return geom.NewRect(screen.Width-s.Right, s.RightStartY, screen.Width, s.RightEndY)
}

func (s Struts) TopBand(screen geom.Rect) geom.Rect {
	return geom.NewRect(s.TopStartX, 0, s.TopEndX, s.Top)
}

func (s Struts) BottomBand(screen geom.Rect) geom.Rect {
	return geom.NewRect(s.BottomStartX, screen.Height-s.Bottom, s.BottomEndX, screen.Height)
}

// Bands returns the left, right, top and bottom reserved rectangles.
func (s Struts) Bands(screen geom.Rect) []geom.Rect {
	return []geom.Rect{s.LeftBand(screen), s.RightBand(screen), s.TopBand(screen), s.BottomBand(screen)}
}

// StrutOverlap returns the summed area r shares with the strut bands of w.
// It is 0 unless w is visible and strut-bearing.
func StrutOverlap(r geom.Rect, w *Window, screen geom.Rect) int {
	if w == nil || !w.bearsStruts() {
		return 0
	}
	sum := 0
	for _, b := range w.Struts.Bands(screen) {
		sum += geom.OverlapCorners(r.X, r.Y, r.Right(), r.Bottom(), b.X, b.Y, b.Right(), b.Bottom())
	}
	return sum
}

// MaxSpace shrinks r until it no longer intrudes into the strut bands of any
// visible strut-bearing client. Each edge only ever moves inward, so the
// result is stable under repeated application.
func MaxSpace(r geom.Rect, clients []*Window, screen geom.Rect) geom.Rect {
	for _, c := range clients {
		if !c.bearsStruts() {
			continue
		}
		s := c.Struts

		if geom.Overlap(r, s.LeftBand(screen)) > 0 {
			delta := s.Left - r.X
			r.X += delta
			r.Width -= delta
		}
		if geom.Overlap(r, s.RightBand(screen)) > 0 {
			delta := r.Right() - screen.Width + s.Right
			r.Width -= delta
		}
		if geom.Overlap(r, s.TopBand(screen)) > 0 {
			delta := s.Top - r.Y
			r.Y += delta
			r.Height -= delta
		}
		if geom.Overlap(r, s.BottomBand(screen)) > 0 {
			delta := r.Bottom() - screen.Height + s.Bottom
			r.Height -= delta
		}
	}
	return r
}

// Unobstructed reports whether no other client's strut bands overlap the
// frame of w.
func (e *Engine) Unobstructed(w *Window, snap Snapshot) bool {
	if w == nil {
		return false
	}
	return e.clearOfStruts(w, w.Frame(), snap)
}

// TitleVisible reports whether the title strip of w is clear of every other
// client's struts.
func (e *Engine) TitleVisible(w *Window, snap Snapshot) bool {
	if w == nil {
		return false
	}
	title := geom.Rect{X: w.FrameX(), Y: w.FrameY(), Width: w.FrameWidth(), Height: w.Insets.Top}
	return e.clearOfStruts(w, title, snap)
}

func (e *Engine) clearOfStruts(w *Window, r geom.Rect, snap Snapshot) bool {
	screen := e.monitors.Screen()
	for _, c := range snap.Clients {
		if same(c, w) {
			continue
		}
		if StrutOverlap(r, c, screen) > 0 {
			return false
		}
	}
	return true
}

package geom

import "fmt"

// Rect describes a rectangular region in screen coordinates.
// The right and bottom edges are exclusive.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// NewRect builds a Rect from two corners, the second one exclusive.
func NewRect(x1, y1, x2, y2 int) Rect {
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Area returns Width*Height, or 0 for degenerate rects.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Center returns the center point, rounding towards the origin.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
// An empty o is never contained.
func (r Rect) ContainsRect(o Rect) bool {
	if o.Empty() || r.Empty() {
		return false
	}
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersect returns the overlapping part of r and o. The result is the zero
// Rect when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.Right(), o.Right())
	y2 := min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return NewRect(x1, y1, x2, y2)
}

// Intersects reports whether r and o share a positive area.
func (r Rect) Intersects(o Rect) bool {
	return Overlap(r, o) > 0
}

// Translate returns r shifted by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// SegmentOverlap returns the length of the intersection of [a0,a1) and
// [b0,b1), or 0 when they are disjoint or inverted.
func SegmentOverlap(a0, a1, b0, b1 int) int {
	if b0 > a0 {
		a0 = b0
	}
	if b1 < a1 {
		a1 = b1
	}
	if a1 <= a0 {
		return 0
	}
	return a1 - a0
}

// Overlap returns the intersection area of a and b.
func Overlap(a, b Rect) int {
	return SegmentOverlap(a.X, a.Right(), b.X, b.Right()) *
		SegmentOverlap(a.Y, a.Bottom(), b.Y, b.Bottom())
}

// OverlapCorners is Overlap expressed with corner coordinates, the form used
// when testing against strut bands.
func OverlapCorners(x0, y0, x1, y1, tx0, ty0, tx1, ty1 int) int {
	return SegmentOverlap(x0, x1, tx0, tx1) * SegmentOverlap(y0, y1, ty0, ty1)
}

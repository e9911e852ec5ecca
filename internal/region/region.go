// Package region implements sets of pixels described as normalized lists of
// non-overlapping rectangles.
//
// A Region is stored in y-x banded form: the plane is cut into horizontal
// bands, each band holds sorted, disjoint, non-touching horizontal spans, and
// vertically adjacent bands with identical spans are coalesced. The form is
// unique for a given pixel set, so two regions are equal exactly when their
// rectangle lists are equal. Rects are produced in band order, top to bottom
// and left to right within a band.
//
// Regions are immutable values; every operation returns a new Region.
package region

import (
	"sort"

	"github.com/1broseidon/winplace/internal/geom"
)

// Overlap classifies how a rectangle relates to a region.
type Overlap int

const (
	// OverlapOut means the rectangle shares no pixel with the region.
	OverlapOut Overlap = iota
	// OverlapIn means every pixel of the rectangle is in the region.
	OverlapIn
	// OverlapPart means some, but not all, pixels are in the region.
	OverlapPart
)

func (o Overlap) String() string {
	switch o {
	case OverlapOut:
		return "out"
	case OverlapIn:
		return "in"
	case OverlapPart:
		return "part"
	default:
		return "unknown"
	}
}

type span struct {
	x0, x1 int
}

type band struct {
	y0, y1 int
	spans  []span
}

// Region is a set of pixels. The zero value is the empty region.
type Region struct {
	bands []band
}

// New returns an empty region.
func New() Region {
	return Region{}
}

// FromRect returns a region covering r. Degenerate rects give an empty region.
func FromRect(r geom.Rect) Region {
	if r.Empty() {
		return Region{}
	}
	return Region{bands: []band{{
		y0:    r.Y,
		y1:    r.Bottom(),
		spans: []span{{x0: r.X, x1: r.Right()}},
	}}}
}

// FromRects returns the union of rs.
func FromRects(rs ...geom.Rect) Region {
	out := Region{}
	for _, r := range rs {
		out = out.UnionRect(r)
	}
	return out
}

// IsEmpty reports whether the region contains no pixel.
func (r Region) IsEmpty() bool {
	return len(r.bands) == 0
}

// Union returns r ∪ o.
func (r Region) Union(o Region) Region {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return combine(r, o, func(a, b bool) bool { return a || b })
}

// UnionRect returns r ∪ rect.
func (r Region) UnionRect(rect geom.Rect) Region {
	return r.Union(FromRect(rect))
}

// Intersect returns r ∩ o.
func (r Region) Intersect(o Region) Region {
	if r.IsEmpty() || o.IsEmpty() {
		return Region{}
	}
	return combine(r, o, func(a, b bool) bool { return a && b })
}

// IntersectRect returns r ∩ rect.
func (r Region) IntersectRect(rect geom.Rect) Region {
	return r.Intersect(FromRect(rect))
}

// Subtract returns r − o.
func (r Region) Subtract(o Region) Region {
	if r.IsEmpty() || o.IsEmpty() {
		return r
	}
	return combine(r, o, func(a, b bool) bool { return a && !b })
}

// SubtractRect returns r − rect.
func (r Region) SubtractRect(rect geom.Rect) Region {
	return r.Subtract(FromRect(rect))
}

// NumRects returns the number of rectangles in the normalized form.
func (r Region) NumRects() int {
	n := 0
	for _, b := range r.bands {
		n += len(b.spans)
	}
	return n
}

// Rects returns the normalized rectangles in band order.
func (r Region) Rects() []geom.Rect {
	out := make([]geom.Rect, 0, r.NumRects())
	for _, b := range r.bands {
		for _, s := range b.spans {
			out = append(out, geom.NewRect(s.x0, b.y0, s.x1, b.y1))
		}
	}
	return out
}

// Extents returns the bounding box, or the zero Rect for an empty region.
func (r Region) Extents() geom.Rect {
	if r.IsEmpty() {
		return geom.Rect{}
	}
	x0, x1 := r.bands[0].spans[0].x0, r.bands[0].spans[0].x1
	for _, b := range r.bands {
		x0 = min(x0, b.spans[0].x0)
		x1 = max(x1, b.spans[len(b.spans)-1].x1)
	}
	return geom.NewRect(x0, r.bands[0].y0, x1, r.bands[len(r.bands)-1].y1)
}

// Area returns the number of pixels in the region.
func (r Region) Area() int {
	total := 0
	for _, b := range r.bands {
		for _, s := range b.spans {
			total += (s.x1 - s.x0) * (b.y1 - b.y0)
		}
	}
	return total
}

// ContainsPoint reports whether the pixel at x, y belongs to the region.
func (r Region) ContainsPoint(x, y int) bool {
	spans := spansAt(r.bands, y)
	for _, s := range spans {
		if x >= s.x0 && x < s.x1 {
			return true
		}
	}
	return false
}

// ContainsRect classifies rect against the region. Empty rects are Out.
func (r Region) ContainsRect(rect geom.Rect) Overlap {
	if rect.Empty() || r.IsEmpty() {
		return OverlapOut
	}
	covered := 0
	for _, b := range r.bands {
		if b.y0 >= rect.Bottom() {
			break
		}
		dy := geom.SegmentOverlap(rect.Y, rect.Bottom(), b.y0, b.y1)
		if dy == 0 {
			continue
		}
		for _, s := range b.spans {
			covered += dy * geom.SegmentOverlap(rect.X, rect.Right(), s.x0, s.x1)
		}
	}
	switch {
	case covered == 0:
		return OverlapOut
	case covered == rect.Area():
		return OverlapIn
	default:
		return OverlapPart
	}
}

// Equal reports whether r and o cover the same pixels.
func (r Region) Equal(o Region) bool {
	if len(r.bands) != len(o.bands) {
		return false
	}
	for i := range r.bands {
		a, b := r.bands[i], o.bands[i]
		if a.y0 != b.y0 || a.y1 != b.y1 || !equalSpans(a.spans, b.spans) {
			return false
		}
	}
	return true
}

// combine evaluates op for every elementary cell of the union of both
// regions' band and span boundaries, then rebuilds the normalized form.
func combine(a, b Region, op func(inA, inB bool) bool) Region {
	ys := make([]int, 0, 2*(len(a.bands)+len(b.bands)))
	for _, bd := range a.bands {
		ys = append(ys, bd.y0, bd.y1)
	}
	for _, bd := range b.bands {
		ys = append(ys, bd.y0, bd.y1)
	}
	ys = sortUnique(ys)

	var out []band
	for i := 0; i+1 < len(ys); i++ {
		y0, y1 := ys[i], ys[i+1]
		spans := combineSpans(spansAt(a.bands, y0), spansAt(b.bands, y0), op)
		if len(spans) == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].y1 == y0 && equalSpans(out[n-1].spans, spans) {
			out[n-1].y1 = y1
			continue
		}
		out = append(out, band{y0: y0, y1: y1, spans: spans})
	}
	return Region{bands: out}
}

func combineSpans(a, b []span, op func(inA, inB bool) bool) []span {
	xs := make([]int, 0, 2*(len(a)+len(b)))
	for _, s := range a {
		xs = append(xs, s.x0, s.x1)
	}
	for _, s := range b {
		xs = append(xs, s.x0, s.x1)
	}
	xs = sortUnique(xs)

	var out []span
	for i := 0; i+1 < len(xs); i++ {
		x0, x1 := xs[i], xs[i+1]
		if !op(covers(a, x0), covers(b, x0)) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].x1 == x0 {
			out[n-1].x1 = x1
			continue
		}
		out = append(out, span{x0: x0, x1: x1})
	}
	return out
}

// spansAt returns the spans of the band containing row y.
func spansAt(bands []band, y int) []span {
	i := sort.Search(len(bands), func(i int) bool { return bands[i].y1 > y })
	if i < len(bands) && bands[i].y0 <= y {
		return bands[i].spans
	}
	return nil
}

func covers(spans []span, x int) bool {
	for _, s := range spans {
		if x < s.x0 {
			return false
		}
		if x < s.x1 {
			return true
		}
	}
	return false
}

func equalSpans(a, b []span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortUnique(v []int) []int {
	sort.Ints(v)
	out := v[:0]
	for i, x := range v {
		if i == 0 || x != v[i-1] {
			out = append(out, x)
		}
	}
	return out
}

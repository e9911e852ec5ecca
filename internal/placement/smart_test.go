package placement

import (
	"testing"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/heads"
	"github.com/1broseidon/winplace/internal/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smartParams() Params {
	p := DefaultParams()
	p.Mode = ModeSmart
	p.Ratio = 0
	return p
}

func square(t *testing.T) *heads.Heads {
	t.Helper()
	h, err := heads.New(1000, 1000, nil)
	require.NoError(t, err)
	return h
}

func TestSmartPlacementPicksFreeHalf(t *testing.T) {
	e := New(smartParams(), square(t))
	left := newWindow(1, 0, 0, 500, 1000)

	w := newWindow(2, 0, 0, 300, 300)
	e.InitPosition(w, snapshotOf(left, w))
	assert.Equal(t, 500, w.X)
	assert.Equal(t, 0, w.Y)
}

func TestSmartPlacementAddsInsets(t *testing.T) {
	e := New(smartParams(), square(t))
	left := framed(1, 0, 0, 500, 1000, decorated)

	w := framed(2, 0, 0, 300, 300, decorated)
	e.InitPosition(w, snapshotOf(left, w))
	assert.Equal(t, 500, w.FrameX())
	assert.Equal(t, 0, w.FrameY())
	assert.Equal(t, 500+decorated.Left, w.X)
	assert.Equal(t, decorated.Top, w.Y)
}

func TestSmartPlacementSnapToBorder(t *testing.T) {
	p := smartParams()
	p.SnapToBorder = true
	e := New(p, square(t))
	left := newWindow(1, 0, 0, 500, 1000)

	w := newWindow(2, 0, 0, 300, 300)
	e.InitPosition(w, snapshotOf(left, w))
	assert.Equal(t, 700, w.X)
	assert.Equal(t, 0, w.Y)
}

func TestSmartPlacementEmptyDesktopGoesTopLeft(t *testing.T) {
	e := New(smartParams(), singleHead(1920, 1080))
	top := panel(1, FullStruts(screen1080, 0, 0, 40, 0))

	w := framed(2, 700, 700, 300, 300, decorated)
	e.InitPosition(w, snapshotOf(top, w))
	assert.Equal(t, 0, w.FrameX())
	assert.Equal(t, 40, w.FrameY())
}

func TestSmartPlacementUsesHoleAboveCoveringWindow(t *testing.T) {
	e := New(smartParams(), square(t))
	// Bottom of the stack covers the whole monitor; the window above it
	// only the top-left quarter.
	bottom := newWindow(1, 0, 0, 1000, 1000)
	top := newWindow(2, 0, 0, 500, 500)

	w := newWindow(3, 0, 0, 300, 300)
	snap := Snapshot{Clients: []*Window{bottom, top, w}, Stack: []*Window{bottom, top, w}}
	e.InitPosition(w, snap)
	assert.Equal(t, 500, w.X)
	assert.Equal(t, 0, w.Y)
}

func TestSmartPlacementAvoidsSiblings(t *testing.T) {
	e := New(smartParams(), singleHead(1920, 1080))
	siblings := []*Window{
		newWindow(1, 0, 0, 800, 500),
		newWindow(2, 820, 0, 600, 700),
		newWindow(3, 0, 520, 700, 560),
	}

	w := newWindow(4, 0, 0, 400, 300)
	e.InitPosition(w, snapshotOf(append(siblings, w)...))
	for _, s := range siblings {
		assert.Zero(t, geom.Overlap(w.Frame(), s.Frame()), "placed %s over %s", w.Frame(), s.Frame())
	}
	assert.True(t, geom.Rect{Width: 1920, Height: 1080}.ContainsRect(w.Frame()))
}

func TestSmartPlacementIgnoresIneligibleWindows(t *testing.T) {
	e := New(smartParams(), square(t))
	hidden := newWindow(1, 500, 0, 500, 1000)
	hidden.Flags &^= FlagVisible
	menu := newWindow(2, 500, 0, 500, 1000)
	menu.Type = TypeMenu
	offscreen := newWindow(3, 2000, 0, 500, 500)
	left := newWindow(4, 0, 0, 500, 1000)

	w := newWindow(5, 0, 0, 300, 300)
	e.InitPosition(w, snapshotOf(left, hidden, menu, offscreen, w))
	assert.Equal(t, 500, w.X)
}

func TestSmartPlacementNoFitShiftsIntoArea(t *testing.T) {
	e := New(smartParams(), square(t))
	// Only a 200px wide column is free on the right.
	left := newWindow(1, 0, 0, 800, 1000)

	w := newWindow(2, 0, 0, 300, 300)
	e.InitPosition(w, snapshotOf(left, w))
	assert.Equal(t, 700, w.X)
	assert.Equal(t, 0, w.Y)
}

func TestSmartPlacementClipsPartialWindows(t *testing.T) {
	h, err := heads.New(2000, 1000, []heads.Head{
		{ID: 0, Bounds: geom.Rect{Width: 1000, Height: 1000}},
		{ID: 1, Bounds: geom.Rect{X: 1000, Width: 1000, Height: 1000}},
	})
	require.NoError(t, err)
	e := New(smartParams(), h, WithPointer(fixedPointer{x: 1500, y: 10}))
	// Straddles both monitors; only its part on the second one counts.
	straddle := newWindow(1, 500, 0, 1000, 1000)

	w := newWindow(2, 0, 0, 300, 300)
	e.InitPosition(w, snapshotOf(straddle, w))
	assert.Equal(t, 1500, w.X)
	assert.Equal(t, 0, w.Y)
}

func TestCandidateOrdering(t *testing.T) {
	fit := func(area int) candidate { return candidate{area: area, fits: true} }
	miss := func(area int) candidate { return candidate{area: area} }

	assert.True(t, fit(10).better(miss(1000)))
	assert.False(t, miss(1000).better(fit(10)))
	assert.True(t, fit(10).better(fit(20)))
	assert.False(t, fit(20).better(fit(10)))
	assert.True(t, miss(20).better(miss(10)))
	assert.False(t, miss(10).better(miss(20)))
}

func TestExpandGrowsInsideHole(t *testing.T) {
	full := geom.Rect{Width: 1000, Height: 1000}
	hole := region.FromRect(full).SubtractRect(geom.Rect{X: 0, Y: 0, Width: 500, Height: 500})

	r := geom.Rect{X: 0, Y: 500, Width: 1000, Height: 500}
	expandVertical(hole, &r, full)
	assert.Equal(t, geom.Rect{X: 0, Y: 500, Width: 1000, Height: 500}, r)

	r = geom.Rect{X: 600, Y: 600, Width: 100, Height: 100}
	expandHorizontal(hole, &r, full)
	assert.Equal(t, geom.Rect{X: 0, Y: 600, Width: 1000, Height: 100}, r)

	r = geom.Rect{X: 600, Y: 600, Width: 100, Height: 100}
	expandVertical(hole, &r, full)
	assert.Equal(t, geom.Rect{X: 600, Y: 0, Width: 100, Height: 1000}, r)

	// Partial probe: above y=500 the strip is blocked left of x=500.
	r = geom.Rect{X: 400, Y: 600, Width: 300, Height: 100}
	expandVertical(hole, &r, full)
	assert.Equal(t, geom.Rect{X: 400, Y: 500, Width: 300, Height: 500}, r)
	assert.Equal(t, region.OverlapIn, hole.ContainsRect(r))
}

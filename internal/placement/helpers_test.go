package placement

import (
	"errors"
	"testing"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/heads"
	"github.com/stretchr/testify/require"
)

var decorated = Insets{Left: 4, Right: 4, Top: 24, Bottom: 4}

func newWindow(id WindowID, x, y, w, h int) *Window {
	return &Window{
		ID:     id,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Layer:  LayerNormal,
		Type:   TypeNormal,
		Flags:  FlagVisible | FlagManaged | FlagResizable | FlagHasBorder,
	}
}

func framed(id WindowID, fx, fy, fw, fh int, ins Insets) *Window {
	w := newWindow(id, fx+ins.Left, fy+ins.Top, fw-ins.Left-ins.Right, fh-ins.Top-ins.Bottom)
	w.Insets = ins
	return w
}

func panel(id WindowID, s Struts) *Window {
	return &Window{
		ID:     id,
		Layer:  LayerDock,
		Type:   TypeDock,
		Flags:  FlagVisible | FlagHasStrut,
		Struts: s,
	}
}

func snapshotOf(ws ...*Window) Snapshot {
	return Snapshot{Clients: ws, Stack: ws}
}

func singleHead(width, height int) *heads.Heads {
	return heads.Single(width, height)
}

func dualHead(t *testing.T) *heads.Heads {
	t.Helper()
	h, err := heads.New(3200, 1080, []heads.Head{
		{ID: 0, Name: "left", Bounds: geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{ID: 1, Name: "right", Bounds: geom.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}},
	})
	require.NoError(t, err)
	return h
}

type fixedPointer struct {
	x, y int
	err  error
}

func (p fixedPointer) Position() (int, int, error) {
	return p.x, p.y, p.err
}

type configureCall struct {
	id   WindowID
	rect geom.Rect
	mask ChangeMask
}

type recordingSink struct {
	calls []configureCall
	err   error
}

func (s *recordingSink) Configure(w *Window, r geom.Rect, mask ChangeMask) error {
	s.calls = append(s.calls, configureCall{id: w.ID, rect: r, mask: mask})
	return s.err
}

var errSink = errors.New("sink failed")

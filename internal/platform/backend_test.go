package platform

import (
	"errors"
	"testing"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/heads"
	"github.com/1broseidon/winplace/internal/placement"
)

func TestCommitSendsOnlyChangedFields(t *testing.T) {
	prev := placement.Window{ID: 7, X: 10, Y: 20, Width: 300, Height: 200}
	fake := NewFake(heads.Single(1000, 1000), prev)

	w := prev
	w.X = 500
	if err := Commit(fake, prev, &w); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(fake.Configured) != 1 {
		t.Fatalf("expected one configure call, got %d", len(fake.Configured))
	}
	call := fake.Configured[0]
	if call.Mask != placement.ChangeX {
		t.Fatalf("expected X-only mask, got %v", call.Mask)
	}
	if call.Rect != (geom.Rect{X: 500, Y: 20, Width: 300, Height: 200}) {
		t.Fatalf("unexpected rect %v", call.Rect)
	}
	got, _ := fake.Window(7)
	if got.X != 500 || got.Y != 20 {
		t.Fatalf("expected fake to apply the move, got %+v", got)
	}
	if len(fake.Maximized) != 0 {
		t.Fatalf("expected no maximize requests")
	}
}

func TestCommitNoChangeIsSilent(t *testing.T) {
	prev := placement.Window{ID: 1, X: 1, Y: 1, Width: 1, Height: 1}
	fake := NewFake(heads.Single(10, 10), prev)
	w := prev
	if err := Commit(fake, prev, &w); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(fake.Configured) != 0 || len(fake.Maximized) != 0 {
		t.Fatalf("expected no backend calls, got %+v %+v", fake.Configured, fake.Maximized)
	}
}

func TestCommitRequestsNewMaximizedStates(t *testing.T) {
	prev := placement.Window{ID: 3, Width: 10, Height: 10, Flags: placement.FlagMaximizedHorz}
	fake := NewFake(heads.Single(10, 10), prev)
	w := prev
	w.Flags |= placement.FlagMaximizedVert | placement.FlagVisible
	if err := Commit(fake, prev, &w); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(fake.Maximized) != 1 {
		t.Fatalf("expected one maximize request, got %d", len(fake.Maximized))
	}
	if m := fake.Maximized[0]; m.Flags != placement.FlagMaximizedVert || !m.On {
		t.Fatalf("expected vertical maximize, got %+v", m)
	}
}

func TestCommitPropagatesErrors(t *testing.T) {
	prev := placement.Window{ID: 3, Width: 10, Height: 10}
	fake := NewFake(heads.Single(10, 10), prev)
	fake.Err = errors.New("boom")
	w := prev
	w.Y = 4
	if err := Commit(fake, prev, &w); !errors.Is(err, fake.Err) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestFakeSnapshotCopiesWindows(t *testing.T) {
	fake := NewFake(heads.Single(100, 100), placement.Window{ID: 1, X: 5})
	snap, err := fake.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	snap.Clients[0].X = 50
	got, _ := fake.Window(1)
	if got.X != 5 {
		t.Fatalf("expected snapshot mutation not to leak into the fake, got %d", got.X)
	}
	if _, err := fake.ActiveWindow(); err == nil {
		t.Fatalf("expected error without an active window")
	}
}

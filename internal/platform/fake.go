package platform

import (
	"fmt"
	"sync"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/heads"
	"github.com/1broseidon/winplace/internal/placement"
)

// ConfigureCall records one Configure request made to a Fake.
type ConfigureCall struct {
	ID   placement.WindowID
	Rect geom.Rect
	Mask placement.ChangeMask
}

// MaximizeCall records one SetMaximized request made to a Fake.
type MaximizeCall struct {
	ID    placement.WindowID
	Flags placement.Flags
	On    bool
}

// Fake is an in-memory Backend. Configure and SetMaximized update the stored
// windows the way a compliant window manager would.
type Fake struct {
	mu         sync.Mutex
	layout     *heads.Heads
	windows    []placement.Window
	active     placement.WindowID
	px, py     int
	Configured []ConfigureCall
	Maximized  []MaximizeCall
	Err        error
}

var _ Backend = (*Fake)(nil)

// NewFake creates a fake screen. Windows are given bottom of the stack first.
func NewFake(layout *heads.Heads, windows ...placement.Window) *Fake {
	return &Fake{layout: layout, windows: windows}
}

func (f *Fake) SetActive(id placement.WindowID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = id
}

func (f *Fake) SetPointer(x, y int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.px, f.py = x, y
}

// AddWindow puts w on top of the stack.
func (f *Fake) AddWindow(w placement.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, w)
}

// Window returns a copy of the stored window.
func (f *Fake) Window(id placement.WindowID) (placement.Window, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.windows {
		if w.ID == id {
			return w, true
		}
	}
	return placement.Window{}, false
}

func (f *Fake) Heads() (*heads.Heads, error) {
	return f.layout, nil
}

func (f *Fake) Position() (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.px, f.py, nil
}

func (f *Fake) ActiveWindow() (placement.WindowID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return f.active, nil
}

func (f *Fake) Snapshot() (placement.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := placement.Snapshot{}
	for i := range f.windows {
		w := f.windows[i]
		snap.Clients = append(snap.Clients, &w)
	}
	snap.Stack = snap.Clients
	return snap, nil
}

func (f *Fake) Configure(w *placement.Window, r geom.Rect, mask placement.ChangeMask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Configured = append(f.Configured, ConfigureCall{ID: w.ID, Rect: r, Mask: mask})
	for i := range f.windows {
		if f.windows[i].ID != w.ID {
			continue
		}
		s := &f.windows[i]
		if mask&placement.ChangeX != 0 {
			s.X = r.X
		}
		if mask&placement.ChangeY != 0 {
			s.Y = r.Y
		}
		if mask&placement.ChangeWidth != 0 {
			s.Width = r.Width
		}
		if mask&placement.ChangeHeight != 0 {
			s.Height = r.Height
		}
	}
	return nil
}

func (f *Fake) SetMaximized(w *placement.Window, flags placement.Flags, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Maximized = append(f.Maximized, MaximizeCall{ID: w.ID, Flags: flags, On: on})
	for i := range f.windows {
		if f.windows[i].ID != w.ID {
			continue
		}
		if on {
			f.windows[i].Flags |= flags
		} else {
			f.windows[i].Flags &^= flags
		}
	}
	return nil
}

package platform

import (
	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/heads"
	"github.com/1broseidon/winplace/internal/placement"
)

// Backend abstracts the window-system operations placement needs.
type Backend interface {
	Heads() (*heads.Heads, error)
	// Position reports the pointer in root coordinates.
	Position() (x, y int, err error)
	ActiveWindow() (placement.WindowID, error)
	Snapshot() (placement.Snapshot, error)
	// Configure applies the fields of r named by mask to a client.
	Configure(w *placement.Window, r geom.Rect, mask placement.ChangeMask) error
	SetMaximized(w *placement.Window, f placement.Flags, on bool) error
}

// Commit pushes the difference between prev and w, the state of the same
// window before and after a placement call, to b.
func Commit(b Backend, prev placement.Window, w *placement.Window) error {
	r, mask := moveMask(prev, w)
	if mask != 0 {
		if err := b.Configure(w, r, mask); err != nil {
			return err
		}
	}
	if added := w.Flags &^ prev.Flags & placement.FlagMaximized; added != 0 {
		if err := b.SetMaximized(w, added, true); err != nil {
			return err
		}
	}
	return nil
}

func moveMask(prev placement.Window, w *placement.Window) (geom.Rect, placement.ChangeMask) {
	var mask placement.ChangeMask
	if w.X != prev.X {
		mask |= placement.ChangeX
	}
	if w.Y != prev.Y {
		mask |= placement.ChangeY
	}
	if w.Width != prev.Width {
		mask |= placement.ChangeWidth
	}
	if w.Height != prev.Height {
		mask |= placement.ChangeHeight
	}
	return w.Client(), mask
}

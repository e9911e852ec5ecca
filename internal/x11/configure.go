package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/placement"
)

// pagerSource marks requests as coming from a pager or other direct user
// action, which window managers honour more readily than application ones.
const pagerSource = 2

// Configure implements placement.Configurer. Geometry is in client
// coordinates, so static gravity is requested. When the window manager
// rejects the EWMH request the frame is configured directly.
func (c *Connection) Configure(w *placement.Window, r geom.Rect, mask placement.ChangeMask) error {
	if mask == 0 {
		return nil
	}
	id := xproto.Window(w.ID)
	err := ewmh.MoveresizeWindowExtra(
		c.XUtil, id,
		r.X, r.Y, r.Width, r.Height,
		xproto.GravityStatic, pagerSource,
		mask&placement.ChangeX != 0,
		mask&placement.ChangeY != 0,
		mask&placement.ChangeWidth != 0,
		mask&placement.ChangeHeight != 0,
	)
	if err == nil {
		return nil
	}

	frame, ferr := c.frameOf(id)
	if ferr == nil {
		valueMask, values := frameConfigure(r, w.Insets, mask, frame != id)
		ferr = xproto.ConfigureWindowChecked(c.XUtil.Conn(), frame, valueMask, values).Check()
	}
	if ferr != nil {
		return fmt.Errorf("failed to configure window %d: %w", id, errors.Join(err, ferr))
	}
	return nil
}

// frameOf returns the ancestor of id that is a direct child of the root,
// which is id itself for a window that was never reparented.
func (c *Connection) frameOf(id xproto.Window) (xproto.Window, error) {
	for {
		tree, err := xproto.QueryTree(c.XUtil.Conn(), id).Reply()
		if err != nil {
			return 0, fmt.Errorf("window %d: failed to query tree: %w", id, err)
		}
		if tree.Parent == c.Root || tree.Parent == 0 {
			return id, nil
		}
		id = tree.Parent
	}
}

// frameConfigure turns a client rectangle into a ConfigureWindow request
// for its top-level window in root coordinates. Only the fields named by
// mask are sent. A reparented client's frame is larger by its insets.
func frameConfigure(r geom.Rect, in placement.Insets, mask placement.ChangeMask, reparented bool) (uint16, []uint32) {
	x, y, width, height := r.X, r.Y, r.Width, r.Height
	if reparented {
		x -= in.Left
		y -= in.Top
		width += in.Left + in.Right
		height += in.Top + in.Bottom
	}

	var valueMask uint16
	var values []uint32
	if mask&placement.ChangeX != 0 {
		valueMask |= xproto.ConfigWindowX
		values = append(values, uint32(int32(x)))
	}
	if mask&placement.ChangeY != 0 {
		valueMask |= xproto.ConfigWindowY
		values = append(values, uint32(int32(y)))
	}
	if mask&placement.ChangeWidth != 0 {
		valueMask |= xproto.ConfigWindowWidth
		values = append(values, uint32(max(width, 1)))
	}
	if mask&placement.ChangeHeight != 0 {
		valueMask |= xproto.ConfigWindowHeight
		values = append(values, uint32(max(height, 1)))
	}
	return valueMask, values
}

// SetMaximized asks the window manager to add or remove the maximized
// states named by f.
func (c *Connection) SetMaximized(w *placement.Window, f placement.Flags, on bool) error {
	action := ewmh.StateRemove
	if on {
		action = ewmh.StateAdd
	}
	id := xproto.Window(w.ID)
	var first, second string
	if f&placement.FlagMaximizedHorz != 0 {
		first = stateMaxHorz
	}
	if f&placement.FlagMaximizedVert != 0 {
		if first == "" {
			first = stateMaxVert
		} else {
			second = stateMaxVert
		}
	}
	if first == "" {
		return nil
	}
	if err := ewmh.WmStateReqExtra(c.XUtil, id, action, first, second, pagerSource); err != nil {
		return fmt.Errorf("failed to change maximized state of window %d: %w", id, err)
	}
	return nil
}

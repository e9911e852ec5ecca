//go:build linux

package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/heads"
	"github.com/1broseidon/winplace/internal/placement"
	"github.com/1broseidon/winplace/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, err
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops a running EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// WatchNewClients reports windows as the window manager starts managing them.
func (b *LinuxBackend) WatchNewClients(fn func(placement.WindowID)) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WatchNewClients(func(id xproto.Window) {
		fn(placement.WindowID(id))
	})
}

func (b *LinuxBackend) Heads() (*heads.Heads, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	return conn.Heads()
}

func (b *LinuxBackend) Position() (int, int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, 0, err
	}
	return conn.PointerPosition()
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (placement.WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return placement.WindowID(wid), nil
}

func (b *LinuxBackend) Snapshot() (placement.Snapshot, error) {
	conn, err := b.connection()
	if err != nil {
		return placement.Snapshot{}, err
	}
	return conn.Snapshot()
}

func (b *LinuxBackend) Configure(w *placement.Window, r geom.Rect, mask placement.ChangeMask) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Configure(w, r, mask)
}

func (b *LinuxBackend) SetMaximized(w *placement.Window, f placement.Flags, on bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetMaximized(w, f, on)
}

// WindowManager returns the running window manager's name.
func (b *LinuxBackend) WindowManager() string {
	conn, err := b.connection()
	if err != nil {
		return ""
	}
	name, err := conn.WindowManagerName()
	if err != nil {
		return ""
	}
	return name
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

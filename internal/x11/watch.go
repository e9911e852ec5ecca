package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// clientTracker remembers the last seen client list.
type clientTracker struct {
	known map[xproto.Window]struct{}
}

func newClientTracker(initial []xproto.Window) *clientTracker {
	t := &clientTracker{known: make(map[xproto.Window]struct{}, len(initial))}
	for _, id := range initial {
		t.known[id] = struct{}{}
	}
	return t
}

// update records the current list and returns the windows that were not in
// the previous one, in list order.
func (t *clientTracker) update(current []xproto.Window) []xproto.Window {
	var added []xproto.Window
	next := make(map[xproto.Window]struct{}, len(current))
	for _, id := range current {
		next[id] = struct{}{}
		if _, ok := t.known[id]; !ok {
			added = append(added, id)
		}
	}
	t.known = next
	return added
}

// WatchNewClients calls fn from the event loop for every window added to
// _NET_CLIENT_LIST after the call. Windows present at the time of the call
// are not reported.
func (c *Connection) WatchNewClients(fn func(xproto.Window)) error {
	initial, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		initial = nil
	}
	tracker := newClientTracker(initial)

	atom, err := xprop.Atm(c.XUtil, "_NET_CLIENT_LIST")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_CLIENT_LIST: %w", err)
	}

	if err := xwindow.New(c.XUtil, c.Root).Listen(xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if ev.Atom != atom {
			return
		}
		clients, err := ewmh.ClientListGet(xu)
		if err != nil {
			return
		}
		for _, id := range tracker.update(clients) {
			fn(id)
		}
	}).Connect(c.XUtil, c.Root)
	return nil
}

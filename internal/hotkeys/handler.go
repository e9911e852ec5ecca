package hotkeys

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/winplace/internal/platform"
)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	mu   sync.Mutex
	xu   *xgbutil.XUtil
	root xproto.Window
	// bound maps action names to the key sequence currently grabbed.
	bound map[string]string
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler. Backends without X11 access get
// a handler whose registrations fail.
func NewHandler(backend platform.Backend) *Handler {
	h := &Handler{bound: make(map[string]string)}
	if accessor, ok := backend.(x11Accessor); ok {
		h.xu = accessor.XUtil()
		h.root = accessor.RootWindow()
	}
	if h.xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(h.xu)
		})
	}
	return h
}

// binding is one action bound to a key sequence.
type binding struct {
	action string
	keys   string
}

// plan pairs configured key sequences with known actions in a stable order.
// Empty sequences are skipped and unknown actions are reported.
func plan(bindings map[string]string, actions map[string]func()) ([]binding, []error) {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []binding
	var errs []error
	for _, name := range names {
		keys := bindings[name]
		if keys == "" {
			continue
		}
		if _, ok := actions[name]; !ok {
			errs = append(errs, fmt.Errorf("hotkey %q: unknown action %q", keys, name))
			continue
		}
		out = append(out, binding{action: name, keys: keys})
	}
	return out, errs
}

// Bind replaces every binding made by h with bindings, a map from action
// name to key sequence. Failing bindings are logged and returned; the rest
// stay active.
func (h *Handler) Bind(bindings map[string]string, actions map[string]func()) []error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.xu == nil {
		return []error{fmt.Errorf("hotkeys need an X11 backend")}
	}
	if len(h.bound) > 0 {
		keybind.Detach(h.xu, h.root)
		h.bound = make(map[string]string)
	}

	todo, errs := plan(bindings, actions)
	for _, b := range todo {
		fn := actions[b.action]
		if err := h.RegisterFunc(b.keys, fn); err != nil {
			errs = append(errs, fmt.Errorf("failed to register %s hotkey %q: %w", b.action, b.keys, err))
			continue
		}
		h.bound[b.action] = b.keys
		log.Printf("Hotkey registered: %s -> %s", b.keys, b.action)
	}
	for _, err := range errs {
		log.Printf("Warning: %v", err)
	}
	return errs
}

// Bound returns a copy of the active bindings.
func (h *Handler) Bound() map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]string, len(h.bound))
	for k, v := range h.bound {
		out[k] = v
	}
	return out
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if h.xu == nil {
		return fmt.Errorf("hotkeys need an X11 backend")
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// configureIgnoreMods makes bindings fire regardless of CapsLock, NumLock
// and ScrollLock.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	locks := []uint16{uint16(xproto.ModMaskLock)}
	for _, keysym := range []string{"Num_Lock", "Scroll_Lock"} {
		mask := modMaskForKeysym(xu, keysym)
		if mask != 0 && !containsMask(locks, mask) {
			locks = append(locks, mask)
		}
	}
	xevent.IgnoreMods = lockCombinations(locks)
}

// lockCombinations returns every OR-combination of locks, including none.
func lockCombinations(locks []uint16) []uint16 {
	out := make([]uint16, 0, 1<<len(locks))
	for subset := 0; subset < (1 << len(locks)); subset++ {
		var mask uint16
		for bit := range locks {
			if subset&(1<<bit) != 0 {
				mask |= locks[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func containsMask(masks []uint16, m uint16) bool {
	for _, v := range masks {
		if v == m {
			return true
		}
	}
	return false
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}

package hotkeys

import (
	"reflect"
	"sort"
	"testing"

	"github.com/1broseidon/winplace/internal/heads"
	"github.com/1broseidon/winplace/internal/platform"
)

func TestPlanSkipsEmptyAndReportsUnknown(t *testing.T) {
	actions := map[string]func(){"fill": func() {}, "place": func() {}}
	got, errs := plan(map[string]string{
		"place":   "Mod4-p",
		"fill":    "Mod4-f",
		"nudge_x": "Mod4-x",
		"unused":  "",
	}, actions)

	want := []binding{{action: "fill", keys: "Mod4-f"}, {action: "place", keys: "Mod4-p"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("plan = %+v, want %+v", got, want)
	}
	if len(errs) != 1 {
		t.Fatalf("expected one unknown-action error, got %v", errs)
	}
}

func TestLockCombinations(t *testing.T) {
	got := lockCombinations([]uint16{2, 16, 128})
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []uint16{0, 2, 16, 18, 128, 130, 144, 146}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("lockCombinations = %v, want %v", got, want)
	}
}

func TestHandlerWithoutX11Fails(t *testing.T) {
	h := NewHandler(platform.NewFake(heads.Single(100, 100)))
	errs := h.Bind(map[string]string{"fill": "Mod4-f"}, map[string]func(){"fill": func() {}})
	if len(errs) != 1 {
		t.Fatalf("expected a single error, got %v", errs)
	}
	if len(h.Bound()) != 0 {
		t.Fatalf("expected no active bindings")
	}
	if err := h.RegisterFunc("Mod4-f", func() {}); err == nil {
		t.Fatalf("expected RegisterFunc to fail without X11")
	}
}

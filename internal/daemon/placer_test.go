package daemon

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/1broseidon/winplace/internal/config"
	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/heads"
	"github.com/1broseidon/winplace/internal/ipc"
	"github.com/1broseidon/winplace/internal/placement"
	"github.com/1broseidon/winplace/internal/platform"
)

func normalWindow(id placement.WindowID, x, y, w, h int) placement.Window {
	return placement.Window{
		ID: id, Name: "win", X: x, Y: y, Width: w, Height: h,
		Layer: placement.LayerNormal,
		Type:  placement.TypeNormal,
		Flags: placement.FlagVisible | placement.FlagManaged | placement.FlagResizable,
	}
}

func topPanel() placement.Window {
	return placement.Window{
		ID:     9,
		Layer:  placement.LayerDock,
		Type:   placement.TypeDock,
		Flags:  placement.FlagVisible | placement.FlagHasStrut | placement.FlagManaged,
		Struts: placement.FullStruts(geom.Rect{Width: 1000, Height: 800}, 0, 0, 30, 0),
	}
}

func newTestPlacer(t *testing.T, windows ...placement.Window) (*Placer, *platform.Fake) {
	t.Helper()
	fake := platform.NewFake(heads.Single(1000, 800), windows...)
	p, err := NewPlacer(fake, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewPlacer: %v", err)
	}
	return p, fake
}

func TestPlaceCentresActiveWindowInUsableArea(t *testing.T) {
	p, fake := newTestPlacer(t, topPanel(), normalWindow(1, 0, 0, 200, 100))
	fake.SetActive(1)

	data, err := p.Place(ipc.WindowPayload{})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	want := geom.Rect{X: 400, Y: 365, Width: 200, Height: 100}
	if data.After != want || !data.Moved || data.Window != 1 {
		t.Fatalf("unexpected placement %+v", data)
	}
	if got, _ := fake.Window(1); got.Client() != want {
		t.Fatalf("backend window not moved: %+v", got.Client())
	}
	if n := len(fake.Configured); n != 1 || fake.Configured[0].Mask != placement.ChangeX|placement.ChangeY {
		t.Fatalf("unexpected configure calls %+v", fake.Configured)
	}
	if st := p.Status(); st.Placements != 1 || st.PlacementMode != "center" || st.Monitors != 1 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestFillStopsAtNeighbour(t *testing.T) {
	p, fake := newTestPlacer(t, topPanel(), normalWindow(1, 400, 365, 200, 100), normalWindow(2, 700, 300, 100, 200))

	data, err := p.Fill(ipc.FillPayload{Window: 1, Axis: "horizontal"})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	want := geom.Rect{X: 0, Y: 365, Width: 700, Height: 100}
	if data.After != want || data.Mask != "x|width" {
		t.Fatalf("unexpected fill %+v", data)
	}
	if got, _ := fake.Window(1); got.Client() != want {
		t.Fatalf("backend window not filled: %+v", got.Client())
	}

	if _, err := p.Fill(ipc.FillPayload{Window: 1, Axis: "diagonal"}); err == nil {
		t.Fatalf("expected error for unknown axis")
	}
}

func TestConstrainReportsEdges(t *testing.T) {
	p, _ := newTestPlacer(t, topPanel(), normalWindow(3, -50, 10, 200, 100))

	data, err := p.Constrain(ipc.ConstrainPayload{Window: 3})
	if err != nil {
		t.Fatalf("Constrain: %v", err)
	}
	if data.After != (geom.Rect{X: 0, Y: 30, Width: 200, Height: 100}) {
		t.Fatalf("unexpected constrain result %+v", data.After)
	}
	if data.Edges != "top|left" {
		t.Fatalf("edges = %q", data.Edges)
	}
}

func TestNudgeUsesConfiguredStep(t *testing.T) {
	p, fake := newTestPlacer(t, normalWindow(1, 100, 100, 200, 100))
	fake.SetActive(1)

	data, err := p.Nudge(ipc.NudgePayload{Direction: "right"})
	if err != nil {
		t.Fatalf("Nudge: %v", err)
	}
	if data.After.X != 132 || data.Edges != "none" {
		t.Fatalf("unexpected nudge %+v", data)
	}

	data, err = p.Nudge(ipc.NudgePayload{Direction: "up", Step: 10})
	if err != nil {
		t.Fatalf("Nudge: %v", err)
	}
	if data.After.Y != 90 {
		t.Fatalf("expected explicit step, got %+v", data.After)
	}

	if _, err := p.Nudge(ipc.NudgePayload{Direction: "sideways"}); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestUsableAreaAndMonitors(t *testing.T) {
	p, _ := newTestPlacer(t, topPanel(), normalWindow(1, 100, 100, 200, 100))
	usable := geom.Rect{X: 0, Y: 30, Width: 1000, Height: 770}

	zero := 0
	area, err := p.UsableArea(ipc.UsableAreaPayload{Monitor: &zero})
	if err != nil {
		t.Fatalf("UsableArea: %v", err)
	}
	if area.Usable != usable || area.Bounds != (geom.Rect{Width: 1000, Height: 800}) {
		t.Fatalf("unexpected area %+v", area)
	}

	area, err = p.UsableArea(ipc.UsableAreaPayload{Window: 1})
	if err != nil {
		t.Fatalf("UsableArea by window: %v", err)
	}
	if area.Usable != usable {
		t.Fatalf("unexpected area by window %+v", area)
	}

	// The panel's own struts do not shrink its area.
	area, err = p.UsableArea(ipc.UsableAreaPayload{Window: 9})
	if err != nil {
		t.Fatalf("UsableArea by panel: %v", err)
	}
	if area.Usable != (geom.Rect{Width: 1000, Height: 800}) {
		t.Fatalf("unexpected panel area %+v", area)
	}

	bad := 3
	if _, err := p.UsableArea(ipc.UsableAreaPayload{Monitor: &bad}); err == nil {
		t.Fatalf("expected out of range error")
	}

	mons, err := p.Monitors()
	if err != nil {
		t.Fatalf("Monitors: %v", err)
	}
	if len(mons.Monitors) != 1 || mons.Monitors[0].Usable != usable || mons.Monitors[0].Width != 1000 {
		t.Fatalf("unexpected monitors %+v", mons)
	}
}

func TestTargetErrors(t *testing.T) {
	p, _ := newTestPlacer(t, normalWindow(1, 0, 0, 10, 10))

	if _, err := p.Place(ipc.WindowPayload{}); err == nil || !strings.Contains(err.Error(), "no active window") {
		t.Fatalf("expected no active window error, got %v", err)
	}
	if _, err := p.Place(ipc.WindowPayload{Window: 77}); err == nil || !strings.Contains(err.Error(), "not a managed client") {
		t.Fatalf("expected unknown window error, got %v", err)
	}
}

func TestBackendErrorsAreWrapped(t *testing.T) {
	p, fake := newTestPlacer(t, normalWindow(1, 0, 0, 200, 100))
	fake.Err = errors.New("x11 gone")

	_, err := p.Place(ipc.WindowPayload{Window: 1})
	if !errors.Is(err, fake.Err) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if st := p.Status(); st.Placements != 0 {
		t.Fatalf("failed placement counted: %+v", st)
	}
}

func TestHandleNewWindow(t *testing.T) {
	p, fake := newTestPlacer(t, topPanel())

	fake.AddWindow(normalWindow(4, 0, 0, 200, 100))
	p.HandleNewWindow(4)
	if got, _ := fake.Window(4); got.Client() != (geom.Rect{X: 400, Y: 365, Width: 200, Height: 100}) {
		t.Fatalf("new window not placed: %+v", got.Client())
	}

	p.HandleNewWindow(9)
	if got, _ := fake.Window(9); got.X != 0 || got.Y != 0 {
		t.Fatalf("dock moved: %+v", got)
	}

	cfg := config.DefaultConfig()
	cfg.AutoPlace = false
	if err := p.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	fake.AddWindow(normalWindow(5, 0, 0, 200, 100))
	p.HandleNewWindow(5)
	if got, _ := fake.Window(5); got.X != 0 {
		t.Fatalf("auto placement should be off: %+v", got)
	}
}

func TestReloadAppliesConfigAndNotifies(t *testing.T) {
	p, _ := newTestPlacer(t)
	if err := p.Reload(); err == nil {
		t.Fatalf("expected error without a loader")
	}

	var seen *config.Config
	p.OnReload(func(c *config.Config) { seen = c })
	p.SetLoader("/tmp/winplace.yaml", func() (*config.Config, error) {
		cfg := config.DefaultConfig()
		cfg.PlacementMode = "mouse"
		return cfg, nil
	})
	if err := p.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if seen == nil || seen.PlacementMode != "mouse" {
		t.Fatalf("listener not called with new config: %+v", seen)
	}
	if st := p.Status(); st.PlacementMode != "mouse" || st.ConfigPath != "/tmp/winplace.yaml" {
		t.Fatalf("unexpected status after reload %+v", st)
	}

	bad := config.DefaultConfig()
	bad.PlacementMode = "spiral"
	if err := p.ApplyConfig(bad); err == nil {
		t.Fatalf("expected invalid config to be rejected")
	}
	if p.Config().PlacementMode != "mouse" {
		t.Fatalf("invalid config replaced the active one")
	}
}

func TestActionsCoverConfiguredHotkeys(t *testing.T) {
	p, _ := newTestPlacer(t)
	actions := p.Actions()
	for name := range config.DefaultConfig().Hotkeys.Bindings() {
		if actions[name] == nil {
			t.Fatalf("no action for hotkey %q", name)
		}
	}
}

func TestConfigWatcherRelevance(t *testing.T) {
	dir := t.TempDir()
	w := NewConfigWatcher(filepath.Join(dir, "config.yaml"), func() {}, nil)

	cases := map[string]bool{
		filepath.Join(dir, "config.yaml"):              true,
		filepath.Join(dir, "config.d", "10-gaps.yaml"): true,
		filepath.Join(dir, "config.d", "notes.txt"):    false,
		filepath.Join(dir, "other.yaml"):               false,
	}
	for name, want := range cases {
		ev := fsnotify.Event{Name: name, Op: fsnotify.Write}
		if got := w.relevant(ev); got != want {
			t.Fatalf("relevant(%s) = %t, want %t", name, got, want)
		}
	}
}

func TestConfigWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("placement_mode: smart\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var calls atomic.Int32
	w := NewConfigWatcher(path, func() { calls.Add(1) }, nil)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Serve(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("watcher never fired")
		}
		if err := os.WriteFile(path, []byte("placement_mode: center\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Serve returned %v", err)
	}
}

func TestPaletteActionPassesActiveWindow(t *testing.T) {
	p, fake := newTestPlacer(t, normalWindow(0x2a, 0, 0, 200, 100))
	fake.SetActive(0x2a)

	var got []string
	orig := startCommand
	defer func() { startCommand = orig }()
	startCommand = func(cmd *exec.Cmd) error {
		got = cmd.Args[1:]
		return nil
	}

	p.Actions()["palette"]()
	want := []string{"palette", "--backend", "auto", "--window", "0x2a"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("palette args = %v, want %v", got, want)
	}
}

func TestApplyConfigIgnoresUnchangedConfig(t *testing.T) {
	p, _ := newTestPlacer(t)
	calls := 0
	p.OnReload(func(*config.Config) { calls++ })

	if err := p.ApplyConfig(config.DefaultConfig()); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	if calls != 0 {
		t.Fatalf("listeners ran for an identical config")
	}

	cfg := config.DefaultConfig()
	cfg.NudgeStep = 8
	if err := p.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	if calls != 1 || p.Config().NudgeStep != 8 {
		t.Fatalf("changed config not applied (calls=%d)", calls)
	}
}

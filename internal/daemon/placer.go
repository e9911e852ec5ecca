package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/1broseidon/winplace/internal/config"
	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/heads"
	"github.com/1broseidon/winplace/internal/ipc"
	"github.com/1broseidon/winplace/internal/nudge"
	"github.com/1broseidon/winplace/internal/placement"
	"github.com/1broseidon/winplace/internal/platform"
)

// ConfigLoader produces a fresh configuration for reloads.
type ConfigLoader func() (*config.Config, error)

// Placer runs placement operations against the live window system. Every
// operation takes a fresh snapshot and holds the placer lock until its
// result has been pushed to the backend.
type Placer struct {
	mu         sync.Mutex
	backend    platform.Backend
	cfg        *config.Config
	cfgHash    uint64
	params     placement.Params
	logger     *slog.Logger
	load       ConfigLoader
	configPath string
	onReload   []func(*config.Config)
	started    time.Time
	placements int
}

var _ ipc.Placer = (*Placer)(nil)

// NewPlacer creates a placer using cfg. logger may be nil.
func NewPlacer(backend platform.Backend, cfg *config.Config, logger *slog.Logger) (*Placer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	return &Placer{
		backend: backend,
		cfg:     cfg,
		cfgHash: configHash(cfg),
		params:  params,
		logger:  logger,
		started: time.Now(),
	}, nil
}

// SetLoader sets the function Reload uses to read the configuration and
// the path reported by Status.
func (p *Placer) SetLoader(path string, load ConfigLoader) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.configPath = path
	p.load = load
}

// OnReload registers fn to run after every successful configuration change.
func (p *Placer) OnReload(fn func(*config.Config)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onReload = append(p.onReload, fn)
}

// Config returns the active configuration.
func (p *Placer) Config() *config.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// Reload reads the configuration again and applies it.
func (p *Placer) Reload() error {
	p.mu.Lock()
	load := p.load
	p.mu.Unlock()
	if load == nil {
		return fmt.Errorf("no configuration source")
	}
	cfg, err := load()
	if err != nil {
		return err
	}
	return p.ApplyConfig(cfg)
}

// configHash returns 0 when cfg cannot be hashed, which never matches.
func configHash(cfg *config.Config) uint64 {
	h, err := hashstructure.Hash(cfg, hashstructure.FormatV2, nil)
	if err != nil {
		return 0
	}
	return h
}

// ApplyConfig swaps in cfg and notifies reload listeners. A configuration
// equal to the active one is ignored.
func (p *Placer) ApplyConfig(cfg *config.Config) error {
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	hash := configHash(cfg)
	p.mu.Lock()
	if hash != 0 && hash == p.cfgHash {
		p.mu.Unlock()
		p.logger.Debug("configuration unchanged")
		return nil
	}
	p.cfg = cfg
	p.cfgHash = hash
	p.params = params
	listeners := append([]func(*config.Config){}, p.onReload...)
	p.mu.Unlock()

	p.logger.Info("configuration applied", "placement_mode", cfg.PlacementMode, "auto_place", cfg.AutoPlace)
	for _, fn := range listeners {
		fn(cfg)
	}
	return nil
}

func (p *Placer) engine(h *heads.Heads, opts ...placement.Option) *placement.Engine {
	opts = append([]placement.Option{
		placement.WithPointer(p.backend),
		placement.WithLogger(p.logger),
	}, opts...)
	return placement.New(p.params, h, opts...)
}

// target resolves id, or the active window when id is zero, in a fresh
// snapshot. Callers hold p.mu.
func (p *Placer) target(id uint32) (*placement.Window, placement.Snapshot, *heads.Heads, error) {
	wid := placement.WindowID(id)
	if wid == 0 {
		active, err := p.backend.ActiveWindow()
		if err != nil {
			return nil, placement.Snapshot{}, nil, fmt.Errorf("no window given and no active window: %w", err)
		}
		wid = active
	}
	h, err := p.backend.Heads()
	if err != nil {
		return nil, placement.Snapshot{}, nil, fmt.Errorf("failed to read monitors: %w", err)
	}
	snap, err := p.backend.Snapshot()
	if err != nil {
		return nil, placement.Snapshot{}, nil, fmt.Errorf("failed to read windows: %w", err)
	}
	w := snap.Lookup(wid)
	if w == nil {
		return nil, placement.Snapshot{}, nil, fmt.Errorf("window %s is not a managed client", wid)
	}
	return w, snap, h, nil
}

func (p *Placer) commit(prev placement.Window, w *placement.Window, h *heads.Heads) (*ipc.PlacementData, error) {
	if err := platform.Commit(p.backend, prev, w); err != nil {
		return nil, fmt.Errorf("failed to move window %s: %w", w.ID, err)
	}
	data := result(prev, w, h)
	if data.Moved {
		p.placements++
	}
	return data, nil
}

func result(prev placement.Window, w *placement.Window, h *heads.Heads) *ipc.PlacementData {
	cx, cy := w.Frame().Center()
	return &ipc.PlacementData{
		Window:  uint32(w.ID),
		Name:    w.Name,
		Before:  prev.Client(),
		After:   w.Client(),
		Moved:   prev.Client() != w.Client(),
		Monitor: h.AtPoint(cx, cy),
	}
}

// Place runs initial placement on a window.
func (p *Placer) Place(req ipc.WindowPayload) (*ipc.PlacementData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, snap, h, err := p.target(req.Window)
	if err != nil {
		return nil, err
	}
	prev := *w
	p.engine(h).InitPosition(w, snap)
	return p.commit(prev, w, h)
}

// recorder forwards Configure calls to the backend and remembers the last.
type recorder struct {
	platform.Backend
	rect geom.Rect
	mask placement.ChangeMask
}

func (r *recorder) Configure(w *placement.Window, rect geom.Rect, mask placement.ChangeMask) error {
	r.rect, r.mask = rect, mask
	return r.Backend.Configure(w, rect, mask)
}

// Fill grows a window up to its neighbours.
func (p *Placer) Fill(req ipc.FillPayload) (*ipc.PlacementData, error) {
	axis, err := placement.ParseFillAxis(req.Axis)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	w, snap, h, err := p.target(req.Window)
	if err != nil {
		return nil, err
	}
	prev := *w
	rec := &recorder{Backend: p.backend}
	if err := p.engine(h, placement.WithConfigurer(rec)).Fill(w, snap, axis); err != nil {
		return nil, err
	}
	w.X, w.Y, w.Width, w.Height = applyMask(prev.Client(), rec.rect, rec.mask)
	data := result(prev, w, h)
	data.Mask = rec.mask.String()
	if data.Moved {
		p.placements++
	}
	return data, nil
}

func applyMask(cur, r geom.Rect, mask placement.ChangeMask) (x, y, width, height int) {
	x, y, width, height = cur.X, cur.Y, cur.Width, cur.Height
	if mask&placement.ChangeX != 0 {
		x = r.X
	}
	if mask&placement.ChangeY != 0 {
		y = r.Y
	}
	if mask&placement.ChangeWidth != 0 {
		width = r.Width
	}
	if mask&placement.ChangeHeight != 0 {
		height = r.Height
	}
	return x, y, width, height
}

// Constrain pulls a window back inside its monitor.
func (p *Placer) Constrain(req ipc.ConstrainPayload) (*ipc.PlacementData, error) {
	mode, err := placement.ParseConstrainMode(req.Mode)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	w, snap, h, err := p.target(req.Window)
	if err != nil {
		return nil, err
	}
	prev := *w
	edges := p.engine(h).Constrain(w, snap, mode)
	data, err := p.commit(prev, w, h)
	if err != nil {
		return nil, err
	}
	data.Edges = edges.String()
	return data, nil
}

// Nudge moves a window one step and keeps it reachable.
func (p *Placer) Nudge(req ipc.NudgePayload) (*ipc.PlacementData, error) {
	dir, err := nudge.ParseDirection(req.Direction)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	step := req.Step
	if step <= 0 {
		step = p.cfg.NudgeStep
	}
	w, snap, h, err := p.target(req.Window)
	if err != nil {
		return nil, err
	}
	prev := *w
	edges := nudge.Apply(p.engine(h), w, snap, dir, step)
	data, err := p.commit(prev, w, h)
	if err != nil {
		return nil, err
	}
	data.Edges = edges.String()
	return data, nil
}

// UsableArea reports the area left on a monitor after margins and struts.
func (p *Placer) UsableArea(req ipc.UsableAreaPayload) (*ipc.AreaData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	h, err := p.backend.Heads()
	if err != nil {
		return nil, fmt.Errorf("failed to read monitors: %w", err)
	}
	snap, err := p.backend.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to read windows: %w", err)
	}

	var (
		n       int
		exclude *placement.Window
	)
	switch {
	case req.Monitor != nil:
		n = *req.Monitor
		if n < 0 || n >= h.Count() {
			return nil, fmt.Errorf("monitor %d out of range (have %d)", n, h.Count())
		}
	case req.Window != 0:
		exclude = snap.Lookup(placement.WindowID(req.Window))
		if exclude == nil {
			return nil, fmt.Errorf("window %s is not a managed client", placement.WindowID(req.Window))
		}
		n = h.IndexAt(exclude.Frame().Center())
	default:
		x, y, err := p.backend.Position()
		if err != nil {
			return nil, fmt.Errorf("failed to query pointer: %w", err)
		}
		n = h.IndexAt(x, y)
	}

	mon := h.Geometry(n)
	return &ipc.AreaData{
		Monitor: n,
		Bounds:  mon,
		Usable:  p.engine(h).UsableArea(mon, snap, exclude),
	}, nil
}

// Monitors lists the monitors with their usable areas.
func (p *Placer) Monitors() (*ipc.MonitorsData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	h, err := p.backend.Heads()
	if err != nil {
		return nil, fmt.Errorf("failed to read monitors: %w", err)
	}
	snap, err := p.backend.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to read windows: %w", err)
	}
	e := p.engine(h)
	data := &ipc.MonitorsData{}
	for _, m := range h.List() {
		data.Monitors = append(data.Monitors, ipc.MonitorInfo{
			ID:     m.ID,
			Name:   m.Name,
			X:      m.Bounds.X,
			Y:      m.Bounds.Y,
			Width:  m.Bounds.Width,
			Height: m.Bounds.Height,
			Usable: e.UsableArea(m.Bounds, snap, nil),
		})
	}
	return data, nil
}

type windowManagerNamer interface {
	WindowManager() string
}

// Status reports the daemon state.
func (p *Placer) Status() ipc.StatusData {
	p.mu.Lock()
	defer p.mu.Unlock()

	status := ipc.StatusData{
		PlacementMode: p.params.Mode.String(),
		AutoPlace:     p.cfg.AutoPlace,
		Placements:    p.placements,
		ConfigPath:    p.configPath,
		UptimeSeconds: int64(time.Since(p.started).Seconds()),
		DaemonRunning: true,
	}
	if h, err := p.backend.Heads(); err == nil {
		status.Monitors = h.Count()
	}
	if wm, ok := p.backend.(windowManagerNamer); ok {
		status.WindowManager = wm.WindowManager()
	}
	return status
}

// HandleNewWindow places a client the window manager has just started
// managing, when auto placement is on. Docks and desktop windows are left
// where they are.
func (p *Placer) HandleNewWindow(id placement.WindowID) {
	p.mu.Lock()
	auto := p.cfg.AutoPlace
	p.mu.Unlock()
	if !auto {
		return
	}

	data, err := p.placeNew(id)
	if err != nil {
		p.logger.Warn("auto placement failed", "window", id, "err", err)
		return
	}
	if data != nil && data.Moved {
		p.logger.Info("placed new window", "window", id, "name", data.Name, "rect", data.After)
	}
}

func (p *Placer) placeNew(id placement.WindowID) (*ipc.PlacementData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, snap, h, err := p.target(uint32(id))
	if err != nil {
		return nil, err
	}
	if w.Is(placement.TypeDock | placement.TypeDesktop) {
		return nil, nil
	}
	prev := *w
	p.engine(h).InitPosition(w, snap)
	return p.commit(prev, w, h)
}

// Actions returns the hotkey actions, keyed by the names used in the
// hotkeys configuration section. Every action targets the active window.
func (p *Placer) Actions() map[string]func() {
	run := func(name string, op func() (*ipc.PlacementData, error)) func() {
		return func() {
			data, err := op()
			if err != nil {
				p.logger.Warn("hotkey action failed", "action", name, "err", err)
				return
			}
			p.logger.Debug("hotkey action", "action", name, "window", data.Window, "rect", data.After)
		}
	}
	fill := func(axis string) func() (*ipc.PlacementData, error) {
		return func() (*ipc.PlacementData, error) { return p.Fill(ipc.FillPayload{Axis: axis}) }
	}
	nudgeTo := func(dir string) func() (*ipc.PlacementData, error) {
		return func() (*ipc.PlacementData, error) { return p.Nudge(ipc.NudgePayload{Direction: dir}) }
	}
	return map[string]func(){
		"fill":            run("fill", fill("both")),
		"fill_horizontal": run("fill_horizontal", fill("horizontal")),
		"fill_vertical":   run("fill_vertical", fill("vertical")),
		"place":           run("place", func() (*ipc.PlacementData, error) { return p.Place(ipc.WindowPayload{}) }),
		"nudge_left":      run("nudge_left", nudgeTo("left")),
		"nudge_right":     run("nudge_right", nudgeTo("right")),
		"nudge_up":        run("nudge_up", nudgeTo("up")),
		"nudge_down":      run("nudge_down", nudgeTo("down")),
		"palette":         p.launchPalette,
	}
}

var startCommand = func(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// launchPalette runs "winplace palette" for the window that is active now,
// before the launcher takes focus.
func (p *Placer) launchPalette() {
	exe, err := os.Executable()
	if err != nil {
		p.logger.Warn("palette: failed to find executable", "err", err)
		return
	}
	args := []string{"palette", "--backend", p.Config().PaletteBackend}
	if id, err := p.backend.ActiveWindow(); err == nil && id != 0 {
		args = append(args, "--window", fmt.Sprintf("0x%x", uint32(id)))
	}
	cmd := exec.Command(exe, args...)
	cmd.Stderr = os.Stderr
	if err := startCommand(cmd); err != nil {
		p.logger.Warn("palette: failed to launch", "err", err)
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/winplace/internal/ipc"
)

// windowID is a flag value accepting decimal or 0x-prefixed X window IDs.
type windowID uint32

func (w *windowID) String() string {
	if w == nil || *w == 0 {
		return ""
	}
	return fmt.Sprintf("0x%x", uint32(*w))
}

func (w *windowID) Set(s string) error {
	id, err := parseWindowID(s)
	if err != nil {
		return err
	}
	*w = windowID(id)
	return nil
}

func parseWindowID(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty window id")
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(n), nil
}

type windowFlags struct {
	fs     *flag.FlagSet
	window windowID
	socket string
	asJSON bool
}

func newWindowFlags(name, usage string, extra ...string) *windowFlags {
	wf := &windowFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	wf.fs.SetOutput(os.Stderr)
	wf.fs.Var(&wf.window, "window", "Target window ID, decimal or 0x hex (default: active window)")
	wf.fs.StringVar(&wf.socket, "socket", "", "IPC socket path")
	wf.fs.BoolVar(&wf.asJSON, "json", false, "Print JSON")
	wf.fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: winplace %s [--window ID] [--json]%s\n", name, strings.Join(extra, ""))
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, usage)
		wf.fs.PrintDefaults()
	}
	return wf
}

// parse returns an exit code, or -1 to continue.
func (wf *windowFlags) parse(args []string, maxArgs int) int {
	if err := wf.fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if wf.fs.NArg() > maxArgs {
		fmt.Fprintf(os.Stderr, "%s: too many arguments\n", wf.fs.Name())
		wf.fs.Usage()
		return 2
	}
	return -1
}

func (wf *windowFlags) finish(data *ipc.PlacementData, err error) int {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if wf.asJSON {
		return printJSON(os.Stdout, data)
	}
	writePlacement(os.Stdout, data)
	return 0
}

func runPlace(args []string) int {
	wf := newWindowFlags("place", "Run the initial placement policy on a window.")
	if code := wf.parse(args, 0); code >= 0 {
		return code
	}

	ctx, cancel := context.WithTimeout(context.Background(), ipcTimeout)
	defer cancel()
	return wf.finish(newClient(wf.socket).Place(ctx, uint32(wf.window)))
}

func runFill(args []string) int {
	wf := newWindowFlags("fill", "Grow a window until it meets its neighbours or the usable area edge.", " [both|horizontal|vertical]")
	if code := wf.parse(args, 1); code >= 0 {
		return code
	}
	axis := "both"
	if wf.fs.NArg() == 1 {
		axis = wf.fs.Arg(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ipcTimeout)
	defer cancel()
	return wf.finish(newClient(wf.socket).Fill(ctx, uint32(wf.window), axis))
}

func runConstrain(args []string) int {
	wf := newWindowFlags("constrain", "Pull a window back inside the usable area of its monitor.", " [full|minimal]")
	if code := wf.parse(args, 1); code >= 0 {
		return code
	}
	mode := "full"
	if wf.fs.NArg() == 1 {
		mode = wf.fs.Arg(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ipcTimeout)
	defer cancel()
	return wf.finish(newClient(wf.socket).Constrain(ctx, uint32(wf.window), mode))
}

func runNudge(args []string) int {
	wf := newWindowFlags("nudge", "Move a window by a fixed step, keeping its title bar reachable.", " [--step N] <left|right|up|down>")
	step := wf.fs.Int("step", 0, "Pixels to move (default: nudge_step from config)")
	if code := wf.parse(args, 1); code >= 0 {
		return code
	}
	if wf.fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "nudge requires a direction")
		wf.fs.Usage()
		return 2
	}
	if *step < 0 {
		fmt.Fprintln(os.Stderr, "--step must be positive")
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), ipcTimeout)
	defer cancel()
	return wf.finish(newClient(wf.socket).Nudge(ctx, uint32(wf.window), wf.fs.Arg(0), *step))
}

func runUsable(args []string) int {
	wf := newWindowFlags("usable", "Show a monitor's bounds and the area left after panel struts.", " [--monitor N]")
	monitor := wf.fs.Int("monitor", -1, "Monitor index (default: the window's monitor, or the one under the pointer)")
	if code := wf.parse(args, 0); code >= 0 {
		return code
	}

	p := ipc.UsableAreaPayload{Window: uint32(wf.window)}
	if *monitor >= 0 {
		p.Monitor = monitor
	}

	ctx, cancel := context.WithTimeout(context.Background(), ipcTimeout)
	defer cancel()
	area, err := newClient(wf.socket).UsableArea(ctx, p)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if wf.asJSON {
		return printJSON(os.Stdout, area)
	}
	fmt.Printf("monitor: %d\n", area.Monitor)
	fmt.Printf("bounds:  %s\n", area.Bounds)
	fmt.Printf("usable:  %s\n", area.Usable)
	return 0
}

func writePlacement(w io.Writer, d *ipc.PlacementData) {
	if d == nil {
		return
	}
	if d.Name != "" {
		fmt.Fprintf(w, "window:  0x%x (%s)\n", d.Window, d.Name)
	} else {
		fmt.Fprintf(w, "window:  0x%x\n", d.Window)
	}
	fmt.Fprintf(w, "before:  %s\n", d.Before)
	fmt.Fprintf(w, "after:   %s\n", d.After)
	fmt.Fprintf(w, "moved:   %v\n", d.Moved)
	if d.Edges != "" {
		fmt.Fprintf(w, "edges:   %s\n", d.Edges)
	}
	if d.Mask != "" {
		fmt.Fprintf(w, "changed: %s\n", d.Mask)
	}
	fmt.Fprintf(w, "monitor: %s\n", d.Monitor)
}

func writeMonitors(w io.Writer, data *ipc.MonitorsData) {
	fmt.Fprintf(w, "%-4s %-12s %-24s %s\n", "ID", "NAME", "BOUNDS", "USABLE")
	for _, m := range data.Monitors {
		bounds := fmt.Sprintf("%dx%d+%d+%d", m.Width, m.Height, m.X, m.Y)
		fmt.Fprintf(w, "%-4d %-12s %-24s %s\n", m.ID, m.Name, bounds, m.Usable)
	}
}

func printJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

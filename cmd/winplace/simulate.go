package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/preview"
	"github.com/1broseidon/winplace/internal/scene"
)

func runSimulate(args []string) int {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	width := fs.Int("width", 0, "Preview width in columns (default: terminal width)")
	height := fs.Int("height", 0, "Preview height in rows")
	noColor := fs.Bool("no-color", false, "Disable colour output")
	noPreview := fs.Bool("no-preview", false, "Only print the outcome")
	verbose := fs.Bool("verbose", false, "Log engine decisions to stderr")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winplace simulate [options] <scene.yaml>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Replay the target action of a scene file without touching the display.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "simulate requires exactly one scene file")
		fs.Usage()
		return 2
	}

	opts := preview.TerminalOptions(os.Stdout)
	if *width > 0 {
		opts.Width = *width
		if *height <= 0 {
			opts.Height = max(opts.Width*9/32, 4)
		}
	}
	if *height > 0 {
		opts.Height = *height
	}
	if *noColor {
		opts.Color = false
	}

	var logger *slog.Logger
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	s, err := scene.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := simulateScene(os.Stdout, s, opts, !*noPreview, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func simulateScene(w io.Writer, s *scene.Scene, opts preview.Options, draw bool, logger *slog.Logger) error {
	world, out, err := scene.Simulate(s, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "action:  %s\n", out.Action)
	fmt.Fprintf(w, "window:  %d\n", uint32(out.Window))
	fmt.Fprintf(w, "before:  %s\n", out.Before)
	fmt.Fprintf(w, "after:   %s\n", out.After)
	fmt.Fprintf(w, "moved:   %v\n", out.Moved())
	if out.Edges != 0 {
		fmt.Fprintf(w, "edges:   %s\n", out.Edges)
	}
	if out.Mask != 0 {
		fmt.Fprintf(w, "changed: %s\n", out.Mask)
	}
	fmt.Fprintf(w, "flags:   %s\n", out.Flags)
	fmt.Fprintf(w, "monitor: %s\n", out.Monitor)
	fmt.Fprintf(w, "usable:  %s\n", out.Usable)

	if !draw {
		return nil
	}
	monitors := make([]geom.Rect, 0, world.Heads.Count())
	for _, h := range world.Heads.List() {
		monitors = append(monitors, h.Bounds)
	}
	before := out.Before
	pic := preview.Picture{
		Screen:   world.Heads.Screen(),
		Monitors: monitors,
		Usable:   out.Usable,
		Windows:  world.Snapshot.Stack,
		Target:   world.Target,
		Before:   &before,
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, preview.Render(pic, opts))
	fmt.Fprintln(w, preview.Legend())
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/1broseidon/winplace/internal/config"
	"github.com/1broseidon/winplace/internal/palette"
)

func runPalette(args []string) int {
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	backendName := fs.String("backend", "", "Launcher: auto, rofi, fuzzel, wofi or dmenu (default: palette_backend from config)")
	socket := fs.String("socket", "", "IPC socket path")
	pick := fs.String("pick", "", "Run the action best matching this text without showing a menu")
	var window windowID
	fs.Var(&window, "window", "Target window ID (default: active window)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winplace palette [--backend NAME] [--window ID] [--pick TEXT]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a placement action from a launcher menu.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *pick != "" {
		item, err := palette.Match(*pick)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data, err := palette.Run(context.Background(), newClient(*socket), item.Action, uint32(window))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("action:  %s\n", item.Action)
		writePlacement(os.Stdout, data)
		return 0
	}

	name := *backendName
	if name == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Printf("Palette: failed to load config, detecting launcher: %v", err)
		} else {
			name = cfg.PaletteBackend
		}
	}
	backend, err := palette.NewBackend(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// The client applies its own timeout; the user may take a while to pick.
	if _, err := palette.Choose(context.Background(), backend, newClient(*socket), uint32(window)); err != nil {
		if errors.Is(err, palette.ErrCancelled) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

package daemon

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/winplace/internal/config"
	"github.com/1broseidon/winplace/internal/displayenv"
	"github.com/1broseidon/winplace/internal/hotkeys"
	"github.com/1broseidon/winplace/internal/ipc"
	"github.com/1broseidon/winplace/internal/platform"
)

// Options configure Run.
type Options struct {
	// ConfigPath defaults to config.DefaultConfigPath().
	ConfigPath string
	// SocketPath defaults to the runtime directory socket.
	SocketPath string
}

// Run starts the placement daemon and blocks until it is interrupted.
func Run(opts Options) error {
	path := opts.ConfigPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return err
		}
	}
	load := func() (*config.Config, error) {
		res, err := config.LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}

	cfg, err := load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Printf("Configuration loaded (mode: %s, auto place: %t)", cfg.PlacementMode, cfg.AutoPlace)

	display, err := displayenv.Resolve(os.Environ(), displayenv.Settings{Display: cfg.Display, XAuthority: cfg.XAuthority})
	if err != nil {
		return err
	}
	if err := displayenv.Apply(display); err != nil {
		return fmt.Errorf("failed to export display environment: %w", err)
	}
	log.Printf("Using display %s (from %s)", display.Display, display.DisplayOrigin)
	backend, err := platform.NewLinuxBackendFromDisplay(display.Display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	placer, err := NewPlacer(backend, cfg, logger)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	placer.SetLoader(path, load)

	hotkeyHandler := hotkeys.NewHandler(backend)
	bind := func(c *config.Config) {
		hotkeyHandler.Bind(c.Hotkeys.Bindings(), placer.Actions())
	}
	bind(cfg)
	placer.OnReload(bind)
	placer.OnReload(func(c *config.Config) { level.Set(c.SlogLevel()) })

	if err := backend.WatchNewClients(placer.HandleNewWindow); err != nil {
		return fmt.Errorf("failed to watch for new windows: %w", err)
	}

	ipcServer, err := ipc.NewServer(opts.SocketPath, placer)
	if err != nil {
		return err
	}

	reload := func(reason string) {
		if err := placer.Reload(); err != nil {
			log.Printf("Config reload (%s) failed: %v", reason, err)
			return
		}
		log.Printf("Config reloaded (%s)", reason)
	}

	sup := suture.New("winplace", suture.Spec{
		EventHook: func(ev suture.Event) {
			logger.Warn("supervisor event", "event", ev.String())
		},
	})
	sup.Add(ipcServer)
	sup.Add(NewConfigWatcher(path, func() { reload("file changed") }, logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	supDone := sup.ServeBackground(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					log.Println("Received SIGHUP, reloading config...")
					reload("SIGHUP")
					continue
				}
				log.Println("Shutting down winplace daemon...")
				cancel()
				backend.Quit()
				return
			}
		}
	}()

	log.Println("winplace daemon started successfully")
	log.Println("Entering event loop...")
	backend.EventLoop()

	cancel()
	if err := <-supDone; err != nil && err != context.Canceled {
		return err
	}
	return nil
}

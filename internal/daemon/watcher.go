package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/thejerf/suture/v4"
)

const defaultDebounce = 250 * time.Millisecond

// ConfigWatcher calls OnChange when the configuration file or one of its
// config.d drop-ins changes. Bursts of events are coalesced.
type ConfigWatcher struct {
	path     string
	onChange func()
	debounce time.Duration
	logger   *slog.Logger
}

// NewConfigWatcher watches the directory holding path.
func NewConfigWatcher(path string, onChange func(), logger *slog.Logger) *ConfigWatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ConfigWatcher{
		path:     path,
		onChange: onChange,
		debounce: defaultDebounce,
		logger:   logger,
	}
}

func (w *ConfigWatcher) String() string {
	return "config-watcher"
}

// relevant reports whether ev touches the config file or a drop-in.
func (w *ConfigWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if name == filepath.Clean(w.path) {
		return true
	}
	dropIns := filepath.Join(filepath.Dir(w.path), "config.d")
	if filepath.Dir(name) != dropIns {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Serve watches until ctx is cancelled. A missing configuration directory
// stops the service for good.
func (w *ConfigWatcher) Serve(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if _, err := os.Stat(dir); err != nil {
		w.logger.Info("config directory missing, not watching", "dir", dir)
		return suture.ErrDoNotRestart
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	dropIns := filepath.Join(dir, "config.d")
	if info, err := os.Stat(dropIns); err == nil && info.IsDir() {
		if err := watcher.Add(dropIns); err != nil {
			w.logger.Warn("failed to watch drop-in directory", "dir", dropIns, "err", err)
		}
	}
	w.logger.Debug("watching configuration", "dir", dir)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("config watcher closed")
			}
			if ev.Name == dropIns && ev.Has(fsnotify.Create) {
				if err := watcher.Add(dropIns); err != nil {
					w.logger.Warn("failed to watch drop-in directory", "dir", dropIns, "err", err)
				}
				continue
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("config change", "op", ev.Op.String(), "file", ev.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("config watcher closed")
			}
			w.logger.Warn("config watcher error", "err", err)
		case <-fire:
			fire = nil
			w.onChange()
		}
	}
}

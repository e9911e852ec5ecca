// Package tui is the interactive editor behind `winplace config edit`.
package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Daemon is the part of the IPC client the editor needs. *ipc.Client
// satisfies it.
type Daemon interface {
	Ping(ctx context.Context) error
	Reload(ctx context.Context) error
}

// Options configure Run.
type Options struct {
	// ConfigPath defaults to config.DefaultConfigPath().
	ConfigPath string
	// Daemon is told to reload after every save. May be nil.
	Daemon Daemon
}

// Run opens the editor on the terminal and blocks until the user quits.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("config edit requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	m, err := newModel(opts)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	return nil
}

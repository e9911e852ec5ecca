// Package palette offers placement actions through an external dmenu-style
// launcher (rofi, fuzzel, wofi or dmenu).
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the launcher without picking.
var ErrCancelled = errors.New("palette cancelled")

// Item is one row of the launcher.
type Item struct {
	Label    string
	Action   string
	Icon     string
	IsHeader bool
}

// Backend shows items and returns the chosen one.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
	Name() string
}

var lookPath = exec.LookPath

var backendOrder = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// DetectBackend returns the first launcher found in PATH.
func DetectBackend() (string, error) {
	for _, name := range backendOrder {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(backendOrder, ", "))
}

// NewBackend creates a launcher by name; "" and "auto" detect one.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}
	kind, ok := kinds[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(backendOrder, ", "))
	}
	if _, err := lookPath(name); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", name)
	}
	return &launcher{command: name, kind: kind, run: runLauncher}, nil
}

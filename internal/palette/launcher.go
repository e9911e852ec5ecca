package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type launcherKind struct {
	// byIndex launchers print the selected row number instead of its text.
	byIndex bool
	markup  bool
	icons   bool
}

var kinds = map[string]launcherKind{
	"rofi":   {byIndex: true, markup: true, icons: true},
	"fuzzel": {byIndex: true, icons: true},
	"wofi":   {markup: true},
	"dmenu":  {},
}

type launcher struct {
	command string
	kind    launcherKind
	run     func(name string, args []string, stdin string) (string, error)
}

func (l *launcher) Name() string { return l.command }

func (l *launcher) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}
	for {
		out, err := l.run(l.command, l.args(prompt, items), l.input(items))
		if err != nil {
			return Item{}, err
		}
		item, err := l.parse(strings.TrimSpace(out), items)
		if err != nil {
			return Item{}, err
		}
		// Only rofi can make headers unselectable.
		if item.IsHeader {
			continue
		}
		return item, nil
	}
}

func (l *launcher) args(prompt string, items []Item) []string {
	switch l.command {
	case "rofi":
		args := []string{"-dmenu", "-i", "-p", prompt, "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		for i, it := range items {
			if !it.IsHeader {
				return append(args, "-selected-row", strconv.Itoa(i))
			}
		}
		return args
	case "fuzzel":
		return []string{"--dmenu", "--prompt", prompt, "--index"}
	case "wofi":
		return []string{"--dmenu", "--prompt", prompt, "--allow-markup"}
	default:
		return []string{"-i", "-p", prompt}
	}
}

func (l *launcher) input(items []Item) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		label := sanitize(it.Label)
		if l.kind.markup {
			label = html.EscapeString(label)
			if it.IsHeader {
				label = "<b>" + label + "</b>"
			}
		}
		if l.command == "rofi" {
			var attrs []string
			if it.IsHeader {
				attrs = append(attrs, "nonselectable", "true")
			}
			if it.Icon != "" && l.kind.icons {
				attrs = append(attrs, "icon", strings.ReplaceAll(sanitize(it.Icon), "\x1f", " "))
			}
			if len(attrs) > 0 {
				label += "\x00" + strings.Join(attrs, "\x1f")
			}
		}
		lines = append(lines, label)
	}
	return strings.Join(lines, "\n")
}

func (l *launcher) parse(selection string, items []Item) (Item, error) {
	if selection == "" {
		return Item{}, ErrCancelled
	}
	if l.kind.byIndex {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, it := range items {
		if sanitize(it.Label) == selection {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\x00", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func runLauncher(name string, args []string, stdin string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err == nil {
		return string(out), nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// 1 is "nothing selected", 130 is Ctrl+C.
		if code := exitErr.ExitCode(); code == 1 || code == 130 {
			return "", ErrCancelled
		}
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return "", fmt.Errorf("%s failed: %s", name, msg)
	}
	return "", fmt.Errorf("%s failed: %w", name, err)
}

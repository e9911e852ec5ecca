package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winplace/internal/config"
)

type section int

const (
	sectionPlacement section = iota
	sectionMargins
	sectionHotkeys
	sectionDaemon
	sectionCount
)

func (s section) String() string {
	switch s {
	case sectionPlacement:
		return "Placement"
	case sectionMargins:
		return "Margins"
	case sectionHotkeys:
		return "Hotkeys"
	case sectionDaemon:
		return "Daemon"
	default:
		return "?"
	}
}

type row struct {
	label string
	value string
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func orUnbound(s string) string {
	if s == "" {
		return "(unbound)"
	}
	return s
}

// sectionRows lists what the section shows for cfg.
func sectionRows(cfg *config.Config, s section) []row {
	switch s {
	case sectionPlacement:
		return []row{
			{"Placement mode", cfg.PlacementMode},
			{"Placement ratio", strconv.Itoa(cfg.PlacementRatio) + "%"},
			{"Snap to border", onOff(cfg.SnapToBorder)},
			{"Minimum visible", strconv.Itoa(cfg.MinVisible) + "px"},
			{"Auto place", onOff(cfg.AutoPlace)},
			{"Nudge step", strconv.Itoa(cfg.NudgeStep) + "px"},
		}
	case sectionMargins:
		return []row{
			{"Top", strconv.Itoa(cfg.Margins.Top) + "px"},
			{"Bottom", strconv.Itoa(cfg.Margins.Bottom) + "px"},
			{"Left", strconv.Itoa(cfg.Margins.Left) + "px"},
			{"Right", strconv.Itoa(cfg.Margins.Right) + "px"},
		}
	case sectionHotkeys:
		h := cfg.Hotkeys
		var rows []row
		for _, f := range hotkeyFields(&h) {
			rows = append(rows, row{f.name, orUnbound(*f.value)})
		}
		return rows
	case sectionDaemon:
		return []row{
			{"Palette backend", cfg.PaletteBackend},
			{"Log level", cfg.LogLevel},
		}
	}
	return nil
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(22).
			Align(lipgloss.Right).
			PaddingRight(2)

	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func renderTabBar(active section, width int) string {
	tabs := make([]string, 0, sectionCount)
	for s := section(0); s < sectionCount; s++ {
		label := fmt.Sprintf("%d:%s", s+1, s)
		if s == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().Width(width).MarginBottom(1).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func renderStatusBar(path string, connected bool, width int) string {
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
	state := "daemon not running"
	if connected {
		dot = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		state = "daemon connected"
	}
	return lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1).
		Render(dot + " " + state + "  " + path)
}

// renderSection draws the rows of s, highlighting values that differ from
// the last saved config.
func renderSection(cfg, saved *config.Config, s section, width, height int) string {
	current := sectionRows(cfg, s)
	before := sectionRows(saved, s)

	lines := []string{""}
	for i, r := range current {
		style := valueStyle
		if i < len(before) && before[i].value != r.value {
			style = changedStyle
		}
		lines = append(lines, labelStyle.Render(r.label)+style.Render(r.value))
	}
	if warnings := cfg.Warnings(); len(warnings) > 0 {
		lines = append(lines, "")
		for _, w := range warnings {
			lines = append(lines, warnStyle.Render("  warning: "+w))
		}
	}
	lines = append(lines, "", dimStyle.Render("  Press 'e' to edit "+strings.ToLower(s.String())))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

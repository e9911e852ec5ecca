package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/winplace/internal/config"
)

// formValues holds the editable settings as huh binds them. Numbers are kept
// as strings and converted in apply.
type formValues struct {
	Mode           string
	Ratio          string
	SnapToBorder   bool
	MinVisible     string
	AutoPlace      bool
	NudgeStep      string
	PaletteBackend string
	LogLevel       string

	Top    string
	Bottom string
	Left   string
	Right  string

	Hotkeys config.Hotkeys
}

func valuesFrom(cfg *config.Config) *formValues {
	return &formValues{
		Mode:           cfg.PlacementMode,
		Ratio:          strconv.Itoa(cfg.PlacementRatio),
		SnapToBorder:   cfg.SnapToBorder,
		MinVisible:     strconv.Itoa(cfg.MinVisible),
		AutoPlace:      cfg.AutoPlace,
		NudgeStep:      strconv.Itoa(cfg.NudgeStep),
		PaletteBackend: cfg.PaletteBackend,
		LogLevel:       cfg.LogLevel,
		Top:            strconv.Itoa(cfg.Margins.Top),
		Bottom:         strconv.Itoa(cfg.Margins.Bottom),
		Left:           strconv.Itoa(cfg.Margins.Left),
		Right:          strconv.Itoa(cfg.Margins.Right),
		Hotkeys:        cfg.Hotkeys,
	}
}

// apply copies v into cfg. cfg is left untouched when a value does not parse
// or the result fails config validation.
func (v *formValues) apply(cfg *config.Config) error {
	next := *cfg
	numbers := []struct {
		key string
		raw string
		dst *int
	}{
		{"placement_ratio", v.Ratio, &next.PlacementRatio},
		{"min_visible", v.MinVisible, &next.MinVisible},
		{"nudge_step", v.NudgeStep, &next.NudgeStep},
		{"margins.top", v.Top, &next.Margins.Top},
		{"margins.bottom", v.Bottom, &next.Margins.Bottom},
		{"margins.left", v.Left, &next.Margins.Left},
		{"margins.right", v.Right, &next.Margins.Right},
	}
	for _, n := range numbers {
		parsed, err := strconv.Atoi(strings.TrimSpace(n.raw))
		if err != nil {
			return fmt.Errorf("%s: %q is not a whole number", n.key, n.raw)
		}
		*n.dst = parsed
	}

	next.PlacementMode = v.Mode
	next.SnapToBorder = v.SnapToBorder
	next.AutoPlace = v.AutoPlace
	next.PaletteBackend = v.PaletteBackend
	next.LogLevel = v.LogLevel
	next.Hotkeys = trimHotkeys(v.Hotkeys)

	if err := next.Check(); err != nil {
		return err
	}
	*cfg = next
	return nil
}

func trimHotkeys(h config.Hotkeys) config.Hotkeys {
	for _, p := range hotkeyFields(&h) {
		*p.value = strings.TrimSpace(*p.value)
	}
	return h
}

type hotkeyField struct {
	name  string
	value *string
}

func hotkeyFields(h *config.Hotkeys) []hotkeyField {
	return []hotkeyField{
		{"Place", &h.Place},
		{"Fill", &h.Fill},
		{"Fill horizontal", &h.FillHorizontal},
		{"Fill vertical", &h.FillVertical},
		{"Nudge left", &h.NudgeLeft},
		{"Nudge right", &h.NudgeRight},
		{"Nudge up", &h.NudgeUp},
		{"Nudge down", &h.NudgeDown},
		{"Palette", &h.Palette},
	}
}

func wholeNumber(least int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("enter a whole number")
		}
		if n < least {
			return fmt.Errorf("must be at least %d", least)
		}
		return nil
	}
}

// form builds the huh form editing one section of v.
func (v *formValues) form(s section, width int) *huh.Form {
	var fields []huh.Field
	switch s {
	case sectionPlacement:
		fields = []huh.Field{
			huh.NewSelect[string]().
				Title("Placement mode").
				Description("Policy for windows that are too small for smart placement").
				Options(huh.NewOptions("center", "mouse", "smart")...).
				Value(&v.Mode),
			huh.NewInput().
				Title("Placement ratio").
				Description("Windows covering at least this percent of the work area are smart placed (100 disables)").
				Validate(wholeNumber(0)).
				Value(&v.Ratio),
			huh.NewConfirm().
				Title("Snap to border").
				Description("Push smart placed windows against the work area edge their hole touches").
				Value(&v.SnapToBorder),
			huh.NewInput().
				Title("Minimum visible").
				Description("Pixels of frame kept on screen when a window is pushed off").
				Validate(wholeNumber(0)).
				Value(&v.MinVisible),
			huh.NewConfirm().
				Title("Auto place").
				Description("Place new windows as the window manager maps them").
				Value(&v.AutoPlace),
			huh.NewInput().
				Title("Nudge step").
				Description("Pixels moved per nudge").
				Validate(wholeNumber(1)).
				Value(&v.NudgeStep),
		}
	case sectionMargins:
		fields = []huh.Field{
			huh.NewInput().Title("Margin: Top").Validate(wholeNumber(0)).Value(&v.Top),
			huh.NewInput().Title("Margin: Bottom").Validate(wholeNumber(0)).Value(&v.Bottom),
			huh.NewInput().Title("Margin: Left").Validate(wholeNumber(0)).Value(&v.Left),
			huh.NewInput().Title("Margin: Right").Validate(wholeNumber(0)).Value(&v.Right),
		}
	case sectionHotkeys:
		for _, hk := range hotkeyFields(&v.Hotkeys) {
			fields = append(fields, huh.NewInput().
				Title(hk.name).
				Placeholder("unbound").
				Value(hk.value))
		}
	case sectionDaemon:
		fields = []huh.Field{
			huh.NewSelect[string]().
				Title("Palette backend").
				Options(huh.NewOptions("auto", "rofi", "fuzzel", "wofi", "dmenu")...).
				Value(&v.PaletteBackend),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warning", "error")...).
				Value(&v.LogLevel),
		}
	}

	if width < 40 {
		width = 40
	}
	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(width).
		WithShowHelp(true).
		WithShowErrors(true)
}

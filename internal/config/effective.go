package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig layers a merged raw config over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.PlacementMode != nil {
		cfg.PlacementMode = strings.ToLower(strings.TrimSpace(*raw.PlacementMode))
	}
	if raw.PlacementRatio != nil {
		cfg.PlacementRatio = *raw.PlacementRatio
	}
	if raw.SnapToBorder != nil {
		cfg.SnapToBorder = *raw.SnapToBorder
	}
	if raw.MinVisible != nil {
		cfg.MinVisible = *raw.MinVisible
	}
	if raw.Margins != nil {
		cfg.Margins.Top = derefInt(raw.Margins.Top, cfg.Margins.Top)
		cfg.Margins.Bottom = derefInt(raw.Margins.Bottom, cfg.Margins.Bottom)
		cfg.Margins.Left = derefInt(raw.Margins.Left, cfg.Margins.Left)
		cfg.Margins.Right = derefInt(raw.Margins.Right, cfg.Margins.Right)
	}
	if raw.AutoPlace != nil {
		cfg.AutoPlace = *raw.AutoPlace
	}
	if raw.Hotkeys != nil {
		h := raw.Hotkeys
		cfg.Hotkeys.Fill = derefString(h.Fill, cfg.Hotkeys.Fill)
		cfg.Hotkeys.FillHorizontal = derefString(h.FillHorizontal, cfg.Hotkeys.FillHorizontal)
		cfg.Hotkeys.FillVertical = derefString(h.FillVertical, cfg.Hotkeys.FillVertical)
		cfg.Hotkeys.Place = derefString(h.Place, cfg.Hotkeys.Place)
		cfg.Hotkeys.NudgeLeft = derefString(h.NudgeLeft, cfg.Hotkeys.NudgeLeft)
		cfg.Hotkeys.NudgeRight = derefString(h.NudgeRight, cfg.Hotkeys.NudgeRight)
		cfg.Hotkeys.NudgeUp = derefString(h.NudgeUp, cfg.Hotkeys.NudgeUp)
		cfg.Hotkeys.NudgeDown = derefString(h.NudgeDown, cfg.Hotkeys.NudgeDown)
		cfg.Hotkeys.Palette = derefString(h.Palette, cfg.Hotkeys.Palette)
	}
	if raw.NudgeStep != nil {
		cfg.NudgeStep = *raw.NudgeStep
	}
	if raw.LogLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*raw.LogLevel))
		if level == "warn" {
			level = "warning"
		}
		cfg.LogLevel = level
	}
	if raw.PaletteBackend != nil {
		cfg.PaletteBackend = strings.ToLower(strings.TrimSpace(*raw.PaletteBackend))
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefString(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

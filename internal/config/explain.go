package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	placement_mode
//	placement_ratio
//	snap_to_border
//	min_visible
//	margins
//	margins.top
//	auto_place
//	hotkeys
//	hotkeys.fill
//	hotkeys.nudge_left
//	nudge_step
//	log_level
//	palette_backend
//	display
//	xauthority
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "placement_mode":
		return leaf(cfg.PlacementMode)
	case "placement_ratio":
		return leaf(cfg.PlacementRatio)
	case "snap_to_border":
		return leaf(cfg.SnapToBorder)
	case "min_visible":
		return leaf(cfg.MinVisible)
	case "auto_place":
		return leaf(cfg.AutoPlace)
	case "nudge_step":
		return leaf(cfg.NudgeStep)
	case "log_level":
		return leaf(cfg.LogLevel)
	case "palette_backend":
		return leaf(cfg.PaletteBackend)
	case "display":
		return leaf(cfg.Display)
	case "xauthority":
		return leaf(cfg.XAuthority)
	case "margins":
		if len(parts) == 1 {
			return cfg.Margins, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "top":
			return cfg.Margins.Top, nil
		case "bottom":
			return cfg.Margins.Bottom, nil
		case "left":
			return cfg.Margins.Left, nil
		case "right":
			return cfg.Margins.Right, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	case "hotkeys":
		if len(parts) == 1 {
			return cfg.Hotkeys, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "fill":
			return cfg.Hotkeys.Fill, nil
		case "fill_horizontal":
			return cfg.Hotkeys.FillHorizontal, nil
		case "fill_vertical":
			return cfg.Hotkeys.FillVertical, nil
		case "place":
			return cfg.Hotkeys.Place, nil
		case "nudge_left":
			return cfg.Hotkeys.NudgeLeft, nil
		case "nudge_right":
			return cfg.Hotkeys.NudgeRight, nil
		case "nudge_up":
			return cfg.Hotkeys.NudgeUp, nil
		case "nudge_down":
			return cfg.Hotkeys.NudgeDown, nil
		case "palette":
			return cfg.Hotkeys.Palette, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

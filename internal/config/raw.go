package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawMargins struct {
	Top    *int `yaml:"top"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
	Right  *int `yaml:"right"`
}

type RawHotkeys struct {
	Fill           *string `yaml:"fill"`
	FillHorizontal *string `yaml:"fill_horizontal"`
	FillVertical   *string `yaml:"fill_vertical"`
	Place          *string `yaml:"place"`
	NudgeLeft      *string `yaml:"nudge_left"`
	NudgeRight     *string `yaml:"nudge_right"`
	NudgeUp        *string `yaml:"nudge_up"`
	NudgeDown      *string `yaml:"nudge_down"`
	Palette        *string `yaml:"palette"`
}

// RawConfig mirrors the on-disk YAML. Every field is a pointer so that a file
// only overrides the keys it actually sets.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	PlacementMode  *string     `yaml:"placement_mode"`
	PlacementRatio *int        `yaml:"placement_ratio"`
	SnapToBorder   *bool       `yaml:"snap_to_border"`
	MinVisible     *int        `yaml:"min_visible"`
	Margins        *RawMargins `yaml:"margins"`
	AutoPlace      *bool       `yaml:"auto_place"`
	Hotkeys        *RawHotkeys `yaml:"hotkeys"`
	NudgeStep      *int        `yaml:"nudge_step"`
	LogLevel       *string     `yaml:"log_level"`
	PaletteBackend *string     `yaml:"palette_backend"`
	Display        *string     `yaml:"display"`
	XAuthority     *string     `yaml:"xauthority"`
}

func (r RawConfig) merge(o RawConfig) RawConfig {
	out := r
	if o.PlacementMode != nil {
		out.PlacementMode = o.PlacementMode
	}
	if o.PlacementRatio != nil {
		out.PlacementRatio = o.PlacementRatio
	}
	if o.SnapToBorder != nil {
		out.SnapToBorder = o.SnapToBorder
	}
	if o.MinVisible != nil {
		out.MinVisible = o.MinVisible
	}
	if o.Margins != nil {
		out.Margins = mergeRawMargins(out.Margins, o.Margins)
	}
	if o.AutoPlace != nil {
		out.AutoPlace = o.AutoPlace
	}
	if o.Hotkeys != nil {
		out.Hotkeys = mergeRawHotkeys(out.Hotkeys, o.Hotkeys)
	}
	if o.NudgeStep != nil {
		out.NudgeStep = o.NudgeStep
	}
	if o.LogLevel != nil {
		out.LogLevel = o.LogLevel
	}
	if o.PaletteBackend != nil {
		out.PaletteBackend = o.PaletteBackend
	}
	if o.Display != nil {
		out.Display = o.Display
	}
	if o.XAuthority != nil {
		out.XAuthority = o.XAuthority
	}
	return out
}

func mergeRawMargins(base *RawMargins, o *RawMargins) *RawMargins {
	out := RawMargins{}
	if base != nil {
		out = *base
	}
	if o.Top != nil {
		out.Top = o.Top
	}
	if o.Bottom != nil {
		out.Bottom = o.Bottom
	}
	if o.Left != nil {
		out.Left = o.Left
	}
	if o.Right != nil {
		out.Right = o.Right
	}
	return &out
}

func mergeRawHotkeys(base *RawHotkeys, o *RawHotkeys) *RawHotkeys {
	out := RawHotkeys{}
	if base != nil {
		out = *base
	}
	pick := func(dst **string, src *string) {
		if src != nil {
			*dst = src
		}
	}
	pick(&out.Fill, o.Fill)
	pick(&out.FillHorizontal, o.FillHorizontal)
	pick(&out.FillVertical, o.FillVertical)
	pick(&out.Place, o.Place)
	pick(&out.NudgeLeft, o.NudgeLeft)
	pick(&out.NudgeRight, o.NudgeRight)
	pick(&out.NudgeUp, o.NudgeUp)
	pick(&out.NudgeDown, o.NudgeDown)
	pick(&out.Palette, o.Palette)
	return &out
}

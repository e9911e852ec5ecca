package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winplace/internal/placement"
)

// Margins reserves pixels at each screen edge in addition to panel struts.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// Hotkeys holds the X key sequences bound by the daemon. An empty sequence
// leaves the action unbound.
type Hotkeys struct {
	Fill           string `yaml:"fill"`
	FillHorizontal string `yaml:"fill_horizontal"`
	FillVertical   string `yaml:"fill_vertical"`
	Place          string `yaml:"place"`
	NudgeLeft      string `yaml:"nudge_left"`
	NudgeRight     string `yaml:"nudge_right"`
	NudgeUp        string `yaml:"nudge_up"`
	NudgeDown      string `yaml:"nudge_down"`
	Palette        string `yaml:"palette"`
}

// Bindings returns the non-empty hotkeys keyed by their YAML name.
func (h Hotkeys) Bindings() map[string]string {
	out := make(map[string]string)
	add := func(name, seq string) {
		if strings.TrimSpace(seq) != "" {
			out[name] = seq
		}
	}
	add("fill", h.Fill)
	add("fill_horizontal", h.FillHorizontal)
	add("fill_vertical", h.FillVertical)
	add("place", h.Place)
	add("nudge_left", h.NudgeLeft)
	add("nudge_right", h.NudgeRight)
	add("nudge_up", h.NudgeUp)
	add("nudge_down", h.NudgeDown)
	add("palette", h.Palette)
	return out
}

// Config holds the application configuration.
type Config struct {
	PlacementMode  string  `yaml:"placement_mode"`
	PlacementRatio int     `yaml:"placement_ratio"`
	SnapToBorder   bool    `yaml:"snap_to_border"`
	MinVisible     int     `yaml:"min_visible"`
	Margins        Margins `yaml:"margins"`
	AutoPlace      bool    `yaml:"auto_place"`
	Hotkeys        Hotkeys `yaml:"hotkeys"`
	NudgeStep      int     `yaml:"nudge_step"`
	LogLevel       string  `yaml:"log_level"`
	PaletteBackend string  `yaml:"palette_backend"`
	Display        string  `yaml:"display,omitempty"`
	XAuthority     string  `yaml:"xauthority,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		PlacementMode:  "center",
		PlacementRatio: 20,
		SnapToBorder:   false,
		MinVisible:     placement.MinVisible,
		AutoPlace:      true,
		Hotkeys: Hotkeys{
			Fill:           "Mod4-Mod1-f",
			FillHorizontal: "Mod4-Mod1-h",
			FillVertical:   "Mod4-Mod1-v",
			Place:          "Mod4-Mod1-p",
			NudgeLeft:      "Mod4-Mod1-Left",
			NudgeRight:     "Mod4-Mod1-Right",
			NudgeUp:        "Mod4-Mod1-Up",
			NudgeDown:      "Mod4-Mod1-Down",
			Palette:        "Mod4-Mod1-space",
		},
		NudgeStep:      32,
		LogLevel:       "info",
		PaletteBackend: "auto",
	}
}

// Params converts the placement keys into engine parameters.
func (c *Config) Params() (placement.Params, error) {
	mode, err := placement.ParseMode(c.PlacementMode)
	if err != nil {
		return placement.Params{}, err
	}
	return placement.Params{
		Margins: placement.Margins{
			Top:    c.Margins.Top,
			Bottom: c.Margins.Bottom,
			Left:   c.Margins.Left,
			Right:  c.Margins.Right,
		},
		Mode:         mode,
		Ratio:        c.PlacementRatio,
		SnapToBorder: c.SnapToBorder,
		MinVisible:   c.MinVisible,
	}, nil
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SaveTo writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) SaveTo(path string) error {
	if err := c.Check(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks c and prints any warnings to stderr.
func (c *Config) Validate() error {
	if err := c.Check(); err != nil {
		return err
	}
	for _, w := range c.Warnings() {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	return nil
}

// Check reports the first invalid key of c as a *ValidationError.
func (c *Config) Check() error {
	if _, err := placement.ParseMode(c.PlacementMode); err != nil {
		return &ValidationError{Path: "placement_mode", Err: fmt.Errorf("placement_mode must be one of: smart, center, mouse")}
	}
	if c.PlacementRatio < 0 {
		return &ValidationError{Path: "placement_ratio", Err: fmt.Errorf("placement_ratio must be >= 0")}
	}
	if c.MinVisible < 0 {
		return &ValidationError{Path: "min_visible", Err: fmt.Errorf("min_visible must be >= 0")}
	}
	if c.Margins.Top < 0 {
		return &ValidationError{Path: "margins.top", Err: fmt.Errorf("margin must be >= 0")}
	}
	if c.Margins.Bottom < 0 {
		return &ValidationError{Path: "margins.bottom", Err: fmt.Errorf("margin must be >= 0")}
	}
	if c.Margins.Left < 0 {
		return &ValidationError{Path: "margins.left", Err: fmt.Errorf("margin must be >= 0")}
	}
	if c.Margins.Right < 0 {
		return &ValidationError{Path: "margins.right", Err: fmt.Errorf("margin must be >= 0")}
	}
	if c.NudgeStep <= 0 {
		return &ValidationError{Path: "nudge_step", Err: fmt.Errorf("nudge_step must be > 0")}
	}
	switch c.PaletteBackend {
	case "auto", "rofi", "fuzzel", "wofi", "dmenu":
	default:
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: auto, rofi, fuzzel, wofi, dmenu")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	return nil
}

// Warnings lists settings that are valid but probably not what was meant.
func (c *Config) Warnings() []string {
	if c == nil {
		return nil
	}
	var warnings []string

	bindings := c.Hotkeys.Bindings()
	bySeq := make(map[string][]string)
	for name, seq := range bindings {
		bySeq[seq] = append(bySeq[seq], name)
	}
	for seq, names := range bySeq {
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		warnings = append(warnings, fmt.Sprintf("hotkey %q is bound to %s; only one will fire", seq, strings.Join(names, ", ")))
	}
	sort.Strings(warnings)

	if c.PlacementRatio > 100 {
		warnings = append(warnings, fmt.Sprintf("placement_ratio %d is above 100; smart placement will never run", c.PlacementRatio))
	}
	return warnings
}

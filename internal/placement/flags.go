package placement

import (
	"fmt"
	"strings"
)

// Edge records which sides of a window a constraint pass clamped.
type Edge uint8

const (
	EdgeTop Edge = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

var edgeNames = []string{"top", "bottom", "left", "right"}

func (e Edge) String() string {
	return bitNames(uint64(e), edgeNames)
}

// ChangeMask tells the configure sink which fields of a proposed geometry
// must be applied.
type ChangeMask uint8

const (
	ChangeX ChangeMask = 1 << iota
	ChangeY
	ChangeWidth
	ChangeHeight
)

var changeNames = []string{"x", "y", "width", "height"}

func (m ChangeMask) String() string {
	return bitNames(uint64(m), changeNames)
}

// FillAxis selects the directions a fill operation grows a window in.
type FillAxis uint8

const (
	FillHorizontal FillAxis = 1 << iota
	FillVertical

	FillBoth = FillHorizontal | FillVertical
)

func (a FillAxis) String() string {
	switch a {
	case FillHorizontal:
		return "horizontal"
	case FillVertical:
		return "vertical"
	case FillBoth:
		return "both"
	default:
		return fmt.Sprintf("FillAxis(%d)", uint8(a))
	}
}

// ParseFillAxis accepts "horizontal", "vertical" and "both" (plus the short
// forms h, v and hv).
func ParseFillAxis(s string) (FillAxis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "horiz", "h":
		return FillHorizontal, nil
	case "vertical", "vert", "v":
		return FillVertical, nil
	case "both", "", "hv", "all":
		return FillBoth, nil
	default:
		return 0, fmt.Errorf("unknown fill axis %q", s)
	}
}

// Mode is the automatic placement policy.
type Mode int

const (
	ModeSmart Mode = iota
	ModeCenter
	ModeMouse
)

func (m Mode) String() string {
	switch m {
	case ModeSmart:
		return "smart"
	case ModeCenter:
		return "center"
	case ModeMouse:
		return "mouse"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a configuration value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "smart":
		return ModeSmart, nil
	case "center", "centre":
		return ModeCenter, nil
	case "mouse", "pointer":
		return ModeMouse, nil
	default:
		return 0, fmt.Errorf("unknown placement mode %q (valid: smart, center, mouse)", s)
	}
}

// ConstrainMode selects how much of a window must stay on screen.
type ConstrainMode int

const (
	// ConstrainFull keeps the whole frame inside the monitor and out of struts.
	ConstrainFull ConstrainMode = iota
	// ConstrainMinimal only keeps a sliver of the frame reachable.
	ConstrainMinimal
)

func (m ConstrainMode) String() string {
	if m == ConstrainMinimal {
		return "minimal"
	}
	return "full"
}

// ParseConstrainMode accepts "full" and "minimal".
func ParseConstrainMode(s string) (ConstrainMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "":
		return ConstrainFull, nil
	case "minimal", "min":
		return ConstrainMinimal, nil
	default:
		return 0, fmt.Errorf("unknown constrain mode %q", s)
	}
}

func bitNames(v uint64, names []string) string {
	if v == 0 {
		return "none"
	}
	var parts []string
	for i, name := range names {
		if v&(1<<uint(i)) != 0 {
			parts = append(parts, name)
			v &^= 1 << uint(i)
		}
	}
	if v != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", v))
	}
	return strings.Join(parts, "|")
}

func parseBitNames(names []string, all []string) (uint64, error) {
	var v uint64
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		found := false
		for i, n := range all {
			if n == name {
				v |= 1 << uint(i)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown name %q (valid: %s)", raw, strings.Join(all, ", "))
		}
	}
	return v, nil
}

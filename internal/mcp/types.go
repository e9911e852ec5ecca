package mcp

import "github.com/1broseidon/winplace/internal/geom"

// WindowInput selects a window. Zero means the active window.
type WindowInput struct {
	Window uint32 `json:"window,omitempty" jsonschema:"X window ID of the client (default: the active window)"`
}

// FillWindowInput is the input for the fill_window tool.
type FillWindowInput struct {
	Window uint32 `json:"window,omitempty" jsonschema:"X window ID of the client (default: the active window)"`
	Axis   string `json:"axis,omitempty" jsonschema:"Direction to grow: both, horizontal or vertical (default: both)"`
}

// ConstrainWindowInput is the input for the constrain_window tool.
type ConstrainWindowInput struct {
	Window uint32 `json:"window,omitempty" jsonschema:"X window ID of the client (default: the active window)"`
	Mode   string `json:"mode,omitempty" jsonschema:"full pulls the whole frame inside the usable area, minimal only keeps min_visible pixels and the title bar on screen (default: full)"`
}

// NudgeWindowInput is the input for the nudge_window tool.
type NudgeWindowInput struct {
	Window    uint32 `json:"window,omitempty" jsonschema:"X window ID of the client (default: the active window)"`
	Direction string `json:"direction" jsonschema:"One of left, right, up, down"`
	Step      int    `json:"step,omitempty" jsonschema:"Pixels to move (default: nudge_step from config)"`
}

// UsableAreaInput is the input for the usable_area tool.
type UsableAreaInput struct {
	Window  uint32 `json:"window,omitempty" jsonschema:"Report the monitor holding this window, ignoring its own struts"`
	Monitor *int   `json:"monitor,omitempty" jsonschema:"Monitor index; takes precedence over window"`
}

// PlacementOutput describes a window before and after an operation.
type PlacementOutput struct {
	Window  uint32    `json:"window"`
	Name    string    `json:"name,omitempty"`
	Before  geom.Rect `json:"before"`
	After   geom.Rect `json:"after"`
	Moved   bool      `json:"moved"`
	Edges   string    `json:"edges,omitempty"`
	Mask    string    `json:"mask,omitempty"`
	Monitor geom.Rect `json:"monitor"`
}

// UsableAreaOutput is the output for the usable_area tool.
type UsableAreaOutput struct {
	Monitor int       `json:"monitor"`
	Bounds  geom.Rect `json:"bounds"`
	Usable  geom.Rect `json:"usable"`
}

// ListMonitorsInput is the (empty) input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorInfo describes a single monitor.
type MonitorInfo struct {
	ID     int       `json:"id"`
	Name   string    `json:"name"`
	Bounds geom.Rect `json:"bounds"`
	Usable geom.Rect `json:"usable"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
	Count    int           `json:"count"`
}

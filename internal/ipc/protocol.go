package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/winplace/internal/geom"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandPlace       CommandType = "PLACE"
	CommandFill        CommandType = "FILL"
	CommandConstrain   CommandType = "CONSTRAIN"
	CommandNudge       CommandType = "NUDGE"
	CommandUsableArea  CommandType = "USABLE_AREA"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	PlacementMode string `json:"placement_mode"`
	AutoPlace     bool   `json:"auto_place"`
	Placements    int    `json:"placements"`
	Monitors      int    `json:"monitors"`
	WindowManager string `json:"window_manager,omitempty"`
	ConfigPath    string `json:"config_path,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int       `json:"id"`
	Name   string    `json:"name"`
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Usable geom.Rect `json:"usable"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// WindowPayload names the window an operation applies to. Zero means the
// active window.
type WindowPayload struct {
	Window uint32 `json:"window,omitempty"`
}

// FillPayload is the payload of FILL. Axis is horizontal, vertical or both.
type FillPayload struct {
	Window uint32 `json:"window,omitempty"`
	Axis   string `json:"axis,omitempty"`
}

// ConstrainPayload is the payload of CONSTRAIN. Mode is full or minimal.
type ConstrainPayload struct {
	Window uint32 `json:"window,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

// NudgePayload is the payload of NUDGE. A zero step uses the configured one.
type NudgePayload struct {
	Window    uint32 `json:"window,omitempty"`
	Direction string `json:"direction"`
	Step      int    `json:"step,omitempty"`
}

// UsableAreaPayload selects a monitor by index, or by the window whose
// frame centre lies on it. With neither the monitor under the pointer is used.
type UsableAreaPayload struct {
	Window  uint32 `json:"window,omitempty"`
	Monitor *int   `json:"monitor,omitempty"`
}

// PlacementData describes the outcome of a window operation.
type PlacementData struct {
	Window  uint32    `json:"window"`
	Name    string    `json:"name,omitempty"`
	Before  geom.Rect `json:"before"`
	After   geom.Rect `json:"after"`
	Moved   bool      `json:"moved"`
	Edges   string    `json:"edges,omitempty"`
	Mask    string    `json:"mask,omitempty"`
	Monitor geom.Rect `json:"monitor"`
}

// AreaData is the usable area of one monitor.
type AreaData struct {
	Monitor int       `json:"monitor"`
	Bounds  geom.Rect `json:"bounds"`
	Usable  geom.Rect `json:"usable"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// decodePayload unmarshals an optional payload. An absent payload leaves v
// at its zero value.
func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/winplace/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for a daemon listening on socketPath.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(ctx context.Context, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out.
func (c *Client) call(ctx context.Context, command CommandType, payload, out interface{}) error {
	req := &Request{Command: command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = raw
	}

	resp, err := c.sendRequest(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload(ctx context.Context) error {
	return c.call(ctx, CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus(ctx context.Context) (*StatusData, error) {
	var status StatusData
	if err := c.call(ctx, CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors(ctx context.Context) (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.call(ctx, CommandGetMonitors, nil, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

// Place runs initial placement on a window.
func (c *Client) Place(ctx context.Context, window uint32) (*PlacementData, error) {
	return c.placement(ctx, CommandPlace, WindowPayload{Window: window})
}

// Fill grows a window into the free space around it.
func (c *Client) Fill(ctx context.Context, window uint32, axis string) (*PlacementData, error) {
	return c.placement(ctx, CommandFill, FillPayload{Window: window, Axis: axis})
}

// Constrain pulls a window back on screen.
func (c *Client) Constrain(ctx context.Context, window uint32, mode string) (*PlacementData, error) {
	return c.placement(ctx, CommandConstrain, ConstrainPayload{Window: window, Mode: mode})
}

// Nudge moves a window one step in a direction.
func (c *Client) Nudge(ctx context.Context, window uint32, direction string, step int) (*PlacementData, error) {
	return c.placement(ctx, CommandNudge, NudgePayload{Window: window, Direction: direction, Step: step})
}

// UsableArea reports the usable area of a monitor.
func (c *Client) UsableArea(ctx context.Context, p UsableAreaPayload) (*AreaData, error) {
	var area AreaData
	if err := c.call(ctx, CommandUsableArea, p, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

func (c *Client) placement(ctx context.Context, command CommandType, payload interface{}) (*PlacementData, error) {
	var data PlacementData
	if err := c.call(ctx, command, payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.GetStatus(ctx)
	return err
}

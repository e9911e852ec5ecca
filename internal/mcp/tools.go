package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/ipc"
	"github.com/1broseidon/winplace/internal/nudge"
	"github.com/1broseidon/winplace/internal/placement"
)

func placementOutput(d *ipc.PlacementData) PlacementOutput {
	if d == nil {
		return PlacementOutput{}
	}
	return PlacementOutput{
		Window:  d.Window,
		Name:    d.Name,
		Before:  d.Before,
		After:   d.After,
		Moved:   d.Moved,
		Edges:   d.Edges,
		Mask:    d.Mask,
		Monitor: d.Monitor,
	}
}

func rectOf(m ipc.MonitorInfo) geom.Rect {
	return geom.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

func (s *Server) logResult(tool string, out PlacementOutput, err error) {
	if err != nil {
		s.logger.Warn("tool failed", "tool", tool, "err", err)
		return
	}
	s.logger.Info("tool done", "tool", tool, "window", out.Window, "moved", out.Moved, "after", out.After.String())
}

func (s *Server) handlePlaceWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, PlacementOutput, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	data, err := s.daemon.Place(ctx, args.Window)
	out := placementOutput(data)
	s.logResult("place_window", out, err)
	if err != nil {
		return nil, PlacementOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleFillWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args FillWindowInput) (*mcpsdk.CallToolResult, PlacementOutput, error) {
	axis, err := placement.ParseFillAxis(args.Axis)
	if err != nil {
		return nil, PlacementOutput{}, err
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	data, err := s.daemon.Fill(ctx, args.Window, axis.String())
	out := placementOutput(data)
	s.logResult("fill_window", out, err)
	if err != nil {
		return nil, PlacementOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleConstrainWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args ConstrainWindowInput) (*mcpsdk.CallToolResult, PlacementOutput, error) {
	mode, err := placement.ParseConstrainMode(args.Mode)
	if err != nil {
		return nil, PlacementOutput{}, err
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	data, err := s.daemon.Constrain(ctx, args.Window, mode.String())
	out := placementOutput(data)
	s.logResult("constrain_window", out, err)
	if err != nil {
		return nil, PlacementOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleNudgeWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args NudgeWindowInput) (*mcpsdk.CallToolResult, PlacementOutput, error) {
	dir, err := nudge.ParseDirection(args.Direction)
	if err != nil {
		return nil, PlacementOutput{}, err
	}
	if args.Step < 0 {
		return nil, PlacementOutput{}, fmt.Errorf("step must be positive, got %d", args.Step)
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	data, err := s.daemon.Nudge(ctx, args.Window, dir.String(), args.Step)
	out := placementOutput(data)
	s.logResult("nudge_window", out, err)
	if err != nil {
		return nil, PlacementOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleUsableArea(ctx context.Context, _ *mcpsdk.CallToolRequest, args UsableAreaInput) (*mcpsdk.CallToolResult, UsableAreaOutput, error) {
	if args.Monitor != nil && *args.Monitor < 0 {
		return nil, UsableAreaOutput{}, fmt.Errorf("monitor index must not be negative")
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	area, err := s.daemon.UsableArea(ctx, ipc.UsableAreaPayload{Window: args.Window, Monitor: args.Monitor})
	if err != nil {
		s.logger.Warn("tool failed", "tool", "usable_area", "err", err)
		return nil, UsableAreaOutput{}, err
	}
	return nil, UsableAreaOutput{Monitor: area.Monitor, Bounds: area.Bounds, Usable: area.Usable}, nil
}

func (s *Server) handleListMonitors(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	data, err := s.daemon.GetMonitors(ctx)
	if err != nil {
		s.logger.Warn("tool failed", "tool", "list_monitors", "err", err)
		return nil, ListMonitorsOutput{}, err
	}

	out := ListMonitorsOutput{Monitors: make([]MonitorInfo, 0, len(data.Monitors))}
	for _, m := range data.Monitors {
		out.Monitors = append(out.Monitors, MonitorInfo{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: rectOf(m),
			Usable: m.Usable,
		})
	}
	out.Count = len(out.Monitors)
	return nil, out, nil
}

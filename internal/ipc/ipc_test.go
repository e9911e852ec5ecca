package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/winplace/internal/geom"
)

type stubPlacer struct {
	mu       sync.Mutex
	reloads  int
	lastFill FillPayload
	nudgeErr error
	area     UsableAreaPayload
}

func (s *stubPlacer) Status() StatusData {
	return StatusData{PlacementMode: "smart", AutoPlace: true, Monitors: 2, DaemonRunning: true}
}

func (s *stubPlacer) Monitors() (*MonitorsData, error) {
	return &MonitorsData{Monitors: []MonitorInfo{{ID: 0, Name: "DP-1", Width: 1920, Height: 1080}}}, nil
}

func (s *stubPlacer) Place(p WindowPayload) (*PlacementData, error) {
	return &PlacementData{Window: p.Window, After: geom.Rect{X: 10, Y: 20, Width: 30, Height: 40}, Moved: true}, nil
}

func (s *stubPlacer) Fill(p FillPayload) (*PlacementData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFill = p
	return &PlacementData{Window: p.Window, Mask: "x|width"}, nil
}

func (s *stubPlacer) Constrain(p ConstrainPayload) (*PlacementData, error) {
	return &PlacementData{Window: p.Window, Edges: p.Mode}, nil
}

func (s *stubPlacer) Nudge(p NudgePayload) (*PlacementData, error) {
	if s.nudgeErr != nil {
		return nil, s.nudgeErr
	}
	return &PlacementData{Window: p.Window}, nil
}

func (s *stubPlacer) UsableArea(p UsableAreaPayload) (*AreaData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.area = p
	return &AreaData{Monitor: 1, Usable: geom.Rect{Y: 30, Width: 1920, Height: 1050}}, nil
}

func (s *stubPlacer) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloads++
	return nil
}

func startServer(t *testing.T, p Placer) *Client {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "winplace.sock")
	srv, err := NewServer(sock, p)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientWithSocket(sock)
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"FILL","payload":{"window":7,"axis":"vertical"}}` + "\n"))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.Command != CommandFill {
		t.Fatalf("command = %q", req.Command)
	}
	var p FillPayload
	if err := decodePayload(req.Payload, &p); err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if p.Window != 7 || p.Axis != "vertical" {
		t.Fatalf("payload = %+v", p)
	}

	if _, err := ParseRequest([]byte(`{}`)); err == nil {
		t.Fatalf("expected error for a request without command")
	}
	if _, err := ParseRequest([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestResponseEncoding(t *testing.T) {
	resp, err := NewOKResponse(AreaData{Monitor: 2})
	if err != nil {
		t.Fatalf("NewOKResponse: %v", err)
	}
	data, err := resp.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if string(decoded["status"]) != `"OK"` {
		t.Fatalf("status = %s", decoded["status"])
	}
	if _, ok := decoded["error"]; ok {
		t.Fatalf("OK response should omit error")
	}

	errResp := NewErrorResponse("boom")
	if errResp.Status != "ERROR" || errResp.Error != "boom" {
		t.Fatalf("unexpected error response %+v", errResp)
	}
}

func TestClientServerRoundTrip(t *testing.T) {
	p := &stubPlacer{}
	c := startServer(t, p)
	ctx := context.Background()

	status, err := c.GetStatus(ctx)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.PlacementMode != "smart" || status.Monitors != 2 || !status.DaemonRunning {
		t.Fatalf("unexpected status %+v", status)
	}

	mons, err := c.GetMonitors(ctx)
	if err != nil {
		t.Fatalf("GetMonitors: %v", err)
	}
	if len(mons.Monitors) != 1 || mons.Monitors[0].Name != "DP-1" {
		t.Fatalf("unexpected monitors %+v", mons)
	}

	placed, err := c.Place(ctx, 42)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if placed.Window != 42 || placed.After != (geom.Rect{X: 10, Y: 20, Width: 30, Height: 40}) {
		t.Fatalf("unexpected placement %+v", placed)
	}

	if _, err := c.Fill(ctx, 5, "horizontal"); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	p.mu.Lock()
	lastFill := p.lastFill
	p.mu.Unlock()
	if lastFill != (FillPayload{Window: 5, Axis: "horizontal"}) {
		t.Fatalf("server saw fill payload %+v", lastFill)
	}

	cons, err := c.Constrain(ctx, 9, "minimal")
	if err != nil {
		t.Fatalf("Constrain: %v", err)
	}
	if cons.Edges != "minimal" {
		t.Fatalf("unexpected constrain result %+v", cons)
	}

	mon := 1
	area, err := c.UsableArea(ctx, UsableAreaPayload{Monitor: &mon})
	if err != nil {
		t.Fatalf("UsableArea: %v", err)
	}
	p.mu.Lock()
	seen := p.area
	p.mu.Unlock()
	if area.Usable.Y != 30 || seen.Monitor == nil || *seen.Monitor != 1 {
		t.Fatalf("unexpected usable area %+v (payload %+v)", area, seen)
	}

	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reloads != 1 {
		t.Fatalf("reloads = %d", p.reloads)
	}
}

func TestClientSurfacesDaemonErrors(t *testing.T) {
	p := &stubPlacer{nudgeErr: errors.New("no active window")}
	c := startServer(t, p)

	_, err := c.Nudge(context.Background(), 0, "left", 0)
	if err == nil || !strings.Contains(err.Error(), "no active window") {
		t.Fatalf("expected daemon error, got %v", err)
	}

	if err := c.call(context.Background(), CommandType("BOGUS"), nil, nil); err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestClientWithoutDaemon(t *testing.T) {
	c := NewClientWithSocket(filepath.Join(t.TempDir(), "missing.sock"))
	if err := c.Ping(context.Background()); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func serveInBackground(t *testing.T, ctx context.Context) (*Server, <-chan error) {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "winplace.sock")
	srv, err := NewServer(sock, &stubPlacer{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	c := NewClientWithSocket(sock)
	deadline := time.Now().Add(2 * time.Second)
	for c.Ping(context.Background()) != nil {
		if time.Now().After(deadline) {
			t.Fatalf("server never came up on %s", sock)
		}
		time.Sleep(10 * time.Millisecond)
	}
	return srv, done
}

func TestServeReturnsAcceptError(t *testing.T) {
	srv, done := serveInBackground(t, context.Background())

	// Break the listener without going through Stop.
	srv.shutdownMu.Lock()
	srv.listener.Close()
	srv.shutdownMu.Unlock()

	select {
	case err := <-done:
		if err == nil || !errors.Is(err, net.ErrClosed) {
			t.Fatalf("expected accept error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve kept running after its listener failed")
	}
	if _, err := os.Stat(srv.SocketPath()); !os.IsNotExist(err) {
		t.Fatalf("socket left behind: %v", err)
	}
}

func TestServeStopsCleanlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv, done := serveInBackground(t, ctx)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if _, err := os.Stat(srv.SocketPath()); !os.IsNotExist(err) {
		t.Fatalf("socket left behind: %v", err)
	}
}

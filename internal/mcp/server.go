package mcp

import (
	"context"
	"io"
	"log/slog"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winplace/internal/ipc"
)

const (
	ServerName    = "winplace"
	ServerVersion = "0.1.0"

	defaultCallTimeout = 5 * time.Second
)

// Daemon is the subset of the IPC client the tools need.
type Daemon interface {
	GetMonitors(ctx context.Context) (*ipc.MonitorsData, error)
	Place(ctx context.Context, window uint32) (*ipc.PlacementData, error)
	Fill(ctx context.Context, window uint32, axis string) (*ipc.PlacementData, error)
	Constrain(ctx context.Context, window uint32, mode string) (*ipc.PlacementData, error)
	Nudge(ctx context.Context, window uint32, direction string, step int) (*ipc.PlacementData, error)
	UsableArea(ctx context.Context, p ipc.UsableAreaPayload) (*ipc.AreaData, error)
}

// Server exposes window placement as MCP tools. Every tool forwards to a
// running winplace daemon.
type Server struct {
	mcpServer   *mcpsdk.Server
	daemon      Daemon
	logger      *slog.Logger
	callTimeout time.Duration
}

// NewServer creates a server that talks to daemon. A nil logger discards.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		daemon:      daemon,
		logger:      logger,
		callTimeout: defaultCallTimeout,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "place_window",
		Description: "Run the initial placement policy on a window using the daemon's placement mode (smart, center or mouse). Fullscreen, maximized and user-positioned windows are only pulled back on screen. Returns the geometry before and after.",
	}, s.handlePlaceWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "fill_window",
		Description: "Grow a window in the given axis until it meets its neighbours or the edge of the usable area of its monitor. Windows stacked below the target are only considered if they overlap it.",
	}, s.handleFillWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "constrain_window",
		Description: "Pull a window back inside the usable area of its monitor. Returns the edges that had to be corrected.",
	}, s.handleConstrainWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "nudge_window",
		Description: "Move a window by a fixed step in one direction, keeping its title bar and a minimum strip of the frame visible.",
	}, s.handleNudgeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "usable_area",
		Description: "Report a monitor's bounds and the area left after panels and docks reserve their struts. Picks the monitor by index, by window, or under the pointer.",
	}, s.handleUsableArea)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List monitors with their bounds and usable areas.",
	}, s.handleListMonitors)
}

func (s *Server) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.callTimeout)
}

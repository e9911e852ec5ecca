package ipc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/winplace/internal/runtimepath"
)

// Placer carries out the window operations the server exposes.
type Placer interface {
	Status() StatusData
	Monitors() (*MonitorsData, error)
	Place(p WindowPayload) (*PlacementData, error)
	Fill(p FillPayload) (*PlacementData, error)
	Constrain(p ConstrainPayload) (*PlacementData, error)
	Nudge(p NudgePayload) (*PlacementData, error)
	UsableArea(p UsableAreaPayload) (*AreaData, error)
	Reload() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	placer       Placer
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server on socketPath, or on the default
// runtime socket when socketPath is empty.
func NewServer(socketPath string, placer Placer) (*Server, error) {
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}

	return &Server{
		socketPath: socketPath,
		placer:     placer,
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections and accepts them in the
// background. Accept failures are only logged; Serve reports them instead.
func (s *Server) Start() error {
	listener, err := s.listen()
	if err != nil {
		return err
	}
	go func() {
		if err := s.acceptLoop(listener); err != nil {
			log.Printf("%v", err)
		}
	}()
	return nil
}

// Serve runs the server until ctx is cancelled. It returns the accept error
// if the listener fails first, so a supervisor can restart it.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := s.listen()
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, s.Stop)
	defer stop()

	err = s.acceptLoop(listener)
	s.Stop()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *Server) String() string {
	return "ipc-server"
}

func (s *Server) listen() (net.Listener, error) {
	// Remove a stale socket left by a previous daemon.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create IPC socket: %w", err)
	}

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.shutdownMu.Lock()
	s.listener = listener
	s.shuttingDown = false
	s.shutdownMu.Unlock()

	log.Printf("IPC server listening on %s", s.socketPath)
	return listener, nil
}

// acceptLoop accepts connections until the listener closes. It returns nil
// after Stop and the accept error otherwise.
func (s *Server) acceptLoop(listener net.Listener) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			done := s.shuttingDown
			s.shutdownMu.Unlock()
			if done {
				return nil
			}
			return fmt.Errorf("IPC accept failed: %w", err)
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return okResponse(s.placer.Status())
	case CommandGetMonitors:
		return respond(s.placer.Monitors())
	case CommandPlace:
		var p WindowPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respond(s.placer.Place(p))
	case CommandFill:
		var p FillPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respond(s.placer.Fill(p))
	case CommandConstrain:
		var p ConstrainPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respond(s.placer.Constrain(p))
	case CommandNudge:
		var p NudgePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respond(s.placer.Nudge(p))
	case CommandUsableArea:
		var p UsableAreaPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respond(s.placer.UsableArea(p))
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")
	if err := s.placer.Reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	log.Println("IPC: Config reloaded successfully")
	resp, _ := NewOKResponse(nil)
	return resp
}

func respond[T any](data *T, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return okResponse(data)
}

func okResponse(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	listener := s.listener
	s.listener = nil
	s.shutdownMu.Unlock()

	if listener != nil {
		listener.Close()
		os.Remove(s.socketPath)
	}
}

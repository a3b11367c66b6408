// Package mcp exposes window selection and geometry lookups as MCP tools over
// stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winselect/internal/capture"
	"github.com/1broseidon/winselect/internal/config"
	"github.com/1broseidon/winselect/internal/x11"
	"github.com/1broseidon/winselect/internal/xengine"
)

const (
	ServerName    = "winselect"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for interactive selection and window geometry.
type Server struct {
	mcpServer *mcpsdk.Server
	config    atomic.Pointer[config.Config]
	logger    *slog.Logger

	// mu serialises tool calls. Each call opens its own display connection
	// and an engine must stay on one goroutine.
	mu sync.Mutex

	openFn    func(displayName string, policy xengine.Policy) (*xengine.Engine, *x11.Connection, error)
	captureFn func(r xengine.Rectangle, path string) error
}

// NewServer creates a new MCP server.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:    logger,
		openFn:    x11.Open,
		captureFn: capture.SavePNG,
	}
	s.config.Store(cfg)

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

// SetConfig replaces the configuration used by subsequent tool calls.
func (s *Server) SetConfig(cfg *config.Config) {
	s.config.Store(cfg)
	s.logger.Info("config reloaded")
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "select_region",
		Description: "Let the user pick a screen region on the X display. A click selects the window under the pointer; a drag selects the dragged rectangle; any key cancels. Blocks until the user finishes. Optionally saves a PNG of the selection.",
	}, s.handleSelectRegion)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_geometry",
		Description: "Return the on-screen rectangle of a window given by id, as the active window, or by title substring, with or without window-manager decorations. Also returns title, class and pid when known.",
	}, s.handleWindowGeometry)
}

// open resolves the display and connects to it.
func (s *Server) open() (*xengine.Engine, *x11.Connection, error) {
	display, err := resolveDisplay(s.config.Load().Display)
	if err != nil {
		return nil, nil, err
	}
	ensureXAuthority()

	eng, conn, err := s.openFn(display, s.policy())
	if err != nil {
		return nil, nil, err
	}
	return eng, conn, nil
}

func (s *Server) policy() xengine.Policy {
	return xengine.Policy{
		Logf: func(format string, args ...any) {
			s.logger.Warn(fmt.Sprintf(format, args...))
		},
	}
}

func regionOf(r xengine.Rectangle, win uint32, monitor string) Region {
	reg := Region{
		X:        r.X,
		Y:        r.Y,
		Width:    r.Width,
		Height:   r.Height,
		Border:   r.Border,
		Geometry: fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y),
		Monitor:  monitor,
	}
	if win != 0 {
		reg.Window = fmt.Sprintf("0x%x", win)
	}
	return reg
}

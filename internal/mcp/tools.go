package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winselect/internal/selection"
	"github.com/1broseidon/winselect/internal/x11"
	"github.com/1broseidon/winselect/internal/xengine"
)

func (s *Server) handleSelectRegion(ctx context.Context, _ *mcpsdk.CallToolRequest, args SelectRegionInput) (*mcpsdk.CallToolResult, SelectRegionOutput, error) {
	opts := selection.OptionsFromConfig(s.config.Load(), s.logger)
	if args.Decorations != nil {
		opts.Decorations = *args.Decorations
	}
	if strings.TrimSpace(args.Cursor) != "" {
		t, err := xengine.ParseCursorType(args.Cursor)
		if err != nil {
			return nil, SelectRegionOutput{}, err
		}
		opts.Cursor = t
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	eng, conn, err := s.open()
	if err != nil {
		return nil, SelectRegionOutput{}, err
	}
	defer eng.Close()

	res, err := selection.Run(ctx, eng, opts)
	if errors.Is(err, selection.ErrCancelled) {
		s.logger.Info("select_region cancelled")
		return nil, SelectRegionOutput{Cancelled: true}, nil
	}
	if err != nil {
		return nil, SelectRegionOutput{}, err
	}
	res.Monitor = conn.MonitorName(res.Rect)

	out := SelectRegionOutput{
		Region:  regionOf(res.Rect, uint32(res.Window), res.Monitor),
		Clicked: res.Clicked,
	}
	if args.CapturePath != "" {
		if err := s.captureFn(res.Rect, args.CapturePath); err != nil {
			return nil, SelectRegionOutput{}, fmt.Errorf("capture: %w", err)
		}
		out.Captured = args.CapturePath
	}
	s.logger.Info("select_region finished", "geometry", out.Region.Geometry, "window", out.Region.Window)
	return nil, out, nil
}

func (s *Server) handleWindowGeometry(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowGeometryInput) (*mcpsdk.CallToolResult, WindowGeometryOutput, error) {
	target := x11.Target{ID: args.Window, Active: args.Active, Title: args.Title}
	if err := target.Validate(); err != nil {
		return nil, WindowGeometryOutput{}, err
	}
	decorations := s.config.Load().Decorations
	if args.Decorations != nil {
		decorations = *args.Decorations
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	eng, conn, err := s.open()
	if err != nil {
		return nil, WindowGeometryOutput{}, err
	}
	defer eng.Close()

	win, err := conn.Lookup(target)
	if err != nil {
		return nil, WindowGeometryOutput{}, err
	}

	rect, err := eng.ResolveGeometry(win, decorations)
	if err != nil && decorations && !xengine.IsFatal(err) {
		s.logger.Debug("no decorations found, using the window itself", "window", win, "error", err)
		rect, err = eng.ResolveGeometry(win, false)
	}
	if err != nil {
		return nil, WindowGeometryOutput{}, err
	}

	info := conn.Describe(win)
	return nil, WindowGeometryOutput{
		Region: regionOf(rect, uint32(win), conn.MonitorName(rect)),
		Title:  info.Title,
		Class:  info.Class,
		PID:    info.PID,
	}, nil
}

// Package selection turns pointer input into a selected screen rectangle.
// A click selects the window under the pointer; a drag selects the dragged
// region. Any key press cancels.
package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/winselect/internal/xengine"
)

// ErrCancelled is returned when the user presses a key before selecting.
var ErrCancelled = errors.New("selection cancelled")

// Engine is the part of *xengine.Engine the selection loop drives.
type Engine interface {
	Tick() error
	AnyKeyPressed() bool
	MouseDown(button xproto.Button) bool
	Presses(button xproto.Button) uint64
	Pointer() (int, int)
	HoverWindow() xproto.Window
	Root() xproto.Window

	GrabKeyboard() error
	ReleaseKeyboard() error
	GrabCursor(t xengine.CursorType) error
	ReleaseCursor() error
	SetCursor(t xengine.CursorType) error

	ResolveGeometry(w xproto.Window, decorations bool) (xengine.Rectangle, error)
}

var _ Engine = (*xengine.Engine)(nil)

// Options controls a single selection.
type Options struct {
	Decorations  bool
	KeyboardGrab bool
	Cursor       xengine.CursorType
	// Tolerance is the largest drag, per axis, still treated as a click.
	Tolerance int
	Button       xproto.Button
	PollInterval time.Duration
	Logger       *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Button == 0 {
		o.Button = 1
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 10 * time.Millisecond
	}
	if o.Tolerance < 0 {
		o.Tolerance = 0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Result is a finished selection.
type Result struct {
	Rect xengine.Rectangle
	// Window is the window under the pointer at release, 0 if unknown.
	Window xproto.Window
	// Clicked is true when the selection came from a click, not a drag.
	Clicked   bool
	Cancelled bool
	// Monitor is the name of the monitor holding the centre of Rect. It is
	// filled in by callers that know the monitor layout.
	Monitor string
}

// Run grabs input and blocks until the user selects, cancels, or ctx ends.
// Grabs are released on every return path.
func Run(ctx context.Context, eng Engine, opts Options) (Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	if opts.KeyboardGrab {
		if err := eng.GrabKeyboard(); err != nil {
			if xengine.IsFatal(err) {
				return Result{}, err
			}
			log.Warn("continuing without keyboard grab", "error", err)
		} else {
			defer eng.ReleaseKeyboard()
		}
	}

	if err := eng.GrabCursor(opts.Cursor); err != nil {
		return Result{}, fmt.Errorf("grab pointer: %w", err)
	}
	defer eng.ReleaseCursor()

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	// Keys still held from launching the command must be released before a
	// key press counts as a cancel.
	armed := !eng.AnyKeyPressed()
	current := opts.Cursor
	pressed := false
	presses := eng.Presses(opts.Button)
	var startX, startY int

	for {
		if err := eng.Tick(); err != nil {
			return Result{}, err
		}

		keyDown := eng.AnyKeyPressed()
		if !armed {
			armed = !keyDown
		} else if keyDown {
			log.Debug("selection cancelled by key press")
			return Result{Cancelled: true}, ErrCancelled
		}

		down := eng.MouseDown(opts.Button)
		n := eng.Presses(opts.Button)
		tapped := n != presses
		presses = n
		x, y := eng.Pointer()
		switch {
		case !pressed && !down && tapped:
			// Pressed and released between two ticks.
			return finish(eng, opts, x, y, x, y)
		case !pressed && down:
			pressed = true
			startX, startY = x, y
			log.Debug("selection started", "x", x, "y", y)
		case pressed && down:
			want := dragCursor(startX, startY, x, y, opts.Tolerance, opts.Cursor)
			if want != current {
				if err := eng.SetCursor(want); err != nil {
					if xengine.IsFatal(err) {
						return Result{}, err
					}
					log.Debug("cursor change failed", "cursor", want, "error", err)
				} else {
					current = want
				}
			}
		case pressed && !down:
			return finish(eng, opts, startX, startY, x, y)
		}

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func finish(eng Engine, opts Options, sx, sy, x, y int) (Result, error) {
	hover := eng.HoverWindow()
	if !isClick(sx, sy, x, y, opts.Tolerance) {
		rect := dragRect(sx, sy, x, y)
		opts.Logger.Debug("region selected", "rect", rect)
		return Result{Rect: rect, Window: hover}, nil
	}

	if hover == 0 {
		hover = eng.Root()
	}
	rect, err := eng.ResolveGeometry(hover, opts.Decorations)
	if err != nil && opts.Decorations && !xengine.IsFatal(err) {
		// The root and override-redirect windows have no frame to climb to.
		opts.Logger.Debug("no decorations found, using the window itself", "window", hover, "error", err)
		rect, err = eng.ResolveGeometry(hover, false)
	}
	if err != nil {
		return Result{}, err
	}
	opts.Logger.Debug("window selected", "window", hover, "rect", rect)
	return Result{Rect: rect, Window: hover, Clicked: true}, nil
}

func isClick(sx, sy, x, y, tolerance int) bool {
	return abs(x-sx) <= tolerance && abs(y-sy) <= tolerance
}

// dragRect returns the rectangle spanned by two corners.
func dragRect(sx, sy, x, y int) xengine.Rectangle {
	return xengine.Rectangle{
		X:      min(sx, x),
		Y:      min(sy, y),
		Width:  abs(x - sx),
		Height: abs(y - sy),
	}
}

// dragCursor picks the corner cursor matching where the pointer is relative
// to the drag start.
func dragCursor(sx, sy, x, y, tolerance int, idle xengine.CursorType) xengine.CursorType {
	if isClick(sx, sy, x, y, tolerance) {
		return idle
	}
	switch {
	case x >= sx && y >= sy:
		return xengine.CursorLowerRightCorner
	case x < sx && y >= sy:
		return xengine.CursorLowerLeftCorner
	case x >= sx && y < sy:
		return xengine.CursorUpperRightCorner
	default:
		return xengine.CursorUpperLeftCorner
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

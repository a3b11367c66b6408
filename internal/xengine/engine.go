// Package xengine is the input and geometry layer of the selection tool.
//
// An Engine owns one display connection for the life of the process. It
// subscribes enter notifications over the whole window tree, grabs the
// keyboard and pointer on request, drains server events into a small
// input-state snapshot and resolves window rectangles in root coordinates.
//
// An Engine must only be used from one goroutine.
package xengine

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Engine is the display connection plus the input state derived from it.
type Engine struct {
	dial   DialFunc
	srv    Server
	policy Policy

	root   xproto.Window
	screen *xproto.ScreenInfo
	good   bool
	closed bool

	cursors map[uint16]xproto.Cursor
	buttons map[xproto.Button]bool
	presses map[xproto.Button]uint64

	mouseX int
	mouseY int
	hover  xproto.Window
}

// New returns an engine that opens its connection with dial on Init.
func New(dial DialFunc) *Engine {
	return &Engine{
		dial:    dial,
		cursors: make(map[uint16]xproto.Cursor),
		buttons: make(map[xproto.Button]bool),
		presses: make(map[xproto.Button]uint64),
		mouseX:  -1,
		mouseY:  -1,
	}
}

// SetPolicy replaces the error policy and diagnostic logger. It must be
// called before Init.
func (e *Engine) SetPolicy(p Policy) {
	e.policy = p
}

// Init opens the display. On failure the engine stays invalid for good and
// every other method turns into a no-op.
func (e *Engine) Init(displayName string) error {
	if e.good || e.closed {
		return ErrAlreadyInitialized
	}
	if e.dial == nil {
		e.closed = true
		return fmt.Errorf("%w %q: no dialer", ErrOpenDisplay, displayName)
	}

	srv, err := e.dial(displayName)
	if err != nil {
		e.policy.logf("xengine: failed to open X display %q: %v", displayName, err)
		e.closed = true
		return fmt.Errorf("%w %q: %v", ErrOpenDisplay, displayName, err)
	}

	e.srv = srv
	e.root = srv.Root()
	e.screen = srv.Screen()
	e.good = true

	if err := e.selectAllInputs(e.root, xproto.EventMaskEnterWindow); err != nil {
		e.Close()
		return err
	}
	return nil
}

// selectAllInputs sets mask on every descendant of win.
func (e *Engine) selectAllInputs(win xproto.Window, mask uint32) error {
	pending := []xproto.Window{win}
	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		tree, err := e.srv.QueryTree(cur)
		if err != nil {
			if perr := e.policy.Handle(err); perr != nil {
				return perr
			}
			continue
		}
		for _, child := range tree.Children {
			if err := e.srv.SelectInput(child, mask); err != nil {
				if perr := e.policy.Handle(err); perr != nil {
					return perr
				}
			}
			pending = append(pending, child)
		}
	}
	return nil
}

// Valid reports whether Init succeeded and Close has not been called.
func (e *Engine) Valid() bool { return e.good }

// Root returns the root window of the default screen.
func (e *Engine) Root() xproto.Window { return e.root }

// Screen returns the default screen, which also carries the root visual and
// default colormap. It is nil until Init succeeds.
func (e *Engine) Screen() *xproto.ScreenInfo { return e.screen }

// Pointer returns the last known pointer position in root coordinates, or
// (-1, -1) before any has been observed.
func (e *Engine) Pointer() (int, int) { return e.mouseX, e.mouseY }

// HoverWindow returns the deepest window last seen under the pointer, or 0.
func (e *Engine) HoverWindow() xproto.Window { return e.hover }

// MouseDown reports whether button is currently held.
func (e *Engine) MouseDown(button xproto.Button) bool {
	return e.buttons[button]
}

// Presses returns how many times button has been pressed since Init. A
// press and release drained by the same Tick leave MouseDown false but
// still advance this count.
func (e *Engine) Presses(button xproto.Button) uint64 {
	return e.presses[button]
}

// Tick drains every pending event without blocking. A fatal server error
// stops the drain and is returned as a *ProtocolError.
func (e *Engine) Tick() error {
	if !e.good {
		return nil
	}
	e.srv.Flush()
	for {
		ev, xerr := e.srv.PollEvent()
		if ev == nil && xerr == nil {
			return nil
		}
		if xerr != nil {
			if err := e.policy.Handle(xerr); err != nil {
				return err
			}
			continue
		}

		switch ev := ev.(type) {
		case xproto.MotionNotifyEvent:
			e.mouseX = int(ev.RootX)
			e.mouseY = int(ev.RootY)
		case xproto.ButtonPressEvent:
			e.buttons[ev.Detail] = true
			e.presses[ev.Detail]++
		case xproto.ButtonReleaseEvent:
			e.buttons[ev.Detail] = false
		case xproto.EnterNotifyEvent:
			if ev.Child != 0 {
				e.hover = ev.Child
			} else {
				e.hover = ev.Event
			}
		case xproto.LeaveNotifyEvent, xproto.KeyPressEvent, xproto.KeyReleaseEvent:
			// Key state comes from QueryKeymap since the keyboard grab may
			// be denied.
		}
	}
}

// AnyKeyPressed reports whether any key is down according to the server's
// keymap, independent of the event stream.
func (e *Engine) AnyKeyPressed() bool {
	if !e.good {
		return false
	}
	keys, err := e.srv.QueryKeymap()
	if err != nil {
		e.policy.logf("xengine: keymap query failed: %v", err)
		return false
	}
	for _, b := range keys {
		if b != 0 {
			return true
		}
	}
	return false
}

// Close frees every cached cursor and closes the connection. Closing an
// engine that never initialized is a no-op.
func (e *Engine) Close() error {
	if !e.good {
		e.closed = true
		return nil
	}
	var firstErr error
	for glyph, c := range e.cursors {
		if err := e.srv.FreeCursor(c); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("free cursor %d: %w", glyph, err)
		}
		delete(e.cursors, glyph)
	}
	e.srv.Close()
	e.good = false
	e.closed = true
	return firstErr
}

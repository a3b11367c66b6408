package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xcursor"

	"github.com/1broseidon/winselect/internal/xengine"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	root  xproto.Window
}

var _ xengine.Server = (*Connection)(nil)

// NewConnection connects to the named display. An empty name uses $DISPLAY.
func NewConnection(displayName string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(displayName)
	if err != nil {
		return nil, err
	}

	return &Connection{
		XUtil: xu,
		root:  xu.RootWin(),
	}, nil
}

// Dial is an xengine.DialFunc backed by a real X connection.
func Dial(displayName string) (xengine.Server, error) {
	conn, err := NewConnection(displayName)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

func (c *Connection) conn() *xgb.Conn { return c.XUtil.Conn() }

// Root returns the root window of the default screen.
func (c *Connection) Root() xproto.Window { return c.root }

// Screen returns the default screen.
func (c *Connection) Screen() *xproto.ScreenInfo { return c.XUtil.Screen() }

// Attributes returns the geometry of a window relative to its parent.
func (c *Connection) Attributes(w xproto.Window) (xengine.Attributes, error) {
	geom, err := xproto.GetGeometry(c.conn(), xproto.Drawable(w)).Reply()
	if err != nil {
		return xengine.Attributes{}, err
	}
	return xengine.Attributes{
		Root:        geom.Root,
		X:           int(geom.X),
		Y:           int(geom.Y),
		Width:       int(geom.Width),
		Height:      int(geom.Height),
		BorderWidth: int(geom.BorderWidth),
	}, nil
}

// TranslateCoordinates maps (x, y) in src's space into dst's space.
func (c *Connection) TranslateCoordinates(src, dst xproto.Window, x, y int) (int, int, error) {
	reply, err := xproto.TranslateCoordinates(c.conn(), src, dst, int16(x), int16(y)).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.DstX), int(reply.DstY), nil
}

// QueryTree returns the root, parent and children of w.
func (c *Connection) QueryTree(w xproto.Window) (xengine.Tree, error) {
	reply, err := xproto.QueryTree(c.conn(), w).Reply()
	if err != nil {
		return xengine.Tree{}, err
	}
	return xengine.Tree{
		Root:     reply.Root,
		Parent:   reply.Parent,
		Children: reply.Children,
	}, nil
}

// QueryPointer returns the pointer position and the child of w under it.
func (c *Connection) QueryPointer(w xproto.Window) (xengine.PointerState, error) {
	reply, err := xproto.QueryPointer(c.conn(), w).Reply()
	if err != nil {
		return xengine.PointerState{}, err
	}
	return xengine.PointerState{
		Root:  reply.Root,
		Child: reply.Child,
		RootX: int(reply.RootX),
		RootY: int(reply.RootY),
	}, nil
}

// QueryKeymap returns the 32-byte bitmap of pressed keys.
func (c *Connection) QueryKeymap() ([]byte, error) {
	reply, err := xproto.QueryKeymap(c.conn()).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Keys, nil
}

// SelectInput replaces the event mask this client holds on w.
func (c *Connection) SelectInput(w xproto.Window, mask uint32) error {
	return xproto.ChangeWindowAttributesChecked(c.conn(), w, xproto.CwEventMask, []uint32{mask}).Check()
}

// GrabKeyboard grabs the keyboard asynchronously on w.
func (c *Connection) GrabKeyboard(w xproto.Window) (byte, error) {
	reply, err := xproto.GrabKeyboard(
		c.conn(),
		false,                  // owner_events
		w,                      // grab_window
		xproto.TimeCurrentTime, // time
		xproto.GrabModeAsync,   // pointer_mode
		xproto.GrabModeAsync,   // keyboard_mode
	).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Status, nil
}

// UngrabKeyboard releases the keyboard.
func (c *Connection) UngrabKeyboard() error {
	return xproto.UngrabKeyboardChecked(c.conn(), xproto.TimeCurrentTime).Check()
}

// GrabPointer grabs the pointer on w with owner events enabled.
func (c *Connection) GrabPointer(w xproto.Window, mask uint16, cursor xproto.Cursor) (byte, error) {
	reply, err := xproto.GrabPointer(
		c.conn(),
		true, // owner_events
		w,
		mask,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
		xproto.WindowNone, // confine_to
		cursor,
		xproto.TimeCurrentTime,
	).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Status, nil
}

// UngrabPointer releases the pointer.
func (c *Connection) UngrabPointer() error {
	return xproto.UngrabPointerChecked(c.conn(), xproto.TimeCurrentTime).Check()
}

// ChangeActivePointerGrab swaps the cursor and mask of the active grab.
func (c *Connection) ChangeActivePointerGrab(cursor xproto.Cursor, mask uint16) error {
	return xproto.ChangeActivePointerGrabChecked(c.conn(), cursor, xproto.TimeCurrentTime, mask).Check()
}

// CreateFontCursor creates a cursor from the standard cursor font.
func (c *Connection) CreateFontCursor(glyph uint16) (xproto.Cursor, error) {
	cursor, err := xcursor.CreateCursor(c.XUtil, glyph)
	if err != nil {
		return 0, fmt.Errorf("failed to create cursor glyph %d: %w", glyph, err)
	}
	return cursor, nil
}

// FreeCursor frees a cursor created by CreateFontCursor.
func (c *Connection) FreeCursor(cursor xproto.Cursor) error {
	return xproto.FreeCursorChecked(c.conn(), cursor).Check()
}

// Flush waits for the server to process everything sent so far.
func (c *Connection) Flush() {
	c.XUtil.Sync()
}

// PollEvent returns the next queued event or error without blocking.
func (c *Connection) PollEvent() (xgb.Event, xgb.Error) {
	return c.conn().PollForEvent()
}

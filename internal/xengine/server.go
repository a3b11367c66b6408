package xengine

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Attributes is the subset of a window's geometry the engine cares about.
// Width and height exclude the border.
type Attributes struct {
	Root        xproto.Window
	X           int
	Y           int
	Width       int
	Height      int
	BorderWidth int
}

// Tree is the result of a tree query on a single window.
type Tree struct {
	Root     xproto.Window
	Parent   xproto.Window
	Children []xproto.Window
}

// PointerState is the result of a pointer query relative to a window.
type PointerState struct {
	Root  xproto.Window
	Child xproto.Window
	RootX int
	RootY int
}

// Server is the windowing-server collaborator the engine talks to.
// Implementations are not required to be safe for concurrent use.
type Server interface {
	Root() xproto.Window
	Screen() *xproto.ScreenInfo

	Attributes(w xproto.Window) (Attributes, error)
	TranslateCoordinates(src, dst xproto.Window, x, y int) (int, int, error)
	QueryTree(w xproto.Window) (Tree, error)
	QueryPointer(w xproto.Window) (PointerState, error)
	QueryKeymap() ([]byte, error)
	SelectInput(w xproto.Window, mask uint32) error

	GrabKeyboard(w xproto.Window) (byte, error)
	UngrabKeyboard() error
	GrabPointer(w xproto.Window, mask uint16, cursor xproto.Cursor) (byte, error)
	UngrabPointer() error
	ChangeActivePointerGrab(cursor xproto.Cursor, mask uint16) error

	CreateFontCursor(glyph uint16) (xproto.Cursor, error)
	FreeCursor(c xproto.Cursor) error

	// Flush pushes queued requests to the server and waits until it has
	// processed them, so their errors and events are pending locally.
	Flush()
	// PollEvent never blocks. Both results are nil when the queue is empty.
	PollEvent() (xgb.Event, xgb.Error)
	Close()
}

// DialFunc opens a Server for the named display. An empty name means $DISPLAY.
type DialFunc func(displayName string) (Server, error)

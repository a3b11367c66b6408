package xengine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

const fakeRoot xproto.Window = 1

type fakeWindow struct {
	parent   xproto.Window
	children []xproto.Window
	x, y     int
	width    int
	height   int
	border   int
}

type fakeQueued struct {
	ev  xgb.Event
	err xgb.Error
}

// fakeServer is an in-memory window tree standing in for an X server.
type fakeServer struct {
	windows map[xproto.Window]*fakeWindow
	queue   []fakeQueued
	keymap  []byte

	keyboardStatus byte
	keyboardErr    error
	pointerStatus  byte
	pointerX       int
	pointerY       int
	// pointerPath lists the windows under the pointer from the top-level
	// child of the root down to the deepest one.
	pointerPath []xproto.Window

	treeErr map[xproto.Window]error

	selected    map[xproto.Window]uint32
	nextCursor  xproto.Cursor
	created     map[uint16]xproto.Cursor
	createCalls int
	freed       map[xproto.Cursor]int
	grabMask    uint16
	grabCursor  xproto.Cursor
	changeMasks []uint16
	changeCurs  []xproto.Cursor

	keyboardGrabbed bool
	pointerGrabbed  bool
	flushes         int
	closes          int
	requests        int
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		windows: map[xproto.Window]*fakeWindow{
			fakeRoot: {width: 1920, height: 1080},
		},
		keymap:     make([]byte, 32),
		treeErr:    make(map[xproto.Window]error),
		selected:   make(map[xproto.Window]uint32),
		nextCursor: 100,
		created:    make(map[uint16]xproto.Cursor),
		freed:      make(map[xproto.Cursor]int),
	}
}

func (f *fakeServer) addWindow(id, parent xproto.Window, x, y, width, height, border int) {
	f.windows[id] = &fakeWindow{parent: parent, x: x, y: y, width: width, height: height, border: border}
	p := f.windows[parent]
	p.children = append(p.children, id)
}

func (f *fakeServer) push(ev xgb.Event) {
	f.queue = append(f.queue, fakeQueued{ev: ev})
}

func (f *fakeServer) pushErr(err xgb.Error) {
	f.queue = append(f.queue, fakeQueued{err: err})
}

// origin returns the absolute position of the inside top-left corner of w.
func (f *fakeServer) origin(w xproto.Window) (int, int) {
	if w == fakeRoot {
		return 0, 0
	}
	win := f.windows[w]
	px, py := f.origin(win.parent)
	return px + win.x + win.border, py + win.y + win.border
}

func (f *fakeServer) Root() xproto.Window { return fakeRoot }

func (f *fakeServer) Screen() *xproto.ScreenInfo {
	return &xproto.ScreenInfo{Root: fakeRoot, WidthInPixels: 1920, HeightInPixels: 1080}
}

func (f *fakeServer) Attributes(w xproto.Window) (Attributes, error) {
	f.requests++
	win, ok := f.windows[w]
	if !ok {
		return Attributes{}, badWindow(w, 14)
	}
	return Attributes{
		Root:        fakeRoot,
		X:           win.x,
		Y:           win.y,
		Width:       win.width,
		Height:      win.height,
		BorderWidth: win.border,
	}, nil
}

func (f *fakeServer) TranslateCoordinates(src, dst xproto.Window, x, y int) (int, int, error) {
	f.requests++
	if _, ok := f.windows[src]; !ok {
		return 0, 0, badWindow(src, 40)
	}
	sx, sy := f.origin(src)
	dx, dy := f.origin(dst)
	return sx - dx + x, sy - dy + y, nil
}

func (f *fakeServer) QueryTree(w xproto.Window) (Tree, error) {
	f.requests++
	if err := f.treeErr[w]; err != nil {
		return Tree{}, err
	}
	win, ok := f.windows[w]
	if !ok {
		return Tree{}, badWindow(w, 15)
	}
	children := append([]xproto.Window(nil), win.children...)
	return Tree{Root: fakeRoot, Parent: win.parent, Children: children}, nil
}

func (f *fakeServer) QueryPointer(w xproto.Window) (PointerState, error) {
	f.requests++
	st := PointerState{Root: fakeRoot, RootX: f.pointerX, RootY: f.pointerY}
	if w == fakeRoot {
		if len(f.pointerPath) > 0 {
			st.Child = f.pointerPath[0]
		}
		return st, nil
	}
	for i, p := range f.pointerPath {
		if p == w && i+1 < len(f.pointerPath) {
			st.Child = f.pointerPath[i+1]
		}
	}
	return st, nil
}

func (f *fakeServer) QueryKeymap() ([]byte, error) {
	f.requests++
	return append([]byte(nil), f.keymap...), nil
}

func (f *fakeServer) SelectInput(w xproto.Window, mask uint32) error {
	f.requests++
	f.selected[w] = mask
	return nil
}

func (f *fakeServer) GrabKeyboard(w xproto.Window) (byte, error) {
	f.requests++
	if f.keyboardErr != nil {
		return 0, f.keyboardErr
	}
	if f.keyboardStatus == xproto.GrabStatusSuccess {
		f.keyboardGrabbed = true
	}
	return f.keyboardStatus, nil
}

func (f *fakeServer) UngrabKeyboard() error {
	f.requests++
	f.keyboardGrabbed = false
	return nil
}

func (f *fakeServer) GrabPointer(w xproto.Window, mask uint16, cursor xproto.Cursor) (byte, error) {
	f.requests++
	if f.pointerStatus == xproto.GrabStatusSuccess {
		f.pointerGrabbed = true
		f.grabMask = mask
		f.grabCursor = cursor
	}
	return f.pointerStatus, nil
}

func (f *fakeServer) UngrabPointer() error {
	f.requests++
	f.pointerGrabbed = false
	return nil
}

func (f *fakeServer) ChangeActivePointerGrab(cursor xproto.Cursor, mask uint16) error {
	f.requests++
	f.changeCurs = append(f.changeCurs, cursor)
	f.changeMasks = append(f.changeMasks, mask)
	return nil
}

func (f *fakeServer) CreateFontCursor(glyph uint16) (xproto.Cursor, error) {
	f.requests++
	f.createCalls++
	f.nextCursor++
	f.created[glyph] = f.nextCursor
	return f.nextCursor, nil
}

func (f *fakeServer) FreeCursor(c xproto.Cursor) error {
	f.requests++
	f.freed[c]++
	return nil
}

func (f *fakeServer) Flush() { f.flushes++ }

func (f *fakeServer) PollEvent() (xgb.Event, xgb.Error) {
	if len(f.queue) == 0 {
		return nil, nil
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	return next.ev, next.err
}

func (f *fakeServer) Close() { f.closes++ }

func badWindow(w xproto.Window, opcode byte) xproto.WindowError {
	return xproto.WindowError{NiceName: "Window", BadValue: uint32(w), MajorOpcode: opcode}
}

func badAccess(opcode byte) xproto.AccessError {
	return xproto.AccessError{NiceName: "Access", MajorOpcode: opcode, Sequence: 7}
}

func dialFake(f *fakeServer) DialFunc {
	return func(string) (Server, error) { return f, nil }
}

func dialFail(string) (Server, error) {
	return nil, errors.New("connection refused")
}

// newTestEngine returns an initialized engine over f. Policy diagnostics are
// collected instead of logged.
func newTestEngine(t *testing.T, f *fakeServer) (*Engine, *[]string) {
	t.Helper()
	e := New(dialFake(f))
	logs := new([]string)
	e.SetPolicy(Policy{Logf: func(format string, args ...any) {
		*logs = append(*logs, fmt.Sprintf(format, args...))
	}})
	if err := e.Init(""); err != nil {
		t.Fatalf("init: %v", err)
	}
	return e, logs
}

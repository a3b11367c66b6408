package xengine

import (
	"testing"

	"github.com/BurntSushi/xgbutil/xcursor"
)

func TestCursorIsCreatedOncePerGlyph(t *testing.T) {
	f := newFakeServer()
	e, _ := newTestEngine(t, f)

	first, err := e.Cursor(CursorCrosshair)
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	second, err := e.Cursor(CursorCrosshair)
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached handle %d, got %d", first, second)
	}
	if f.createCalls != 1 {
		t.Fatalf("expected one create call, got %d", f.createCalls)
	}
	if f.created[xcursor.Crosshair] != first {
		t.Fatalf("expected crosshair glyph to back the cursor")
	}
}

func TestCloseFreesEveryCursorOnce(t *testing.T) {
	f := newFakeServer()
	e, _ := newTestEngine(t, f)

	types := []CursorType{CursorLeft, CursorCross, CursorCross, CursorUpperLeftCorner, CursorLowerRightCorner, CursorLeft}
	handles := make(map[uint32]bool)
	for _, ct := range types {
		c, err := e.Cursor(ct)
		if err != nil {
			t.Fatalf("cursor %s: %v", ct, err)
		}
		handles[uint32(c)] = true
	}
	if len(handles) != 4 {
		t.Fatalf("expected 4 distinct cursors, got %d", len(handles))
	}

	if err := e.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if len(f.freed) != len(handles) {
		t.Fatalf("expected %d cursors freed, got %d", len(handles), len(f.freed))
	}
	for c, n := range f.freed {
		if n != 1 {
			t.Fatalf("cursor %d freed %d times", c, n)
		}
		if !handles[uint32(c)] {
			t.Fatalf("freed unknown cursor %d", c)
		}
	}
}

func TestCursorGlyphs(t *testing.T) {
	cases := map[CursorType]uint16{
		CursorLeft:             xcursor.LeftPtr,
		CursorCrosshair:        xcursor.Crosshair,
		CursorCross:            xcursor.Cross,
		CursorUpperLeftCorner:  xcursor.ULAngle,
		CursorUpperRightCorner: xcursor.URAngle,
		CursorLowerLeftCorner:  xcursor.LLAngle,
		CursorLowerRightCorner: xcursor.LRAngle,
		CursorType(99):         xcursor.LeftPtr,
	}
	for ct, want := range cases {
		if got := ct.glyph(); got != want {
			t.Fatalf("%s: expected glyph %d, got %d", ct, want, got)
		}
	}
}

func TestSetCursorKeepsGrabMask(t *testing.T) {
	f := newFakeServer()
	e, _ := newTestEngine(t, f)

	if err := e.GrabCursor(CursorCrosshair); err != nil {
		t.Fatalf("grab cursor: %v", err)
	}
	if err := e.SetCursor(CursorLowerRightCorner); err != nil {
		t.Fatalf("set cursor: %v", err)
	}
	if len(f.changeMasks) != 1 || f.changeMasks[0] != f.grabMask {
		t.Fatalf("expected set cursor to repeat grab mask %#x, got %v", f.grabMask, f.changeMasks)
	}
	want, _ := e.Cursor(CursorLowerRightCorner)
	if f.changeCurs[0] != want {
		t.Fatalf("expected active grab cursor %d, got %d", want, f.changeCurs[0])
	}
}

func TestParseCursorType(t *testing.T) {
	for ct := CursorLeft; ct <= CursorLowerRightCorner; ct++ {
		got, err := ParseCursorType(ct.String())
		if err != nil {
			t.Fatalf("parse %q: %v", ct.String(), err)
		}
		if got != ct {
			t.Fatalf("parse %q: expected %d, got %d", ct.String(), ct, got)
		}
	}
	if got, err := ParseCursorType(" Crosshair "); err != nil || got != CursorCrosshair {
		t.Fatalf("expected case-insensitive parse, got %v %v", got, err)
	}
	if _, err := ParseCursorType("hand"); err == nil {
		t.Fatalf("expected error for unknown cursor")
	}
}

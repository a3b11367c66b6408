package xengine

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"
)

// CursorType names the pointer icons the selection tool shows.
type CursorType int

const (
	CursorLeft CursorType = iota
	CursorCrosshair
	CursorCross
	CursorUpperLeftCorner
	CursorUpperRightCorner
	CursorLowerLeftCorner
	CursorLowerRightCorner
)

// String returns the configuration name of the cursor type.
func (t CursorType) String() string {
	switch t {
	case CursorLeft:
		return "left"
	case CursorCrosshair:
		return "crosshair"
	case CursorCross:
		return "cross"
	case CursorUpperLeftCorner:
		return "upper-left"
	case CursorUpperRightCorner:
		return "upper-right"
	case CursorLowerLeftCorner:
		return "lower-left"
	case CursorLowerRightCorner:
		return "lower-right"
	default:
		return "unknown"
	}
}

// ParseCursorType parses the names produced by CursorType.String.
func ParseCursorType(s string) (CursorType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t := CursorLeft; t <= CursorLowerRightCorner; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return CursorLeft, fmt.Errorf("unknown cursor type %q", s)
}

// glyph maps the cursor type to its X cursor-font glyph. Unknown types fall
// back to the left pointer.
func (t CursorType) glyph() uint16 {
	switch t {
	case CursorCrosshair:
		return xcursor.Crosshair
	case CursorCross:
		return xcursor.Cross
	case CursorUpperLeftCorner:
		return xcursor.ULAngle
	case CursorUpperRightCorner:
		return xcursor.URAngle
	case CursorLowerLeftCorner:
		return xcursor.LLAngle
	case CursorLowerRightCorner:
		return xcursor.LRAngle
	default:
		return xcursor.LeftPtr
	}
}

// Cursor returns the cursor for t, creating it on first use. The engine owns
// the cursor and frees it on Close.
func (e *Engine) Cursor(t CursorType) (xproto.Cursor, error) {
	if !e.good {
		return 0, ErrNotConnected
	}
	glyph := t.glyph()
	if c, ok := e.cursors[glyph]; ok {
		return c, nil
	}
	c, err := e.srv.CreateFontCursor(glyph)
	if err != nil {
		return 0, fmt.Errorf("create cursor %s: %w", t, err)
	}
	e.cursors[glyph] = c
	return c, nil
}

// SetCursor swaps the cursor of the active pointer grab. Changing an active
// grab also replaces its event mask, so the grab mask is passed again.
func (e *Engine) SetCursor(t CursorType) error {
	if !e.good {
		return ErrNotConnected
	}
	c, err := e.Cursor(t)
	if err != nil {
		return err
	}
	if err := e.srv.ChangeActivePointerGrab(c, pointerGrabMask); err != nil {
		return e.policy.Handle(err)
	}
	return nil
}

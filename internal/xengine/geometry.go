package xengine

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Rectangle is a window rectangle in root coordinates. When decorations are
// included, Width and Height enclose the frame's border on both sides.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
	Border int
}

// Empty reports whether r has no area.
func (r Rectangle) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ResolveGeometry returns the rectangle of w in root coordinates. With
// decorations set, the walk climbs to the ancestor that is a direct child of
// the root, which is the window manager's frame for reparenting managers.
func (e *Engine) ResolveGeometry(w xproto.Window, decorations bool) (Rectangle, error) {
	if !e.good {
		return Rectangle{}, ErrNotConnected
	}

	target := w
	pad := 0
	if decorations {
		frame, err := e.topLevel(w)
		if err != nil {
			return Rectangle{}, err
		}
		target = frame
		pad = 2
	}

	attr, err := e.srv.Attributes(target)
	if err != nil {
		return Rectangle{}, e.fail(target, err)
	}
	bw := attr.BorderWidth
	x, y, err := e.srv.TranslateCoordinates(target, attr.Root, -bw, -bw)
	if err != nil {
		return Rectangle{}, e.fail(target, err)
	}
	return Rectangle{
		X:      x,
		Y:      y,
		Width:  attr.Width + pad*bw,
		Height: attr.Height + pad*bw,
		Border: bw,
	}, nil
}

// topLevel walks up from w until the candidate's parent is the root.
func (e *Engine) topLevel(w xproto.Window) (xproto.Window, error) {
	cur := w
	for {
		tree, err := e.srv.QueryTree(cur)
		if err != nil {
			return 0, e.fail(cur, err)
		}
		if tree.Parent == 0 {
			return 0, fmt.Errorf("%w: window 0x%x has no parent", ErrGeometryUnresolved, cur)
		}
		if tree.Parent == tree.Root {
			return cur, nil
		}
		cur = tree.Parent
	}
}

// fail turns a query error into ErrGeometryUnresolved, unless the policy
// says it is fatal.
func (e *Engine) fail(w xproto.Window, err error) error {
	if perr := e.policy.Handle(err); perr != nil {
		return fmt.Errorf("%w: window 0x%x: %w", ErrGeometryUnresolved, w, perr)
	}
	return fmt.Errorf("%w: window 0x%x: %v", ErrGeometryUnresolved, w, err)
}

package xengine

import (
	"github.com/BurntSushi/xgb/xproto"
)

// pointerGrabMask is used both when grabbing the pointer and when changing
// the cursor of the active grab.
const pointerGrabMask = uint16(xproto.EventMaskPointerMotion |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow)

// GrabKeyboard takes an exclusive keyboard grab on the root window. Denial
// is recoverable: it is logged and returned as a *GrabError, and key state
// remains available through AnyKeyPressed.
func (e *Engine) GrabKeyboard() error {
	if !e.good {
		return ErrNotConnected
	}
	status, err := e.srv.GrabKeyboard(e.root)
	if err != nil {
		if perr := e.policy.Handle(err); perr != nil {
			return perr
		}
		e.warnKeyboard()
		return &GrabError{Device: "keyboard", Err: err}
	}
	if status != xproto.GrabStatusSuccess {
		e.warnKeyboard()
		return &GrabError{Device: "keyboard", Status: status}
	}
	return nil
}

func (e *Engine) warnKeyboard() {
	e.policy.logf("xengine: failed to grab X keyboard; another client holds it, continuing without it")
}

// ReleaseKeyboard drops any keyboard grab held by this client.
func (e *Engine) ReleaseKeyboard() error {
	if !e.good {
		return ErrNotConnected
	}
	if err := e.srv.UngrabKeyboard(); err != nil {
		return e.policy.Handle(err)
	}
	return nil
}

// GrabCursor grabs the pointer showing the cursor for t. On success the
// pointer position and the deepest window under it are sampled right away,
// so callers do not have to wait for the first motion or enter event.
func (e *Engine) GrabCursor(t CursorType) error {
	if !e.good {
		return ErrNotConnected
	}
	c, err := e.Cursor(t)
	if err != nil {
		return err
	}
	status, err := e.srv.GrabPointer(e.root, pointerGrabMask, c)
	if err != nil {
		if perr := e.policy.Handle(err); perr != nil {
			return perr
		}
		return &GrabError{Device: "pointer", Err: err}
	}
	if status != xproto.GrabStatusSuccess {
		e.policy.logf("xengine: failed to grab X pointer: %s", grabStatusString(status))
		return &GrabError{Device: "pointer", Status: status}
	}

	ptr, err := e.srv.QueryPointer(e.root)
	if err != nil {
		return e.policy.Handle(err)
	}
	e.mouseX = ptr.RootX
	e.mouseY = ptr.RootY

	hover := ptr.Child
	for next := ptr.Child; next != 0; {
		hover = next
		st, err := e.srv.QueryPointer(hover)
		if err != nil {
			return e.policy.Handle(err)
		}
		next = st.Child
	}
	e.hover = hover
	return nil
}

// ReleaseCursor drops the pointer grab.
func (e *Engine) ReleaseCursor() error {
	if !e.good {
		return ErrNotConnected
	}
	if err := e.srv.UngrabPointer(); err != nil {
		return e.policy.Handle(err)
	}
	return nil
}

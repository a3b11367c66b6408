package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// WindowInfo is descriptive metadata for a window.
type WindowInfo struct {
	ID    xproto.Window
	Title string
	Class string
	PID   int
}

// ActiveWindow returns the window named by _NET_ACTIVE_WINDOW.
func (c *Connection) ActiveWindow() (xproto.Window, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get active window: %w", err)
	}
	if win == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return win, nil
}

// FindWindowByTitle searches the EWMH client list for a window whose title
// contains substring. Returns the first match.
func (c *Connection) FindWindowByTitle(substring string) (xproto.Window, error) {
	if substring == "" {
		return 0, fmt.Errorf("empty title")
	}
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get client list: %w", err)
	}
	for _, win := range clients {
		if strings.Contains(c.windowTitle(win), substring) {
			return win, nil
		}
	}
	return 0, fmt.Errorf("no window found with title containing %q", substring)
}

// Describe collects title, class and pid of a window. Missing properties are
// left empty.
func (c *Connection) Describe(win xproto.Window) WindowInfo {
	info := WindowInfo{ID: win, Title: c.windowTitle(win)}
	if wmClass, err := icccm.WmClassGet(c.XUtil, win); err == nil {
		info.Class = strings.TrimSpace(wmClass.Class)
	}
	if pid, err := ewmh.WmPidGet(c.XUtil, win); err == nil {
		info.PID = int(pid)
	}
	return info
}

func (c *Connection) windowTitle(win xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, win)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, win)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// FrameExtents returns the decoration sizes the window manager reports for
// a client, or zeros when it reports none.
func (c *Connection) FrameExtents(win xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, win)
	if err != nil {
		return 0, 0, 0, 0
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

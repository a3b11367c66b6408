package x11

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
)

// Target names a window either by id, as the active window, or by a title
// substring. Exactly one must be set.
type Target struct {
	ID     string
	Active bool
	Title  string
}

type windowFinder interface {
	ActiveWindow() (xproto.Window, error)
	FindWindowByTitle(substring string) (xproto.Window, error)
}

// ParseWindowID parses a window id in hex (0x1e00007) or decimal.
func ParseWindowID(s string) (xproto.Window, error) {
	s = strings.TrimSpace(s)
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	if v == 0 {
		return 0, fmt.Errorf("invalid window id %q: must be non-zero", s)
	}
	return xproto.Window(v), nil
}

// Lookup resolves t to a window.
func (c *Connection) Lookup(t Target) (xproto.Window, error) {
	return lookup(c, t)
}

// Validate checks that exactly one selector is set and that an id parses.
func (t Target) Validate() error {
	set := 0
	if strings.TrimSpace(t.ID) != "" {
		set++
	}
	if t.Active {
		set++
	}
	if t.Title != "" {
		set++
	}
	switch {
	case set == 0:
		return errors.New("no window given: pass an id, active or title")
	case set > 1:
		return errors.New("window id, active and title are mutually exclusive")
	}
	if t.ID != "" {
		if _, err := ParseWindowID(t.ID); err != nil {
			return err
		}
	}
	return nil
}

func lookup(f windowFinder, t Target) (xproto.Window, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	switch {
	case t.Active:
		return f.ActiveWindow()
	case t.Title != "":
		return f.FindWindowByTitle(t.Title)
	default:
		return ParseWindowID(t.ID)
	}
}

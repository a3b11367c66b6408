package x11

import (
	"github.com/1broseidon/winselect/internal/xengine"
)

// Open connects to displayName and initialises an engine on that connection.
// The connection is returned as well so callers can run EWMH and RandR
// lookups without opening a second one. Closing the engine closes it.
func Open(displayName string, policy xengine.Policy) (*xengine.Engine, *Connection, error) {
	var conn *Connection
	eng := xengine.New(func(name string) (xengine.Server, error) {
		c, err := NewConnection(name)
		if err != nil {
			return nil, err
		}
		conn = c
		return c, nil
	})
	eng.SetPolicy(policy)

	if err := eng.Init(displayName); err != nil {
		eng.Close()
		return nil, nil, err
	}
	return eng, conn, nil
}

// MonitorName returns the name of the monitor holding the centre of r, or ""
// when RandR is unavailable or the centre is off-screen.
func (c *Connection) MonitorName(r xengine.Rectangle) string {
	monitors, err := c.GetMonitors()
	if err != nil {
		return ""
	}
	m, ok := MonitorAt(monitors, r.X+r.Width/2, r.Y+r.Height/2)
	if !ok {
		return ""
	}
	return m.Name
}

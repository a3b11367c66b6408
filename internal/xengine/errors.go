package xengine

import (
	"errors"
	"fmt"
	"log"

	"github.com/BurntSushi/xgb/xproto"
)

var (
	// ErrNotConnected is returned by every operation on an engine whose
	// Init never succeeded or that has been closed.
	ErrNotConnected = errors.New("xengine: display connection not initialized")
	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = errors.New("xengine: display connection already initialized")
	// ErrOpenDisplay wraps failures to open the display.
	ErrOpenDisplay = errors.New("xengine: failed to open display")
	// ErrGrabDenied matches every *GrabError.
	ErrGrabDenied = errors.New("xengine: grab denied")
	// ErrGeometryUnresolved is returned when the decoration walk cannot
	// reach a direct child of the root window.
	ErrGeometryUnresolved = errors.New("xengine: window geometry unresolved")
)

// Request opcode of GrabKeyboard in the core protocol.
const opcodeGrabKeyboard = 31

// GrabError reports a recoverable grab failure. Status is the grab status
// returned by the server, or 0 when the failure arrived as a protocol error.
type GrabError struct {
	Device string
	Status byte
	Err    error
}

func (e *GrabError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to grab %s: %v", e.Device, e.Err)
	}
	return fmt.Sprintf("failed to grab %s: %s", e.Device, grabStatusString(e.Status))
}

func (e *GrabError) Unwrap() error { return e.Err }

func (e *GrabError) Is(target error) bool { return target == ErrGrabDenied }

func grabStatusString(status byte) string {
	switch status {
	case xproto.GrabStatusSuccess:
		return "success"
	case xproto.GrabStatusAlreadyGrabbed:
		return "already grabbed"
	case xproto.GrabStatusInvalidTime:
		return "invalid time"
	case xproto.GrabStatusNotViewable:
		return "not viewable"
	case xproto.GrabStatusFrozen:
		return "frozen"
	default:
		return fmt.Sprintf("status %d", status)
	}
}

// ProtocolError is a decoded, unrecoverable error reported by the X server.
// Callers are expected to release their grabs, close the engine and exit.
type ProtocolError struct {
	Name        string
	MajorOpcode byte
	MinorOpcode uint16
	Sequence    uint16
	BadValue    uint32
	Err         error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("X Error of failed request:  %s\n"+
		"  Major opcode of failed request: %3d\n"+
		"  Minor opcode of failed request: %3d\n"+
		"  Resource id in failed request:  0x%x\n"+
		"  Serial number of failed request: %5d",
		e.Name, e.MajorOpcode, e.MinorOpcode, e.BadValue, e.Sequence)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// IsFatal reports whether err carries a *ProtocolError.
func IsFatal(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// Policy decides which server errors the engine can survive. The zero value
// tolerates only BadAccess on GrabKeyboard, which happens whenever another
// client already holds the keyboard.
type Policy struct {
	// Logf receives diagnostics for tolerated errors. Defaults to log.Printf.
	Logf func(format string, args ...any)
}

// Handle returns nil when err is tolerated and a *ProtocolError otherwise.
func (p Policy) Handle(err error) error {
	if err == nil {
		return nil
	}
	if Tolerated(err) {
		p.logf("xengine: X Error \"BadAccess\" for GrabKeyboard ignored")
		return nil
	}
	return decode(err)
}

func (p Policy) logf(format string, args ...any) {
	if p.Logf != nil {
		p.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Tolerated reports whether err is BadAccess raised by GrabKeyboard.
func Tolerated(err error) bool {
	var access xproto.AccessError
	if !errors.As(err, &access) {
		return false
	}
	return access.MajorOpcode == opcodeGrabKeyboard
}

func decode(err error) *ProtocolError {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe
	}

	out := &ProtocolError{Name: err.Error(), Err: err}
	inner := err
	for u := errors.Unwrap(inner); u != nil; u = errors.Unwrap(inner) {
		inner = u
	}

	var fields xproto.RequestError
	var ok bool
	switch e := inner.(type) {
	case xproto.RequestError:
		fields, ok = e, true
	case xproto.AccessError:
		fields, ok = xproto.RequestError(e), true
	case xproto.MatchError:
		fields, ok = xproto.RequestError(e), true
	case xproto.AllocError:
		fields, ok = xproto.RequestError(e), true
	case xproto.NameError:
		fields, ok = xproto.RequestError(e), true
	case xproto.LengthError:
		fields, ok = xproto.RequestError(e), true
	case xproto.ImplementationError:
		fields, ok = xproto.RequestError(e), true
	case xproto.ValueError:
		fields, ok = xproto.RequestError(e), true
	case xproto.WindowError:
		fields, ok = xproto.RequestError(e), true
	case xproto.PixmapError:
		fields, ok = xproto.RequestError(e), true
	case xproto.AtomError:
		fields, ok = xproto.RequestError(e), true
	case xproto.CursorError:
		fields, ok = xproto.RequestError(e), true
	case xproto.FontError:
		fields, ok = xproto.RequestError(e), true
	case xproto.DrawableError:
		fields, ok = xproto.RequestError(e), true
	case xproto.ColormapError:
		fields, ok = xproto.RequestError(e), true
	case xproto.GContextError:
		fields, ok = xproto.RequestError(e), true
	case xproto.IDChoiceError:
		fields, ok = xproto.RequestError(e), true
	}
	if ok {
		out.Name = "Bad" + fields.NiceName
		out.MajorOpcode = fields.MajorOpcode
		out.MinorOpcode = fields.MinorOpcode
		out.Sequence = fields.Sequence
		out.BadValue = fields.BadValue
	}
	return out
}

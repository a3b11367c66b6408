package xengine

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestPolicyToleratesBadAccessOnGrabKeyboard(t *testing.T) {
	var logs []string
	p := Policy{Logf: func(format string, args ...any) { logs = append(logs, fmt.Sprintf(format, args...)) }}

	if err := p.Handle(badAccess(opcodeGrabKeyboard)); err != nil {
		t.Fatalf("expected BadAccess on GrabKeyboard to be tolerated, got %v", err)
	}
	if len(logs) != 1 || !strings.Contains(logs[0], "GrabKeyboard") {
		t.Fatalf("expected a diagnostic naming GrabKeyboard, got %v", logs)
	}
}

func TestPolicyTreatsEverythingElseAsFatal(t *testing.T) {
	p := Policy{Logf: func(string, ...any) {}}

	cases := []error{
		badAccess(26), // GrabPointer
		badWindow(5, opcodeGrabKeyboard),
		xproto.MatchError{NiceName: "Match", MajorOpcode: 2},
		xproto.CursorError{NiceName: "Cursor", MajorOpcode: 95},
		io.ErrUnexpectedEOF,
	}
	for _, in := range cases {
		err := p.Handle(in)
		if !IsFatal(err) {
			t.Fatalf("%v: expected fatal, got %v", in, err)
		}
	}
}

func TestProtocolErrorDecodesFields(t *testing.T) {
	p := Policy{}
	err := p.Handle(xproto.WindowError{NiceName: "Window", BadValue: 0x1e00007, MajorOpcode: 15, Sequence: 42})

	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProtocolError, got %T", err)
	}
	if pe.Name != "BadWindow" || pe.MajorOpcode != 15 || pe.Sequence != 42 || pe.BadValue != 0x1e00007 {
		t.Fatalf("unexpected decode: %+v", pe)
	}
	msg := pe.Error()
	for _, want := range []string{"BadWindow", "Major opcode of failed request:  15", "0x1e00007", "42"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
	var we xproto.WindowError
	if !errors.As(err, &we) {
		t.Fatalf("expected the original error to stay reachable")
	}
}

func TestProtocolErrorSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("query tree: %w", xproto.WindowError{NiceName: "Window", MajorOpcode: 15})
	err := Policy{}.Handle(wrapped)

	var pe *ProtocolError
	if !errors.As(err, &pe) || pe.Name != "BadWindow" {
		t.Fatalf("expected decoded BadWindow, got %v", err)
	}
	if (Policy{}).Handle(pe) != error(pe) {
		t.Fatalf("handling an already decoded error must return it unchanged")
	}
}

func TestTolerated(t *testing.T) {
	if !Tolerated(fmt.Errorf("grab: %w", badAccess(opcodeGrabKeyboard))) {
		t.Fatalf("expected wrapped BadAccess on GrabKeyboard to be tolerated")
	}
	if Tolerated(badAccess(33)) {
		t.Fatalf("BadAccess on other requests must not be tolerated")
	}
	if Tolerated(nil) {
		t.Fatalf("nil is not a tolerated error")
	}
}

func TestGrabErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("select: %w", &GrabError{Device: "pointer", Status: xproto.GrabStatusAlreadyGrabbed})
	if !errors.Is(err, ErrGrabDenied) {
		t.Fatalf("expected ErrGrabDenied")
	}
	if !strings.Contains(err.Error(), "already grabbed") {
		t.Fatalf("expected readable status, got %q", err.Error())
	}
}

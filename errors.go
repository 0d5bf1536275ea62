package gc9a01

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by drawing operations before Init has completed.
	ErrNotReady = errors.New("gc9a01: display not ready")
	// ErrOutOfBounds is returned when a window or shape does not fit the panel.
	ErrOutOfBounds = errors.New("gc9a01: out of bounds")
	// ErrBufferLength is returned when a pixel buffer does not match the window area.
	ErrBufferLength = errors.New("gc9a01: invalid buffer size")
	// ErrNoWindow is returned by WritePixels when no window is armed.
	ErrNoWindow = errors.New("gc9a01: no addressing window armed")
	// ErrNotReset is returned by Init unless it directly follows Reset.
	ErrNotReset = errors.New("gc9a01: Init requires a preceding Reset")
	// ErrInvalidOpts is returned by New for unusable options.
	ErrInvalidOpts = errors.New("gc9a01: invalid options")
)

// TransportError reports a failed bus transaction or control line change.
// The command in flight is aborted; none of its bytes can be assumed written.
type TransportError struct {
	Op  string // "command", "data", "pixels" or "reset"
	Cmd byte   // Opcode in flight, 0 for pixel bursts and reset
	Err error
}

func (e *TransportError) Error() string {
	if e.Op == "pixels" || e.Op == "reset" {
		return fmt.Sprintf("gc9a01: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("gc9a01: %s 0x%02X: %v", e.Op, e.Cmd, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// InitError reports the initialization step that failed.
// The controller is left partially configured; restart from Reset.
type InitError struct {
	Step int  // Index into the initialization table
	Cmd  byte // Opcode of the failing step
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("gc9a01: init step %d (0x%02X) failed: %v", e.Step, e.Cmd, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

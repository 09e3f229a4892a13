// Package keypad maps finalized digits onto USB HID numeric keypad
// usages and drives the press/release protocol of a keystroke sink.
package keypad

import (
	"fmt"
	"time"

	"rotarykeypad/internal/hid"
)

// HID keyboard-page usages for the numeric keypad block. Keypad 1..9
// are contiguous from 0x59; keypad 0 sits after 9 at 0x62, the same
// one-through-ten-then-strip ordering the dial itself uses.
const (
	usageKeypad1 = 0x59
	usageKeypad0 = 0x62
)

// Keycode returns the keypad usage for a digit 0-9.
func Keycode(digit int) (byte, error) {
	switch {
	case digit == 0:
		return usageKeypad0, nil
	case digit >= 1 && digit <= 9:
		return byte(usageKeypad1 + digit - 1), nil
	default:
		return 0, fmt.Errorf("digit %d out of range 0-9", digit)
	}
}

// DefaultHold keeps the key down long enough for hosts to register a
// discrete keystroke.
const DefaultHold = 15 * time.Millisecond

// Emitter sends exactly one press/release pair per digit, holding the
// key long enough for the host to register a discrete keystroke.
//
// The hold sleep runs on the caller's goroutine. The dial listener
// calls SendDigit between samples, so the hold must stay well under
// the minimum break-pulse width or a gesture started during the hold
// loses its leading edge.
type Emitter struct {
	sink  hid.Sink
	hold  time.Duration
	sleep func(time.Duration)
}

// NewEmitter builds an emitter over sink. A non-positive hold falls
// back to DefaultHold so a missing config key never produces
// zero-length keystrokes.
func NewEmitter(sink hid.Sink, hold time.Duration) *Emitter {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Emitter{sink: sink, hold: hold, sleep: time.Sleep}
}

// SendDigit emits the press/release pair for digit. The release is
// attempted even when the press fails, so a transient write error can
// never leave a key stuck down on the host.
func (e *Emitter) SendDigit(digit int) error {
	code, err := Keycode(digit)
	if err != nil {
		return err
	}
	pressErr := e.sink.Press(code)
	e.sleep(e.hold)
	if err := e.sink.Release(code); err != nil {
		return fmt.Errorf("release keypad digit %d: %w", digit, err)
	}
	if pressErr != nil {
		return fmt.Errorf("press keypad digit %d: %w", digit, pressErr)
	}
	return nil
}

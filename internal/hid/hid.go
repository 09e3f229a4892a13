// Package hid is the keystroke sink boundary. The decoder hands it
// discrete press/release calls; the transport below turns them into
// whatever the USB stack wants. The only real transport is the Linux
// gadget HID character device — enumeration, report descriptors and
// the rest of the USB machinery belong to the platform, not here.
package hid

import (
	"fmt"
	"io"
	"os"

	"rotarykeypad/internal/logger"
)

// Sink accepts discrete keystroke events for HID keyboard usage codes.
type Sink interface {
	Press(code byte) error
	Release(code byte) error
}

// reportLen is the boot-protocol keyboard input report size:
// modifier byte, reserved byte, six key slots.
const reportLen = 8

// Keyboard writes boot-protocol keyboard reports to an io.Writer,
// typically an opened gadget device such as /dev/hidg0.
type Keyboard struct {
	w io.Writer
}

func NewKeyboard(w io.Writer) *Keyboard { return &Keyboard{w: w} }

// Press reports a single key held down.
func (k *Keyboard) Press(code byte) error {
	var report [reportLen]byte
	report[2] = code
	return k.write(report)
}

// Release reports all keys up. The boot report has no per-key release,
// so releasing any code clears the whole report.
func (k *Keyboard) Release(code byte) error {
	return k.write([reportLen]byte{})
}

func (k *Keyboard) write(report [reportLen]byte) error {
	n, err := k.w.Write(report[:])
	if err != nil {
		return fmt.Errorf("write hid report: %w", err)
	}
	if n != reportLen {
		return fmt.Errorf("short hid report write: %d of %d bytes", n, reportLen)
	}
	return nil
}

// Gadget is a Keyboard bound to an opened gadget device file.
type Gadget struct {
	Keyboard
	f *os.File
}

// OpenGadget opens the gadget HID device for writing.
func OpenGadget(path string) (*Gadget, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open hid gadget %q: %w", path, err)
	}
	return &Gadget{Keyboard: Keyboard{w: f}, f: f}, nil
}

func (g *Gadget) Close() error { return g.f.Close() }

// NullSink discards keystrokes, logging them at debug level. Used on
// bench setups without a gadget device configured.
type NullSink struct {
	Log *logger.Logger
}

func (n NullSink) Press(code byte) error {
	if n.Log != nil {
		n.Log.Debugw("hid press (no device)", "code", code)
	}
	return nil
}

func (n NullSink) Release(code byte) error {
	if n.Log != nil {
		n.Log.Debugw("hid release (no device)", "code", code)
	}
	return nil
}

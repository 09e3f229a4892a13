// Package gpio samples input lines through the sysfs GPIO interface.
// Export, direction and pull configuration belong to the platform boot
// script; this package only reads levels.
package gpio

import (
	"fmt"
	"os"
)

// SysfsLine reads one exported GPIO line as a dial.LineReader.
type SysfsLine struct {
	path   string
	invert bool
}

// NewSysfsLine binds to /sys/class/gpio/gpio<line>/value. invert flips
// the reading for active-low wiring.
func NewSysfsLine(line int, invert bool) *SysfsLine {
	return &SysfsLine{
		path:   fmt.Sprintf("/sys/class/gpio/gpio%d/value", line),
		invert: invert,
	}
}

// Closed reads the line level, applying the configured inversion.
func (l *SysfsLine) Closed() (bool, error) {
	b, err := os.ReadFile(l.path)
	if err != nil {
		return false, fmt.Errorf("read gpio line %s: %w", l.path, err)
	}
	high := len(b) > 0 && b[0] == '1'
	if l.invert {
		return !high, nil
	}
	return high, nil
}

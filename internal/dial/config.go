package dial

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the timing constants that govern pulse decoding. The
// defaults match standard rotary dial timing: ~40 ms breaks separated
// by ~60 ms makes, roughly ten pulses per second. Spring tension varies
// between physical dials, so all four knobs are exposed in the config
// file rather than hard-coded.
type Config struct {
	// DebounceWindow is how long a new level must persist before the
	// detector accepts it as a real transition.
	DebounceWindow time.Duration

	// MinPulse and MaxPulse bound the accepted break width. Breaks
	// outside the range are contact noise and are discarded.
	MinPulse time.Duration
	MaxPulse time.Duration

	// InterDigitTimeout is the quiet period after the last pulse that
	// marks the end of a gesture. It must comfortably exceed the make
	// interval between pulses or a digit would finalize mid-rotation.
	InterDigitTimeout time.Duration
}

// DefaultConfig returns the recommended timings for a Bell-style dial.
func DefaultConfig() Config {
	return Config{
		DebounceWindow:    8 * time.Millisecond,
		MinPulse:          20 * time.Millisecond,
		MaxPulse:          80 * time.Millisecond,
		InterDigitTimeout: 300 * time.Millisecond,
	}
}

var errNonPositiveTiming = errors.New("dial timings must all be positive")

// Validate asserts the ordering the decoder relies on:
// debounce window < min pulse < max pulse < inter-digit timeout.
func (c Config) Validate() error {
	for _, d := range []time.Duration{c.DebounceWindow, c.MinPulse, c.MaxPulse, c.InterDigitTimeout} {
		if d <= 0 {
			return errNonPositiveTiming
		}
	}
	if c.DebounceWindow >= c.MinPulse {
		return fmt.Errorf("debounce window %v must be shorter than min pulse %v", c.DebounceWindow, c.MinPulse)
	}
	if c.MinPulse >= c.MaxPulse {
		return fmt.Errorf("min pulse %v must be shorter than max pulse %v", c.MinPulse, c.MaxPulse)
	}
	if c.MaxPulse >= c.InterDigitTimeout {
		return fmt.Errorf("max pulse %v must be shorter than inter-digit timeout %v", c.MaxPulse, c.InterDigitTimeout)
	}
	return nil
}

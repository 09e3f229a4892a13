// Package dial decodes the break-pulse trains of a rotary telephone
// dial. The Detector turns noisy loop samples into debounced edges and
// the Decoder counts edges into digits; both are driven purely by the
// timestamps they are handed, so a recorded sample sequence always
// decodes the same way.
package dial

import "time"

// EdgeKind distinguishes the two debounced transitions of a line.
type EdgeKind int

const (
	LoopOpened EdgeKind = iota
	LoopClosed
)

func (k EdgeKind) String() string {
	if k == LoopOpened {
		return "loop_opened"
	}
	return "loop_closed"
}

// Edge is a debounced transition. At is the time of the first sample at
// the new level, not the time the debounce window confirmed it, so
// downstream pulse-width measurement stays accurate.
type Edge struct {
	At   time.Time
	Kind EdgeKind
}

// Detector debounces a binary line. A level change is accepted only
// after it persists for the debounce window; shorter flips are contact
// bounce and produce nothing. A line that oscillates faster than the
// window indefinitely emits no edges at all. The first level that holds
// for a full window becomes the baseline, without emitting an edge.
type Detector struct {
	window time.Duration

	baselined    bool
	stable       bool
	pending      bool
	hasPending   bool
	pendingSince time.Time
}

func NewDetector(window time.Duration) *Detector {
	return &Detector{window: window}
}

// Sample feeds one reading. It returns a non-nil Edge when a debounced
// transition is confirmed at this sample. Samples must arrive in
// timestamp order.
func (d *Detector) Sample(closed bool, now time.Time) *Edge {
	if !d.baselined {
		if !d.hasPending || d.pending != closed {
			d.pending = closed
			d.hasPending = true
			d.pendingSince = now
			return nil
		}
		if now.Sub(d.pendingSince) >= d.window {
			d.stable = closed
			d.baselined = true
			d.hasPending = false
		}
		return nil
	}

	if closed == d.stable {
		d.hasPending = false
		return nil
	}
	if !d.hasPending || d.pending != closed {
		d.pending = closed
		d.hasPending = true
		d.pendingSince = now
		return nil
	}
	if now.Sub(d.pendingSince) < d.window {
		return nil
	}

	d.stable = closed
	d.hasPending = false
	kind := LoopOpened
	if closed {
		kind = LoopClosed
	}
	return &Edge{At: d.pendingSince, Kind: kind}
}

// Baselined reports whether an initial stable level has been seen.
func (d *Detector) Baselined() bool { return d.baselined }

// Stable returns the current debounced level; meaningful once Baselined.
func (d *Detector) Stable() bool { return d.stable }

// Reset drops the baseline and any pending transition.
func (d *Detector) Reset() {
	d.baselined = false
	d.hasPending = false
}

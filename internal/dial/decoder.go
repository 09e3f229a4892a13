package dial

import "time"

// Phase of the digit decoder.
type Phase int

const (
	Idle Phase = iota
	Dialing
)

func (p Phase) String() string {
	if p == Dialing {
		return "DIALING"
	}
	return "IDLE"
}

// A dial produces at most ten breaks per rotation; a gesture with more
// is mechanically impossible and gets discarded.
const maxPulsesPerDigit = 10

// EdgeResult describes what a single edge did to the running gesture.
type EdgeResult int

const (
	EdgeIgnored  EdgeResult = iota
	EdgePulse               // a fully-qualified break pulse was counted
	EdgeRejected            // break width out of range, discarded as noise
)

// Gesture is the outcome of one finalized dial rotation.
type Gesture struct {
	Digit  int  // 0-9, meaningful only when OK
	Pulses int  // raw pulse count of the gesture
	OK     bool // false when the gesture was malformed and discarded
}

// Decoder counts debounced break pulses and finalizes a digit once the
// inter-digit quiet period elapses. Ten pulses mean zero, the analog
// telephony convention. Noise pulses and overcounted gestures are
// absorbed without error: a mis-dial must never stall the keystroke
// pipeline.
type Decoder struct {
	cfg Config

	phase      Phase
	pulseCount int
	inBreak    bool
	breakStart time.Time
	lastEdge   time.Time
}

func NewDecoder(cfg Config) *Decoder {
	return &Decoder{cfg: cfg}
}

// OnEdge consumes one debounced edge. Edges must arrive in timestamp
// order; the detector guarantees a LoopClosed never precedes its
// matching LoopOpened.
func (d *Decoder) OnEdge(e Edge) EdgeResult {
	switch d.phase {
	case Idle:
		if e.Kind != LoopOpened {
			return EdgeIgnored
		}
		d.phase = Dialing
		d.pulseCount = 0
		d.inBreak = true
		d.breakStart = e.At
		d.lastEdge = e.At
		return EdgeIgnored

	case Dialing:
		d.lastEdge = e.At
		if e.Kind == LoopOpened {
			d.inBreak = true
			d.breakStart = e.At
			return EdgeIgnored
		}
		if !d.inBreak {
			return EdgeIgnored
		}
		d.inBreak = false
		if width := e.At.Sub(d.breakStart); width < d.cfg.MinPulse || width > d.cfg.MaxPulse {
			return EdgeRejected
		}
		d.pulseCount++
		return EdgePulse
	}
	return EdgeIgnored
}

// Tick evaluates the finalize timeout. It must be called on a periodic
// cadence, not just on edge arrival: the last gesture of a dial ends
// with silence, never with another edge. The second return is true when
// a gesture ended on this tick.
func (d *Decoder) Tick(now time.Time) (Gesture, bool) {
	if d.phase != Dialing {
		return Gesture{}, false
	}
	if now.Sub(d.lastEdge) < d.cfg.InterDigitTimeout {
		return Gesture{}, false
	}

	g := Gesture{Pulses: d.pulseCount}
	switch {
	case d.pulseCount >= 1 && d.pulseCount < maxPulsesPerDigit:
		g.Digit = d.pulseCount
		g.OK = true
	case d.pulseCount == maxPulsesPerDigit:
		g.Digit = 0
		g.OK = true
	}
	d.Reset()
	return g, true
}

// Phase reports the current decoder phase.
func (d *Decoder) Phase() Phase { return d.phase }

// PulseCount reports pulses counted so far in the in-progress gesture.
func (d *Decoder) PulseCount() int { return d.pulseCount }

// Reset abandons any in-progress gesture and returns to Idle.
func (d *Decoder) Reset() {
	d.phase = Idle
	d.pulseCount = 0
	d.inBreak = false
}

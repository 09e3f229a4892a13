package dial

import (
	"fmt"
	"sort"
	"time"
)

// Simulator replay timings: nominal 40 ms breaks and 60 ms makes, a
// rest long enough to finalize between digits, and a longer rest
// before the sequence repeats.
const (
	simBreak     = 40 * time.Millisecond
	simMake      = 60 * time.Millisecond
	simDigitRest = 600 * time.Millisecond
	simCycleRest = 2 * time.Second
)

// Simulator is a LineReader that replays a digit string as a correctly
// timed break-pulse train, looping forever. It stands in for the real
// dial on boards without the phone wired up.
type Simulator struct {
	clock  func() time.Time
	start  time.Time
	opens  []openInterval
	period time.Duration
}

// openInterval is a loop-open span as an offset from the cycle start.
type openInterval struct {
	from, to time.Duration
}

// NewSimulator builds a simulator for a string of digits 0-9. clock is
// normally time.Now; tests inject their own.
func NewSimulator(digits string, clock func() time.Time) (*Simulator, error) {
	if digits == "" {
		return nil, fmt.Errorf("simulator needs at least one digit")
	}
	s := &Simulator{clock: clock}
	at := simDigitRest
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("simulator digit %q out of range", r)
		}
		pulses := int(r - '0')
		if pulses == 0 {
			pulses = maxPulsesPerDigit
		}
		for i := 0; i < pulses; i++ {
			s.opens = append(s.opens, openInterval{from: at, to: at + simBreak})
			at += simBreak + simMake
		}
		at += simDigitRest
	}
	s.period = at + simCycleRest
	s.start = clock()
	return s, nil
}

// Closed reports the synthetic loop level at the current clock reading.
func (s *Simulator) Closed() (bool, error) {
	off := s.clock().Sub(s.start) % s.period
	i := sort.Search(len(s.opens), func(i int) bool { return s.opens[i].to > off })
	if i < len(s.opens) && s.opens[i].from <= off {
		return false, nil
	}
	return true, nil
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rotarykeypad/internal/dial"
	"rotarykeypad/internal/keypad"
	"rotarykeypad/internal/models"
	"rotarykeypad/internal/repository"
)

// ---- Test doubles ----

type stubLine struct {
	closed bool
	err    error
}

func (l *stubLine) Closed() (bool, error) { return l.closed, l.err }

type memStateRepo struct {
	saves []models.DialState
}

func (r *memStateRepo) Save(ctx context.Context, s models.DialState) error {
	r.saves = append(r.saves, s)
	return nil
}

func (r *memStateRepo) Load(ctx context.Context) (models.DialState, error) {
	if len(r.saves) == 0 {
		return models.DialState{}, nil
	}
	return r.saves[len(r.saves)-1], nil
}

type memEventRepo struct {
	events []models.DialEvent
}

func (r *memEventRepo) Append(ctx context.Context, e models.DialEvent) error {
	r.events = append(r.events, e)
	return nil
}

func (r *memEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.DialEvent, error) {
	return r.events, nil
}

func (r *memEventRepo) ofType(typ string) []models.DialEvent {
	var out []models.DialEvent
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type codeSink struct {
	presses  []byte
	releases []byte
}

func (s *codeSink) Press(code byte) error {
	s.presses = append(s.presses, code)
	return nil
}

func (s *codeSink) Release(code byte) error {
	s.releases = append(s.releases, code)
	return nil
}

// ---- Harness ----

// harness drives the listener's step with a synthetic clock, the same
// 2 ms cadence the real ticker uses.
type harness struct {
	s      *ListenerService
	line   *stubLine
	hook   *stubLine
	sink   *codeSink
	states *memStateRepo
	events *memEventRepo
	now    time.Time
}

func newHarness(t *testing.T, withHook bool) *harness {
	t.Helper()
	h := &harness{
		line:   &stubLine{closed: true},
		sink:   &codeSink{},
		states: &memStateRepo{},
		events: &memEventRepo{},
		now:    time.Unix(0, 0),
	}
	deps := Deps{
		Repos:   &repository.Repository{StateRepo: h.states, EventRepo: h.events},
		Line:    h.line,
		Dial:    dial.DefaultConfig(),
		Emitter: keypad.NewEmitter(h.sink, time.Millisecond),
	}
	if withHook {
		h.hook = &stubLine{closed: false} // starts on hook
		deps.Hook = h.hook
	}
	h.s = NewListenerService(deps)
	return h
}

func (h *harness) run(d time.Duration, closed bool) {
	h.line.closed = closed
	end := h.now.Add(d)
	for h.now.Before(end) {
		h.s.step(context.Background(), h.now)
		h.now = h.now.Add(2 * time.Millisecond)
	}
}

// pulse dials n nominal 40/60 ms break pulses.
func (h *harness) pulse(n int) {
	for i := 0; i < n; i++ {
		h.run(40*time.Millisecond, false)
		h.run(60*time.Millisecond, true)
	}
}

func lastState(t *testing.T, r *memStateRepo) models.DialState {
	t.Helper()
	if len(r.saves) == 0 {
		t.Fatalf("expected at least one state save")
	}
	return r.saves[len(r.saves)-1]
}

// ---- Tests ----

func TestListener_DialedDigitBecomesKeystroke(t *testing.T) {
	h := newHarness(t, false)

	h.run(50*time.Millisecond, true) // baseline
	h.pulse(2)
	h.run(400*time.Millisecond, true) // quiet: finalize

	if len(h.sink.presses) != 1 || h.sink.presses[0] != 0x5a {
		t.Fatalf("presses = %#v, want one press of 0x5a (keypad 2)", h.sink.presses)
	}
	if len(h.sink.releases) != 1 {
		t.Fatalf("releases = %d, want 1", len(h.sink.releases))
	}

	digits := h.events.ofType(models.EventDigit)
	if len(digits) != 1 {
		t.Fatalf("DIGIT events = %d, want 1", len(digits))
	}

	st := lastState(t, h.states)
	if st.Phase != models.PhaseIdle || st.LastDigit != 2 || st.DigitsEmitted != 1 {
		t.Fatalf("unexpected final state: %+v", st)
	}
}

func TestListener_TenPulsesEmitKeypadZero(t *testing.T) {
	h := newHarness(t, false)

	h.run(50*time.Millisecond, true)
	h.pulse(10)
	h.run(400*time.Millisecond, true)

	if len(h.sink.presses) != 1 || h.sink.presses[0] != 0x62 {
		t.Fatalf("presses = %#v, want one press of 0x62 (keypad 0)", h.sink.presses)
	}
	if st := lastState(t, h.states); st.LastDigit != 0 {
		t.Fatalf("last digit = %d, want 0", st.LastDigit)
	}
}

func TestListener_ShortBreakLogsNoiseAndKeepsDecoding(t *testing.T) {
	h := newHarness(t, false)

	h.run(50*time.Millisecond, true)
	// 12 ms break: survives debounce but is below the 20 ms pulse
	// minimum, so the decoder rejects it.
	h.run(12*time.Millisecond, false)
	h.run(60*time.Millisecond, true)
	h.pulse(5)
	h.run(400*time.Millisecond, true)

	if len(h.events.ofType(models.EventNoise)) != 1 {
		t.Fatalf("NOISE events = %d, want 1", len(h.events.ofType(models.EventNoise)))
	}
	if len(h.sink.presses) != 1 || h.sink.presses[0] != 0x5d {
		t.Fatalf("presses = %#v, want one press of 0x5d (keypad 5)", h.sink.presses)
	}
}

func TestListener_OvercountDiscardedWithoutKeystroke(t *testing.T) {
	h := newHarness(t, false)

	h.run(50*time.Millisecond, true)
	h.pulse(12)
	h.run(400*time.Millisecond, true)

	if len(h.sink.presses) != 0 {
		t.Fatalf("overcounted gesture emitted %d keystrokes", len(h.sink.presses))
	}
	if len(h.events.ofType(models.EventOvercount)) != 1 {
		t.Fatalf("OVERCOUNT events = %d, want 1", len(h.events.ofType(models.EventOvercount)))
	}
	if st := lastState(t, h.states); st.Phase != models.PhaseIdle {
		t.Fatalf("decoder not idle after discard: %+v", st)
	}
}

func TestListener_BackToBackDigitsInOrder(t *testing.T) {
	h := newHarness(t, false)

	h.run(50*time.Millisecond, true)
	h.pulse(3)
	h.run(400*time.Millisecond, true)
	h.pulse(9)
	h.run(400*time.Millisecond, true)

	want := []byte{0x5b, 0x61} // keypad 3 then keypad 9
	if len(h.sink.presses) != 2 || h.sink.presses[0] != want[0] || h.sink.presses[1] != want[1] {
		t.Fatalf("presses = %#v, want %#v", h.sink.presses, want)
	}
	if len(h.sink.releases) != 2 {
		t.Fatalf("releases = %d, want 2", len(h.sink.releases))
	}
	if st := lastState(t, h.states); st.DigitsEmitted != 2 {
		t.Fatalf("digits emitted = %d, want 2", st.DigitsEmitted)
	}
}

func TestListener_LineErrorsAreAbsorbed(t *testing.T) {
	h := newHarness(t, false)
	h.run(50*time.Millisecond, true)

	h.line.err = errors.New("gpio unreadable")
	h.run(50*time.Millisecond, true)
	h.line.err = nil

	h.pulse(1)
	h.run(400*time.Millisecond, true)
	if len(h.sink.presses) != 1 || h.sink.presses[0] != 0x59 {
		t.Fatalf("presses = %#v, want keypad 1 after recovery", h.sink.presses)
	}
}

func TestListener_OnHookIgnoresDial(t *testing.T) {
	h := newHarness(t, true)

	// Handset down: toggling the dial line must do nothing.
	h.run(50*time.Millisecond, true)
	h.pulse(4)
	h.run(400*time.Millisecond, true)
	if len(h.sink.presses) != 0 {
		t.Fatalf("on-hook dialing produced %d keystrokes", len(h.sink.presses))
	}

	// Lift the handset, then dial.
	h.hook.closed = true
	h.run(50*time.Millisecond, true) // hook debounce + dial baseline
	if len(h.events.ofType(models.EventOffHook)) != 1 {
		t.Fatalf("expected one OFF_HOOK event")
	}
	h.pulse(4)
	h.run(400*time.Millisecond, true)
	if len(h.sink.presses) != 1 || h.sink.presses[0] != 0x5c {
		t.Fatalf("presses = %#v, want keypad 4", h.sink.presses)
	}
}

func TestListener_HangUpMidGestureAbandonsIt(t *testing.T) {
	h := newHarness(t, true)
	h.hook.closed = true
	h.run(50*time.Millisecond, true)

	h.pulse(2)
	// Handset goes down mid-gesture.
	h.hook.closed = false
	h.run(20*time.Millisecond, true)
	if len(h.events.ofType(models.EventOnHook)) != 1 {
		t.Fatalf("expected one ON_HOOK event")
	}

	// Quiet period passes with the handset down: no digit.
	h.run(400*time.Millisecond, true)
	if len(h.sink.presses) != 0 {
		t.Fatalf("abandoned gesture still emitted %d keystrokes", len(h.sink.presses))
	}
	if st := lastState(t, h.states); st.Phase != models.PhaseIdle || st.OffHook {
		t.Fatalf("unexpected state after hang-up: %+v", st)
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"rotarykeypad/internal/dial"
	"rotarykeypad/internal/keypad"
	"rotarykeypad/internal/logger"
	"rotarykeypad/internal/models"
	"rotarykeypad/internal/repository"

	"github.com/google/uuid"
)

// defaultSampleInterval keeps comfortably under the 5 ms resolution
// that 40 ms break pulses require.
const defaultSampleInterval = 2 * time.Millisecond

// ListenerService owns the whole decoding pipeline: it polls the loop
// line on a fixed cadence, debounces it, feeds the digit decoder and
// fires the keystroke emitter on finalized digits. It is the only
// writer of decoder state; HTTP handlers just read what it persists,
// so no locking is needed anywhere in the pipeline.
type ListenerService struct {
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	line      dial.LineReader
	hook      dial.LineReader
	emitter   *keypad.Emitter
	log       *logger.Logger
	interval  time.Duration

	detector     *dial.Detector
	hookDetector *dial.Detector
	decoder      *dial.Decoder
	offHook      bool
	state        models.DialState
}

func NewListenerService(d Deps) *ListenerService {
	interval := d.SampleInterval
	if interval <= 0 {
		interval = defaultSampleInterval
	}
	s := &ListenerService{
		stateRepo: d.Repos.StateRepo,
		eventRepo: d.Repos.EventRepo,
		line:      d.Line,
		hook:      d.Hook,
		emitter:   d.Emitter,
		log:       d.Log,
		interval:  interval,
		detector:  dial.NewDetector(d.Dial.DebounceWindow),
		decoder:   dial.NewDecoder(d.Dial),
		state:     models.DialState{ID: 1, Phase: models.PhaseIdle, LastDigit: -1},
	}
	if d.Hook != nil {
		s.hookDetector = dial.NewDetector(d.Dial.DebounceWindow)
	} else {
		// No hook switch wired: treat the phone as permanently off hook.
		s.offHook = true
	}
	return s
}

// Run samples until ctx is canceled.
func (s *ListenerService) Run(ctx context.Context) {
	s.append(ctx, models.EventStart, "dial listener started", nil)
	s.syncState(ctx, time.Now())

	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.append(context.Background(), models.EventStop, "dial listener stopped", nil)
			return
		case now := <-t.C:
			s.step(ctx, now)
		}
	}
}

// step runs one sampling tick. Split out from Run so tests can drive
// the pipeline with synthetic clocks instead of a live ticker.
func (s *ListenerService) step(ctx context.Context, now time.Time) {
	if !s.stepHook(ctx, now) {
		return
	}

	closed, err := s.line.Closed()
	if err != nil {
		// A missed sample is a platform concern; keep decoding with
		// the next good reading.
		if s.log != nil {
			s.log.Warnw("dial line read failed", "err", err)
		}
		return
	}

	changed := false
	if e := s.detector.Sample(closed, now); e != nil {
		if res := s.decoder.OnEdge(*e); res == dial.EdgeRejected {
			s.append(ctx, models.EventNoise, "break pulse outside valid width, discarded", map[string]any{
				"pulse_count": s.decoder.PulseCount(),
			})
		}
		changed = true
	}
	if g, done := s.decoder.Tick(now); done {
		s.finishGesture(ctx, g)
		changed = true
	}
	if changed {
		s.syncState(ctx, now)
	}
}

// stepHook tracks the hook switch. It returns false while the handset
// is on hook, which pauses all dial processing; a gesture in progress
// when the handset goes down is abandoned.
func (s *ListenerService) stepHook(ctx context.Context, now time.Time) bool {
	if s.hook == nil {
		return true
	}
	lifted, err := s.hook.Closed()
	if err != nil {
		if s.log != nil {
			s.log.Warnw("hook line read failed", "err", err)
		}
		return s.offHook
	}

	s.hookDetector.Sample(lifted, now)
	offHook := s.hookDetector.Baselined() && s.hookDetector.Stable()
	if offHook != s.offHook {
		s.offHook = offHook
		if offHook {
			s.append(ctx, models.EventOffHook, "handset lifted", nil)
		} else {
			s.decoder.Reset()
			s.detector.Reset()
			s.append(ctx, models.EventOnHook, "handset replaced", nil)
		}
		if s.log != nil {
			s.log.Infow("hook state changed", "off_hook", offHook)
		}
		s.syncState(ctx, now)
	}
	return s.offHook
}

// finishGesture handles one finalized gesture: a valid digit becomes a
// keystroke, a malformed gesture is absorbed. Neither path ever stops
// the pipeline.
func (s *ListenerService) finishGesture(ctx context.Context, g dial.Gesture) {
	if !g.OK {
		// Zero pulses means a misfired finalize; log nothing for it.
		if g.Pulses > 0 {
			s.append(ctx, models.EventOvercount, "gesture discarded: too many pulses", map[string]any{
				"pulses": g.Pulses,
			})
			if s.log != nil {
				s.log.Warnw("dial gesture discarded", "pulses", g.Pulses)
			}
		}
		return
	}

	if err := s.emitter.SendDigit(g.Digit); err != nil && s.log != nil {
		s.log.Errorw("keystroke emit failed", "digit", g.Digit, "err", err)
	}
	s.state.LastDigit = g.Digit
	s.state.DigitsEmitted++
	s.append(ctx, models.EventDigit, fmt.Sprintf("dialed digit %d", g.Digit), map[string]any{
		"digit":  g.Digit,
		"pulses": g.Pulses,
	})
	if s.log != nil {
		s.log.Infow("digit dialed", "digit", g.Digit, "pulses", g.Pulses)
	}
}

// syncState mirrors decoder state into the persisted snapshot.
// Persistence failures are logged and ignored: diagnostics must never
// stall the keystroke pipeline.
func (s *ListenerService) syncState(ctx context.Context, now time.Time) {
	s.state.Phase = s.decoder.Phase().String()
	s.state.PulseCount = s.decoder.PulseCount()
	s.state.OffHook = s.offHook
	s.state.UpdatedAt = now.UTC()
	if err := s.stateRepo.Save(ctx, s.state); err != nil && s.log != nil {
		s.log.Warnw("state save failed", "err", err)
	}
}

func (s *ListenerService) append(ctx context.Context, typ, msg string, meta map[string]any) {
	ev := models.DialEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: msg,
	}
	if meta != nil {
		ev.Metadata = meta
	}
	if err := s.eventRepo.Append(ctx, ev); err != nil && s.log != nil {
		s.log.Warnw("event append failed", "type", typ, "err", err)
	}
}

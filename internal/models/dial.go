package models

import "time"

// Event types recorded in the dial event log.
const (
	EventStart     = "START"
	EventStop      = "STOP"
	EventDigit     = "DIGIT"
	EventNoise     = "NOISE"
	EventOvercount = "OVERCOUNT"
	EventOffHook   = "OFF_HOOK"
	EventOnHook    = "ON_HOOK"
)

// Decoder phases as persisted and reported.
const (
	PhaseIdle    = "IDLE"
	PhaseDialing = "DIALING"
)

// DialState is the live decoder snapshot, persisted as a single row.
type DialState struct {
	ID            int       `json:"id"`
	Phase         string    `json:"phase"`       // IDLE | DIALING
	PulseCount    int       `json:"pulse_count"` // pulses of the in-progress gesture
	LastDigit     int       `json:"last_digit"`  // -1 until a digit has been emitted
	DigitsEmitted int       `json:"digits_emitted"`
	OffHook       bool      `json:"off_hook"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DialEvent is a single entry in the append-only event log.
type DialEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // DIGIT | NOISE | OVERCOUNT | OFF_HOOK | ON_HOOK | START | STOP
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

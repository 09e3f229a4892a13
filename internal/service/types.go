package service

import "time"

// EventFilter narrows event-log queries by time range and type.
type EventFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "DIGIT", "NOISE", "OVERCOUNT", "OFF_HOOK", "ON_HOOK", "START", "STOP"
}

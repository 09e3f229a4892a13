package service

import (
	"context"
	"time"

	"rotarykeypad/internal/dial"
	"rotarykeypad/internal/keypad"
	"rotarykeypad/internal/logger"
	"rotarykeypad/internal/models"
	"rotarykeypad/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Monitoring exposes the live decoder snapshot (read-only).
type Monitoring interface {
	GetState(ctx context.Context) (models.DialState, error)
}

// EventLog exposes the dial event history with filtering.
type EventLog interface {
	List(ctx context.Context, f EventFilter) ([]models.DialEvent, error)
}

// Listener runs the sampling/decoding loop until its context is
// canceled. Stop via context cancellation in main() for graceful
// shutdown.
type Listener interface {
	Run(ctx context.Context)
}

// Keys sends keystrokes outside the dial path, for cabling checks.
type Keys interface {
	SendTest(digit int) error
}

// Service aggregates all sub-services.
type Service struct {
	Listener
	Monitoring
	EventLog
	Keys
	Authorization
}

// Deps carries everything the services need. Hardware lines and the
// keystroke emitter are injected so the whole stack runs against stubs
// in tests, no phone required.
type Deps struct {
	Repos          *repository.Repository
	Line           dial.LineReader
	Hook           dial.LineReader // nil when no hook switch is wired
	Dial           dial.Config
	SampleInterval time.Duration
	Emitter        *keypad.Emitter
	SigningKey     string
	Log            *logger.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		Listener:      NewListenerService(d),
		Monitoring:    NewMonitoringService(d.Repos.StateRepo),
		EventLog:      NewEventLogService(d.Repos.EventRepo),
		Keys:          NewKeysService(d.Emitter),
		Authorization: NewAuthService(d.Repos.Auth, d.SigningKey),
	}
}

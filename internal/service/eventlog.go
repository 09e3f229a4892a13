package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"rotarykeypad/internal/models"
	"rotarykeypad/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// List returns events matching the filter, with times normalized to
// UTC and the type filter trimmed and uppercased.
func (s *EventLogService) List(ctx context.Context, f EventFilter) ([]models.DialEvent, error) {
	from, to := utcOrZero(f.From), utcOrZero(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	typ := strings.ToUpper(strings.TrimSpace(f.Type))
	return s.eventRepo.List(ctx, from, to, typ)
}

// utcOrZero converts to UTC, preserving zero values.
func utcOrZero(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

package service

import (
	"context"
	"testing"
	"time"

	"rotarykeypad/internal/models"
)

type captureEventRepo struct {
	from, to time.Time
	typ      string
	resp     []models.DialEvent
}

func (r *captureEventRepo) Append(ctx context.Context, e models.DialEvent) error { return nil }
func (r *captureEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.DialEvent, error) {
	r.from, r.to, r.typ = from, to, typ
	return r.resp, nil
}

func TestEventLog_NormalizesFilter(t *testing.T) {
	repo := &captureEventRepo{resp: []models.DialEvent{{EventID: "e1"}}}
	svc := NewEventLogService(repo)

	loc := time.FixedZone("X", -7200)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, loc)
	to := time.Date(2026, 8, 2, 0, 0, 0, 0, loc)

	events, err := svc.List(context.Background(), EventFilter{From: from, To: to, Type: " digit "})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if repo.typ != "DIGIT" {
		t.Fatalf("type filter = %q, want DIGIT", repo.typ)
	}
	if repo.from.Location() != time.UTC || repo.to.Location() != time.UTC {
		t.Fatalf("range not normalized to UTC: %v %v", repo.from, repo.to)
	}
}

func TestEventLog_RejectsInvertedRange(t *testing.T) {
	svc := NewEventLogService(&captureEventRepo{})

	from := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.List(context.Background(), EventFilter{From: from, To: to}); err == nil {
		t.Fatalf("expected error for from > to")
	}
}

func TestEventLog_ZeroBoundsPassThrough(t *testing.T) {
	repo := &captureEventRepo{}
	svc := NewEventLogService(repo)

	if _, err := svc.List(context.Background(), EventFilter{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !repo.from.IsZero() || !repo.to.IsZero() || repo.typ != "" {
		t.Fatalf("zero filter mangled: %+v", repo)
	}
}

package service

import (
	"context"
	"time"

	"rotarykeypad/internal/models"
	"rotarykeypad/internal/repository"
)

type MonitoringService struct {
	stateRepo repository.StateRepo
}

func NewMonitoringService(stateRepo repository.StateRepo) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo}
}

// GetState returns the latest persisted decoder snapshot, or an idle
// baseline when the listener has not written anything yet.
func (s *MonitoringService) GetState(ctx context.Context) (models.DialState, error) {
	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		return models.DialState{}, err
	}
	if st.ID == 0 {
		return baselineState(), nil
	}
	st.UpdatedAt = st.UpdatedAt.UTC()
	return st, nil
}

// baselineState is the snapshot before the listener's first write:
// idle decoder, nothing dialed yet.
func baselineState() models.DialState {
	return models.DialState{
		ID:        1, // schema enforces the single-row state at id=1
		Phase:     models.PhaseIdle,
		LastDigit: -1,
		UpdatedAt: time.Now().UTC(),
	}
}

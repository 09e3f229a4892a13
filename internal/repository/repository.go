package repository

import (
	"context"
	"database/sql"
	"time"

	"rotarykeypad/internal/models"
)

// StateRepo persists the single live decoder snapshot.
type StateRepo interface {
	Save(ctx context.Context, s models.DialState) error
	Load(ctx context.Context) (models.DialState, error)
}

// EventRepo is the append-only dial event log with range/type filtering.
type EventRepo interface {
	Append(ctx context.Context, e models.DialEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.DialEvent, error)
}

// Authorization stores API user accounts.
type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}

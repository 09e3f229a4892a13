package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rotarykeypad/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

// The snapshot is a single row keyed at 1; the schema enforces it.
const dialStateRowID = 1

const upsertStateSQL = `
	INSERT INTO dial_state (id, phase, pulse_count, last_digit, digits_emitted, off_hook, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		phase=excluded.phase,
		pulse_count=excluded.pulse_count,
		last_digit=excluded.last_digit,
		digits_emitted=excluded.digits_emitted,
		off_hook=excluded.off_hook,
		updated_at=excluded.updated_at
`

const selectStateSQL = `
	SELECT id, phase, pulse_count, last_digit, digits_emitted, off_hook, updated_at
	FROM dial_state WHERE id=?
`

// Save upserts the snapshot row, normalizing the timestamp to UTC.
func (r *StateSQLite) Save(ctx context.Context, s models.DialState) error {
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.ExecContext(ctx, upsertStateSQL,
		dialStateRowID,
		s.Phase,
		s.PulseCount,
		s.LastDigit,
		s.DigitsEmitted,
		s.OffHook,
		ts.UTC(),
	)
	return err
}

// Load fetches the snapshot row. A missing row returns the zero value
// (ID 0); callers treat that as "listener has not written yet".
func (r *StateSQLite) Load(ctx context.Context) (models.DialState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, dialStateRowID)

	var s models.DialState
	if err := row.Scan(
		&s.ID,
		&s.Phase,
		&s.PulseCount,
		&s.LastDigit,
		&s.DigitsEmitted,
		&s.OffHook,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DialState{}, nil
		}
		return models.DialState{}, err
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

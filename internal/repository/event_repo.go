package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"rotarykeypad/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// SQLite TIMESTAMP column format.
const sqliteTimeLayout = "2006-01-02 15:04:05"

const insertEventSQL = `
	INSERT INTO dial_events (id, occurred_at, type, message, meta)
	VALUES (?, ?, ?, ?, ?)
`

// Append inserts one event, generating the ID and timestamp when the
// caller left them empty.
func (r *EventSQLite) Append(ctx context.Context, e models.DialEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.OccurredAt.UTC().Format(sqliteTimeLayout),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Description,
		metaPtr,
	)
	return err
}

// List returns events in [from, to] (inclusive, zero means unbounded),
// optionally filtered by type, ordered by occurrence.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.DialEvent, error) {
	q, args := buildListQuery(from, to, typ)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DialEvent, 0, 64)
	for rows.Next() {
		var ev models.DialEvent
		var meta sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Description, &meta); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()
		if meta.Valid && meta.String != "" {
			var v any
			if err := json.Unmarshal([]byte(meta.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = meta.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildListQuery(from, to time.Time, typ string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := `SELECT id, occurred_at, type, message, meta FROM dial_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"
	return q, args
}

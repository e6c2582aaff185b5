// Package repo persists the identity-access trail in ClickHouse
package repo

import (
	"context"
	"time"

	"rolelink/internal/platform/store"
	"rolelink/internal/services/audit/domain"
)

// Schema for the trail; append-only, ordered by time
const Schema = `
CREATE TABLE IF NOT EXISTS identity_accesses (
	at        DateTime64(3, 'UTC'),
	requester String,
	target    String,
	reason    String,
	automated UInt8
) ENGINE = MergeTree()
ORDER BY (at)
`

// CH implements storage against the clickhouse seam
type CH struct {
	db store.Clickhouse
}

// NewCH constructs the clickhouse-backed audit store
func NewCH(db store.Clickhouse) *CH { return &CH{db: db} }

// EnsureSchema creates the trail table when missing
func (s *CH) EnsureSchema(ctx context.Context) error {
	return s.db.Exec(ctx, Schema)
}

// Append writes one event
func (s *CH) Append(ctx context.Context, ev domain.Event) error {
	automated := uint8(0)
	if ev.Automated {
		automated = 1
	}
	return s.db.Exec(ctx,
		`INSERT INTO identity_accesses (at, requester, target, reason, automated) VALUES (?, ?, ?, ?, ?)`,
		ev.At.UTC(), ev.Requester, ev.Target, ev.Reason, automated,
	)
}

// Recent returns the latest events, optionally filtered by target
func (s *CH) Recent(ctx context.Context, target string, limit int) ([]domain.Event, error) {
	q := `SELECT at, requester, target, reason, automated FROM identity_accesses`
	var args []any
	if target != "" {
		q += ` WHERE target = ?`
		args = append(args, target)
	}
	q += ` ORDER BY at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var ev domain.Event
		var at time.Time
		var automated uint8
		if err := rows.Scan(&at, &ev.Requester, &ev.Target, &ev.Reason, &automated); err != nil {
			return nil, err
		}
		ev.At = at
		ev.Automated = automated == 1
		out = append(out, ev)
	}
	return out, rows.Err()
}

package calllog

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepo stores call records in Postgres. Append-only: no update or
// delete statements exist.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS call_log (
			id               UUID PRIMARY KEY,
			call_id          TEXT NOT NULL,
			caller           TEXT NOT NULL DEFAULT '',
			outcome          TEXT NOT NULL,
			turns            INT NOT NULL DEFAULT 0,
			duration_seconds INT NOT NULL DEFAULT 0,
			reservation_id   BIGINT NOT NULL DEFAULT 0,
			ended_at         TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("calllog: migrate: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Append(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO call_log (id, call_id, caller, outcome, turns, duration_seconds, reservation_id, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.CallID, rec.From, rec.Outcome, rec.Turns,
		rec.DurationSeconds, rec.ReservationID, rec.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("calllog: append: %w", err)
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, call_id, caller, outcome, turns, duration_seconds, reservation_id, ended_at
		FROM call_log ORDER BY ended_at`)
	if err != nil {
		return nil, fmt.Errorf("calllog: list: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.CallID, &rec.From, &rec.Outcome, &rec.Turns,
			&rec.DurationSeconds, &rec.ReservationID, &rec.EndedAt); err != nil {
			return nil, fmt.Errorf("calllog: scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists audit events in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores one event.
func (r *Repository) Insert(ctx context.Context, event Event) error {
	detail, err := json.Marshal(event.Detail)
	if err != nil {
		return fmt.Errorf("audit: marshal detail: %w", err)
	}
	const q = `INSERT INTO audit_events (id, type, actor, subject, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, q, event.ID, event.Type, event.Actor, event.Subject, detail, event.OccurredAt); err != nil {
		return fmt.Errorf("audit: insert event: %w", err)
	}
	return nil
}

// ListRecent returns the newest events, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	const q = `SELECT id, type, actor, subject, detail, occurred_at
		FROM audit_events ORDER BY occurred_at DESC, id LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var detail []byte
		if err := rows.Scan(&event.ID, &event.Type, &event.Actor, &event.Subject, &detail, &event.OccurredAt); err != nil {
			return nil, fmt.Errorf("audit: scan event: %w", err)
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &event.Detail); err != nil {
				return nil, fmt.Errorf("audit: unmarshal detail: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: list rows: %w", err)
	}
	return events, nil
}

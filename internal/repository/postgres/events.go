package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignite/audience-subscribe/internal/domain"
)

// defaultEventLimit caps ListByEmailHash when no limit is given.
const defaultEventLimit = 100

// EventRepo stores subscription events in PostgreSQL.
type EventRepo struct{ db *sql.DB }

// NewEventRepo creates a Postgres-backed event repository.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// Record inserts an event. A missing id is generated.
func (r *EventRepo) Record(ctx context.Context, evt domain.SubscriptionEvent) error {
	if evt.ID == "" {
		evt.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscription_events (id, action, audience_id, email_hash, permanent, success, error_code, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, evt.ID, string(evt.Action), evt.AudienceID, evt.EmailHash, evt.Permanent, evt.Success, evt.ErrorCode, evt.OccurredAt)
	if err != nil {
		return fmt.Errorf("record subscription event: %w", err)
	}
	return nil
}

// ListByEmailHash returns the most recent events for one member hash, newest first.
func (r *EventRepo) ListByEmailHash(ctx context.Context, emailHash string, limit int) ([]domain.SubscriptionEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, action, audience_id, email_hash, permanent, success, error_code, occurred_at
		FROM subscription_events
		WHERE email_hash = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`, emailHash, limit)
	if err != nil {
		return nil, fmt.Errorf("list subscription events: %w", err)
	}
	defer rows.Close()

	var out []domain.SubscriptionEvent
	for rows.Next() {
		var e domain.SubscriptionEvent
		var action string
		if err := rows.Scan(&e.ID, &action, &e.AudienceID, &e.EmailHash, &e.Permanent, &e.Success, &e.ErrorCode, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan subscription event: %w", err)
		}
		e.Action = domain.Action(action)
		out = append(out, e)
	}
	return out, rows.Err()
}

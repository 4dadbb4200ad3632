package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists audit events to the security_events table.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) PersistEvent(ctx context.Context, event Event) error {
	query := `
		INSERT INTO security_events (
			event_type, level, subject_type, subject_value,
			request_id, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	detailsJSON := []byte("null")
	if len(event.Details) > 0 {
		detailsJSON, _ = json.Marshal(event.Details)
	}

	_, err := r.db.Exec(ctx, query,
		string(event.Event),
		event.Level,
		event.SubjectType,
		event.SubjectValue,
		event.RequestID,
		detailsJSON,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to persist audit event: %w", err)
	}
	return nil
}

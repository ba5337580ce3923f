package repository

import (
	"context"
	"fmt"

	"github.com/alexivanou/meteo-widget/internal/model"
	"github.com/jmoiron/sqlx"
)

type sqlEventRepository struct {
	db *sqlx.DB
}

func (r *sqlEventRepository) SaveEvent(ctx context.Context, event model.FetchEvent) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO fetch_events (id, city, outcome, status_code, cause, duration_ms, created_at)
		VALUES (:id, :city, :outcome, :status_code, :cause, :duration_ms, :created_at)`,
		event)
	if err != nil {
		return fmt.Errorf("failed to save fetch event: %w", err)
	}
	return nil
}

func (r *sqlEventRepository) ListRecentEvents(ctx context.Context, limit int) ([]model.FetchEvent, error) {
	q := r.db.Rebind(`
		SELECT id, city, outcome, status_code, cause, duration_ms, created_at
		FROM fetch_events
		ORDER BY created_at DESC, id
		LIMIT ?
	`)
	events := []model.FetchEvent{}
	if err := r.db.SelectContext(ctx, &events, q, limit); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *sqlEventRepository) CountByOutcome(ctx context.Context) ([]model.OutcomeCount, error) {
	q := `
		SELECT outcome, COUNT(*) AS count
		FROM fetch_events
		GROUP BY outcome
		ORDER BY outcome
	`
	counts := []model.OutcomeCount{}
	if err := r.db.SelectContext(ctx, &counts, q); err != nil {
		return nil, err
	}
	return counts, nil
}

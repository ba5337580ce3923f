package repository

import (
	"context"

	"github.com/alexivanou/meteo-widget/internal/model"
	"github.com/jmoiron/sqlx"
)

// EventRepository defines operations on the diagnostics journal
type EventRepository interface {
	SaveEvent(ctx context.Context, event model.FetchEvent) error
	ListRecentEvents(ctx context.Context, limit int) ([]model.FetchEvent, error)
	CountByOutcome(ctx context.Context) ([]model.OutcomeCount, error)
}

// Container holds all repositories
type Container struct {
	Event EventRepository
}

// NewRepositories creates repository implementations over db.
// Queries are written with '?' placeholders and rebound for the driver.
func NewRepositories(db *sqlx.DB) *Container {
	return &Container{
		Event: &sqlEventRepository{db: db},
	}
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexivanou/meteo-widget/internal/config"
	"github.com/alexivanou/meteo-widget/internal/database"
	"github.com/alexivanou/meteo-widget/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Container, func()) {
	cfg := config.DBConfig{Type: config.DBTypeMemory, Name: uuid.NewString()}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db, cfg))

	cleanup := func() {
		db.Close()
	}

	return NewRepositories(db), cleanup
}

func TestEventRepository_SaveAndList(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	events := []model.FetchEvent{
		{ID: uuid.NewString(), City: "Paris", Outcome: "ok", StatusCode: 200, DurationMs: 120, CreatedAt: base},
		{ID: uuid.NewString(), City: "Zzznotacity", Outcome: "not_found", StatusCode: 404, Cause: "city not found", DurationMs: 80, CreatedAt: base.Add(time.Minute)},
		{ID: uuid.NewString(), City: "Lyon", Outcome: "ok", StatusCode: 200, DurationMs: 95, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range events {
		require.NoError(t, repos.Event.SaveEvent(ctx, e))
	}

	tests := []struct {
		name          string
		limit         int
		expectedCount int
		expectedFirst string
	}{
		{name: "all events newest first", limit: 10, expectedCount: 3, expectedFirst: "Lyon"},
		{name: "limited", limit: 2, expectedCount: 2, expectedFirst: "Lyon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repos.Event.ListRecentEvents(ctx, tt.limit)
			require.NoError(t, err)
			require.Len(t, got, tt.expectedCount)
			assert.Equal(t, tt.expectedFirst, got[0].City)
		})
	}

	got, err := repos.Event.ListRecentEvents(ctx, 10)
	require.NoError(t, err)
	notFound := got[1]
	assert.Equal(t, "Zzznotacity", notFound.City)
	assert.Equal(t, "not_found", notFound.Outcome)
	assert.Equal(t, 404, notFound.StatusCode)
	assert.Equal(t, "city not found", notFound.Cause)
	assert.Equal(t, int64(80), notFound.DurationMs)
	assert.True(t, notFound.CreatedAt.Equal(base.Add(time.Minute)))
}

func TestEventRepository_CountByOutcome(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	counts, err := repos.Event.CountByOutcome(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)

	now := time.Now().UTC()
	for _, outcome := range []string{"ok", "ok", "network", "not_found", "ok"} {
		require.NoError(t, repos.Event.SaveEvent(ctx, model.FetchEvent{
			ID: uuid.NewString(), City: "Paris", Outcome: outcome, CreatedAt: now,
		}))
	}

	counts, err = repos.Event.CountByOutcome(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.OutcomeCount{
		{Outcome: "network", Count: 1},
		{Outcome: "not_found", Count: 1},
		{Outcome: "ok", Count: 3},
	}, counts)
}

func TestEventRepository_DuplicateID(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	e := model.FetchEvent{ID: uuid.NewString(), City: "Paris", Outcome: "ok", CreatedAt: time.Now()}
	require.NoError(t, repos.Event.SaveEvent(ctx, e))
	assert.Error(t, repos.Event.SaveEvent(ctx, e))
}

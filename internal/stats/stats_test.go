package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexivanou/meteo-widget/internal/config"
	"github.com/alexivanou/meteo-widget/internal/database"
	"github.com/alexivanou/meteo-widget/internal/model"
	"github.com/alexivanou/meteo-widget/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*sqlx.DB, config.DBConfig) {
	cfg := config.DBConfig{Type: config.DBTypeMemory, Name: uuid.NewString()}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db, cfg))

	return db, cfg
}

type fixedSessions int

func (f fixedSessions) Len() int { return int(f) }

func TestCollector_Collect(t *testing.T) {
	db, cfg := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	rows := []model.FetchEvent{
		{ID: uuid.NewString(), City: "Paris", Outcome: "ok", StatusCode: 200, DurationMs: 100, CreatedAt: base},
		{ID: uuid.NewString(), City: "Paris", Outcome: "ok", StatusCode: 200, DurationMs: 200, CreatedAt: base.Add(time.Second)},
		{ID: uuid.NewString(), City: "Zzznotacity", Outcome: "not_found", StatusCode: 404, DurationMs: 60, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, r := range rows {
		_, err := db.NamedExecContext(ctx, `INSERT INTO fetch_events (id, city, outcome, status_code, cause, duration_ms, created_at)
			VALUES (:id, :city, :outcome, :status_code, :cause, :duration_ms, :created_at)`, r)
		require.NoError(t, err)
	}

	collector := NewCollector(db, cfg, repository.NewRepositories(db).Event).WithSessions(fixedSessions(2))

	stats, err := collector.Collect(ctx)
	require.NoError(t, err)

	assert.Equal(t, "memory", stats.Journal.Type)
	assert.Equal(t, int64(3), stats.Journal.TotalFetches)
	assert.Equal(t, []model.OutcomeCount{{Outcome: "not_found", Count: 1}, {Outcome: "ok", Count: 2}}, stats.Journal.Outcomes)
	assert.InDelta(t, 120.0, stats.Journal.AvgDurationMs, 0.001)
	require.NotNil(t, stats.Journal.LastFetchAt)
	assert.True(t, stats.Journal.LastFetchAt.Equal(base.Add(2*time.Second)))
	assert.Greater(t, stats.Journal.SizeBytes, int64(0))

	require.NotNil(t, stats.Sessions)
	assert.Equal(t, 2, stats.Sessions.Active)

	assert.Greater(t, stats.Memory.Alloc, uint64(0))
	assert.GreaterOrEqual(t, stats.Runtime.NumGoroutines, 1)

	stats2, err := collector.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Memory.Alloc, stats2.Memory.Alloc)
}

func TestCollector_EmptyJournal(t *testing.T) {
	db, cfg := setupTestDB(t)
	defer db.Close()

	collector := NewCollector(db, cfg, repository.NewRepositories(db).Event)

	stats, err := collector.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.Journal.TotalFetches)
	assert.Empty(t, stats.Journal.Outcomes)
	assert.Nil(t, stats.Journal.LastFetchAt)
	assert.Nil(t, stats.Sessions)
}

type MockOutcomeCounter struct {
	mock.Mock
}

func (m *MockOutcomeCounter) CountByOutcome(ctx context.Context) ([]model.OutcomeCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OutcomeCount), args.Error(1)
}

func TestCollector_UsesOutcomeCounter(t *testing.T) {
	db, cfg := setupTestDB(t)
	defer db.Close()

	t.Run("counts come from the counter", func(t *testing.T) {
		counter := new(MockOutcomeCounter)
		counter.On("CountByOutcome", mock.Anything).Return([]model.OutcomeCount{}, nil).Once()

		stats, err := NewCollector(db, cfg, counter).Collect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.Journal.TotalFetches)
		counter.AssertExpectations(t)
	})

	t.Run("counter error fails collection", func(t *testing.T) {
		counter := new(MockOutcomeCounter)
		counter.On("CountByOutcome", mock.Anything).Return(nil, errors.New("db down")).Once()

		_, err := NewCollector(db, cfg, counter).Collect(context.Background())
		assert.ErrorContains(t, err, "db down")
		counter.AssertExpectations(t)
	})
}

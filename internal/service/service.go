package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexivanou/meteo-widget/internal/model"
	"github.com/alexivanou/meteo-widget/internal/repository"
	"github.com/alexivanou/meteo-widget/internal/weather"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
	outcomeOK         = "ok"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	weather.Fetcher
	Lookup(ctx context.Context, city string) (model.WeatherSnapshot, error)
	RecentEvents(ctx context.Context, limit int) ([]model.FetchEvent, error)
}

// Service fetches weather through the upstream client and journals every outcome
type Service struct {
	fetcher weather.Fetcher
	events  repository.EventRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new service instance
func NewService(fetcher weather.Fetcher, events repository.EventRepository, logger *zap.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// Fetch implements weather.Fetcher
func (s *Service) Fetch(ctx context.Context, city string) (model.WeatherSnapshot, error) {
	city = strings.TrimSpace(city)
	start := s.now()
	snapshot, err := s.fetcher.Fetch(ctx, city)
	elapsed := s.now().Sub(start)

	event := model.FetchEvent{
		ID:         uuid.NewString(),
		City:       city,
		Outcome:    outcomeOK,
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  start.UTC(),
	}

	if err != nil {
		event.Outcome = string(weather.KindOf(err))
		event.Cause = err.Error()
		var werr *weather.Error
		if errors.As(err, &werr) {
			event.StatusCode = werr.StatusCode
		}
		s.logFailure(city, event, err)
	} else {
		event.StatusCode = 200
		s.logger.Debug("Fetched weather",
			zap.String("city", city),
			zap.String("resolved_city", snapshot.City),
			zap.Duration("duration", elapsed),
		)
	}

	// Validation failures never reach the network and are not journaled
	if event.Outcome != string(weather.KindValidation) {
		// The journal outlives a canceled request context
		if saveErr := s.events.SaveEvent(context.WithoutCancel(ctx), event); saveErr != nil {
			s.logger.Warn("Failed to journal fetch event", zap.String("city", city), zap.Error(saveErr))
		}
	}

	return snapshot, err
}

func (s *Service) logFailure(city string, event model.FetchEvent, err error) {
	fields := []zap.Field{
		zap.String("city", city),
		zap.String("kind", event.Outcome),
		zap.Int("status", event.StatusCode),
		zap.Int64("duration_ms", event.DurationMs),
		zap.Error(err),
	}

	switch weather.Kind(event.Outcome) {
	case weather.KindValidation, weather.KindCanceled:
		s.logger.Debug("Weather lookup not completed", fields...)
	case weather.KindNotFound:
		s.logger.Info("Weather lookup found no city", fields...)
	default:
		s.logger.Error("Weather lookup failed", fields...)
	}
}

// Lookup performs a one-shot lookup without any widget state
func (s *Service) Lookup(ctx context.Context, city string) (model.WeatherSnapshot, error) {
	if strings.TrimSpace(city) == "" {
		return model.WeatherSnapshot{}, &weather.Error{Kind: weather.KindValidation, City: city, Err: weather.ErrEmptyCity}
	}
	return s.Fetch(ctx, city)
}

// RecentEvents returns the latest journal rows, newest first
func (s *Service) RecentEvents(ctx context.Context, limit int) ([]model.FetchEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	return s.events.ListRecentEvents(ctx, limit)
}

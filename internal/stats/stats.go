package stats

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/alexivanou/meteo-widget/internal/config"
	"github.com/alexivanou/meteo-widget/internal/model"
	"github.com/jmoiron/sqlx"
)

type Stats struct {
	Timestamp time.Time     `json:"timestamp"`
	Memory    MemoryStats   `json:"memory"`
	Journal   JournalStats  `json:"journal"`
	Runtime   RuntimeStats  `json:"runtime"`
	Sessions  *SessionStats `json:"sessions,omitempty"`
}

type MemoryStats struct {
	Alloc        uint64 `json:"alloc"`
	TotalAlloc   uint64 `json:"total_alloc"`
	Sys          uint64 `json:"sys"`
	NumGC        uint32 `json:"num_gc"`
	HeapAlloc    uint64 `json:"heap_alloc"`
	HeapSys      uint64 `json:"heap_sys"`
	HeapInuse    uint64 `json:"heap_inuse"`
	HeapReleased uint64 `json:"heap_released"`
}

// JournalStats summarizes the diagnostics journal
type JournalStats struct {
	Type          string               `json:"type"`
	TotalFetches  int64                `json:"total_fetches"`
	SizeBytes     int64                `json:"size_bytes"`
	Outcomes      []model.OutcomeCount `json:"outcomes"`
	AvgDurationMs float64              `json:"avg_duration_ms"`
	LastFetchAt   *time.Time           `json:"last_fetch_at,omitempty"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// SessionStats is reported when a session counter is attached
type SessionStats struct {
	Active int `json:"active"`
}

// OutcomeCounter aggregates the journal per outcome
type OutcomeCounter interface {
	CountByOutcome(ctx context.Context) ([]model.OutcomeCount, error)
}

// SessionCounter reports the number of live widget sessions
type SessionCounter interface {
	Len() int
}

type Collector struct {
	db         *sqlx.DB
	config     config.DBConfig
	outcomes   OutcomeCounter
	sessions   SessionCounter
	startTime  time.Time
	cachedMem  *MemoryStats
	cacheTime  time.Time
	cacheMutex sync.RWMutex
}

var (
	memStatsCacheDuration = 5 * time.Second
)

func NewCollector(db *sqlx.DB, cfg config.DBConfig, outcomes OutcomeCounter) *Collector {
	return &Collector{
		db:        db,
		config:    cfg,
		outcomes:  outcomes,
		startTime: time.Now(),
	}
}

// WithSessions attaches a live session counter
func (c *Collector) WithSessions(sessions SessionCounter) *Collector {
	c.sessions = sessions
	return c
}

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Timestamp: time.Now(),
	}

	stats.Memory = c.collectMemoryStats()

	journal, err := c.collectJournalStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Journal = *journal
	stats.Runtime = c.collectRuntimeStats()

	if c.sessions != nil {
		stats.Sessions = &SessionStats{Active: c.sessions.Len()}
	}

	return stats, nil
}

func (c *Collector) collectMemoryStats() MemoryStats {
	c.cacheMutex.RLock()
	if c.cachedMem != nil && time.Since(c.cacheTime) < memStatsCacheDuration {
		mem := *c.cachedMem
		c.cacheMutex.RUnlock()
		return mem
	}
	c.cacheMutex.RUnlock()

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mem := MemoryStats{
		Alloc:        m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		HeapInuse:    m.HeapInuse,
		HeapReleased: m.HeapReleased,
	}

	c.cachedMem = &mem
	c.cacheTime = time.Now()

	return mem
}

func (c *Collector) collectJournalStats(ctx context.Context) (*JournalStats, error) {
	stats := &JournalStats{
		Type:     string(c.config.Type),
		Outcomes: []model.OutcomeCount{},
	}

	if size, err := c.getDatabaseSize(ctx); err == nil {
		stats.SizeBytes = size
	}

	outcomes, err := c.outcomes.CountByOutcome(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count fetch outcomes: %w", err)
	}
	if outcomes != nil {
		stats.Outcomes = outcomes
	}

	for _, oc := range stats.Outcomes {
		stats.TotalFetches += oc.Count
	}
	if stats.TotalFetches == 0 {
		return stats, nil
	}

	var avg float64
	if err := c.db.GetContext(ctx, &avg, "SELECT AVG(duration_ms) FROM fetch_events"); err != nil {
		return nil, fmt.Errorf("failed to average fetch duration: %w", err)
	}
	stats.AvgDurationMs = avg

	var last []time.Time
	if err := c.db.SelectContext(ctx, &last, "SELECT created_at FROM fetch_events ORDER BY created_at DESC LIMIT 1"); err != nil {
		return nil, fmt.Errorf("failed to read last fetch time: %w", err)
	}
	if len(last) == 1 {
		stats.LastFetchAt = &last[0]
	}

	return stats, nil
}

func (c *Collector) getDatabaseSize(ctx context.Context) (int64, error) {
	var size int64
	var err error

	switch c.config.Type {
	case config.DBTypePostgreSQL:
		err = c.db.GetContext(ctx, &size, "SELECT pg_database_size(current_database())")
	case config.DBTypeMySQL:
		err = c.db.GetContext(ctx, &size, `
			SELECT COALESCE(SUM(data_length + index_length), 0)
			FROM information_schema.tables
			WHERE table_schema = DATABASE()`)
	default:
		err = c.db.GetContext(ctx, &size, "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
	}

	if err != nil {
		return 0, err
	}
	return size, nil
}

func (c *Collector) collectRuntimeStats() RuntimeStats {
	uptime := time.Since(c.startTime).Seconds()
	return RuntimeStats{
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		UptimeSeconds: int64(uptime),
	}
}

package widget

import (
	"context"
	"strings"
	"sync"

	"github.com/alexivanou/meteo-widget/internal/weather"
	"go.uber.org/zap"
)

// Widget owns the city-name query and the state of one weather lookup UI.
// It is safe for concurrent use. Each Submit supersedes the previous one:
// the in-flight fetch is canceled and its late result is discarded.
type Widget struct {
	fetcher weather.Fetcher
	logger  *zap.Logger

	mu     sync.Mutex
	query  string
	state  State
	gen    uint64
	cancel context.CancelFunc
}

// New creates a widget with the given initial query
func New(fetcher weather.Fetcher, query string, logger *zap.Logger) *Widget {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Widget{
		fetcher: fetcher,
		logger:  logger,
		query:   query,
		state:   Idle(),
	}
}

func (w *Widget) SetQuery(city string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.query = city
}

func (w *Widget) Query() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.query
}

func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Submit looks up the current query and blocks until the fetch completes.
// It returns the state after the call, which belongs to a later Submit
// when this one was superseded.
func (w *Widget) Submit(ctx context.Context) State {
	w.mu.Lock()
	city := strings.TrimSpace(w.query)
	w.gen++
	gen := w.gen
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}

	if city == "" {
		w.state = Failed(weather.ErrEmptyCity)
		st := w.state
		w.mu.Unlock()
		return st
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.state = Loading()
	w.mu.Unlock()

	snapshot, err := w.fetcher.Fetch(fetchCtx, city)
	cancel()

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.gen {
		w.logger.Debug("Discarding superseded weather result",
			zap.String("city", city),
			zap.Uint64("generation", gen),
			zap.Uint64("current_generation", w.gen),
		)
		return w.state
	}
	w.cancel = nil

	if err != nil {
		w.state = Failed(err)
		return w.state
	}
	w.state = Loaded(snapshot)
	return w.state
}

// Close cancels an in-flight fetch, if any, and drops its pending state
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.state.phase == PhaseLoading {
		w.state = Idle()
	}
}

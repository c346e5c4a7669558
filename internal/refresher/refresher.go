// Package refresher provides the periodic fetch-and-publish loop of the exporter.
package refresher

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/andygrunwald/tanker-exporter/internal/api"
	"github.com/andygrunwald/tanker-exporter/internal/models"
	"github.com/andygrunwald/tanker-exporter/internal/store"
)

// FetchMetrics receives the outcome of each fetch cycle. Implemented by the
// HTTP layer's Prometheus metrics; declared here to keep the dependency
// pointing from http to refresher only.
type FetchMetrics interface {
	RecordFetch(status string, duration float64)
}

// Refresher periodically fetches prices from the provider and publishes
// successful results into the store. Failed cycles are logged and the
// previous snapshot stays authoritative.
type Refresher struct {
	provider api.Provider
	store    *store.Store
	center   models.Coordinate
	radiusKm float64
	interval time.Duration
	logger   zerolog.Logger
	metrics  FetchMetrics

	mu               sync.RWMutex
	running          bool
	lastFetchAt      *time.Time
	lastFetchSuccess bool
	lastError        *string
	nextFetchAt      time.Time
	totalFetches     int64
	totalErrors      int64
}

// New creates a new Refresher. The center coordinate is resolved once at
// startup and fixed for the process lifetime.
func New(provider api.Provider, st *store.Store, center models.Coordinate, radiusKm float64, interval time.Duration, logger zerolog.Logger) *Refresher {
	return &Refresher{
		provider: provider,
		store:    st,
		center:   center,
		radiusKm: radiusKm,
		interval: interval,
		logger:   logger.With().Str("component", "refresher").Logger(),
	}
}

// SetMetrics wires fetch outcome metrics. Optional.
func (r *Refresher) SetMetrics(m FetchMetrics) {
	r.metrics = m
}

// Start runs the refresh loop and blocks until the context is cancelled.
// The first fetch runs immediately. The timer is re-armed only after a fetch
// has fully completed, so two fetches can never overlap and a slow fetch
// simply delays the next one instead of queueing it.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	r.logger.Info().
		Str("coordinate", r.center.String()).
		Float64("radiusKm", r.radiusKm).
		Dur("interval", r.interval).
		Msg("starting refresh loop")

	r.runFetch(ctx)

	timer := time.NewTimer(r.armNext())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("refresh loop stopped")
			return ctx.Err()
		case <-timer.C:
			r.runFetch(ctx)
			timer.Reset(r.armNext())
		}
	}
}

// armNext records and returns the delay until the next fetch. There is no
// backoff; the fixed interval applies after failures too.
func (r *Refresher) armNext() time.Duration {
	r.mu.Lock()
	r.nextFetchAt = time.Now().Add(r.interval)
	r.mu.Unlock()
	return r.interval
}

// runFetch performs one fetch cycle and publishes the result on success.
func (r *Refresher) runFetch(ctx context.Context) {
	start := time.Now()
	stations, err := r.provider.FetchPrices(ctx, r.center, r.radiusKm)
	duration := time.Since(start)

	now := time.Now()
	r.mu.Lock()
	r.totalFetches++
	r.lastFetchAt = &now
	if err != nil {
		r.totalErrors++
		r.lastFetchSuccess = false
		errStr := err.Error()
		r.lastError = &errStr
	} else {
		r.lastFetchSuccess = true
		r.lastError = nil
	}
	r.mu.Unlock()

	if err != nil {
		if r.metrics != nil {
			r.metrics.RecordFetch(api.Classify(err), duration.Seconds())
		}
		r.logger.Error().
			Err(err).
			Str("classification", api.Classify(err)).
			Dur("duration", duration).
			Msg("fetch failed, keeping previous snapshot")
		return
	}

	r.store.Write(models.Snapshot{
		Stations:  stations,
		FetchedAt: now,
	})

	if r.metrics != nil {
		r.metrics.RecordFetch("success", duration.Seconds())
	}

	r.logger.Info().
		Int("stations", len(stations)).
		Dur("duration", duration).
		Msg("snapshot updated")
}

// Status returns a consistent view of the loop's operational state.
func (r *Refresher) Status() models.RefresherStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := models.RefresherStatus{
		Running:          r.running,
		LastFetchAt:      r.lastFetchAt,
		LastFetchSuccess: r.lastFetchSuccess,
		LastError:        r.lastError,
		TotalFetches:     r.totalFetches,
		TotalErrors:      r.totalErrors,
	}
	if !r.nextFetchAt.IsZero() {
		next := r.nextFetchAt
		status.NextFetchAt = &next
	}
	return status
}

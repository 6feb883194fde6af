package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StaleCartPurger removes cart lines untouched for longer than ttl.
type StaleCartPurger interface {
	PurgeStale(ctx context.Context, ttl time.Duration) (int64, error)
}

// CartCleanupWorker periodically deletes abandoned cart lines.
type CartCleanupWorker struct {
	carts    StaleCartPurger
	interval time.Duration
	ttl      time.Duration
}

// NewCartCleanupWorker constructs a CartCleanupWorker.
func NewCartCleanupWorker(carts StaleCartPurger, interval, ttl time.Duration) *CartCleanupWorker {
	return &CartCleanupWorker{
		carts:    carts,
		interval: interval,
		ttl:      ttl,
	}
}

// Start begins the periodic cleanup loop and listens for context cancellation.
func (w *CartCleanupWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Dur("ttl", w.ttl).Msg("Starting cart cleanup worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Cart cleanup worker stopped")
			return
		}
	}
}

func (w *CartCleanupWorker) run(ctx context.Context) {
	start := time.Now()
	removed, err := w.carts.PurgeStale(ctx, w.ttl)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("Failed to purge stale cart lines")
		}
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Dur("duration", time.Since(start)).Msg("Stale cart lines purged")
	}
}

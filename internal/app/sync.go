package app

import (
	"context"
	"log/slog"
	"time"

	"staffbot/core/logger"
	"staffbot/internal/directory"
	"staffbot/internal/sheets"
)

// Syncer periodically mirrors the spreadsheet roster into the directory.
// One round runs immediately at startup so the bot never serves a stale
// mirror longer than a single interval.
type Syncer struct {
	feed     *sheets.Feed
	store    directory.Store
	resolver *directory.CachedResolver
	interval time.Duration

	done chan struct{}
}

// NewSyncer builds the roster mirror task.
func NewSyncer(feed *sheets.Feed, store directory.Store, resolver *directory.CachedResolver, interval time.Duration) *Syncer {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Syncer{
		feed:     feed,
		store:    store,
		resolver: resolver,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the sync loop until the context is cancelled.
func (s *Syncer) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		s.runOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

// Wait blocks until the loop has exited.
func (s *Syncer) Wait() {
	<-s.done
}

// runOnce performs one mirror round. A failed round leaves the previous
// directory contents untouched; the next tick retries.
func (s *Syncer) runOnce(ctx context.Context) {
	start := time.Now()

	rows, err := s.feed.FetchRows(ctx)
	if err != nil {
		logger.Warn(ctx, "sync", "roster.fetch_failed",
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
		return
	}

	if err := s.store.Sync(ctx, rows); err != nil {
		logger.Error(ctx, "sync", "roster.sync_failed",
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
		return
	}

	// Drop cached lookups so role changes take effect without waiting for
	// cache expiry.
	if s.resolver != nil {
		s.resolver.Invalidate()
	}

	logger.Info(ctx, "sync", "roster.synced",
		slog.Int("rows", len(rows)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
}

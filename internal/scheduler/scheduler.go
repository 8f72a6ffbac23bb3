// Package scheduler runs the periodic background jobs: priming the listing
// cache for the default location and sweeping expired voice sessions.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/gereonelvers/mortgage-moment/internal/listings"
	"github.com/gereonelvers/mortgage-moment/internal/voice"
)

// Scheduler wraps robfig/cron and manages the background loops.
type Scheduler struct {
	cron     *cron.Cron
	searcher *listings.Searcher
	sessions *voice.Manager
	location string
	warmSpec string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that warms the cache every warmIntervalHours hours
// and sweeps voice sessions every ten minutes.
func New(searcher *listings.Searcher, sessions *voice.Manager, defaultLocation string, warmIntervalHours int) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cron.DefaultLogger)),
		searcher: searcher,
		sessions: sessions,
		location: defaultLocation,
		warmSpec: fmt.Sprintf("@every %dh", warmIntervalHours),
	}
}

// Start registers the jobs and starts the scheduler. The cache warm also runs
// once immediately so the first visitor does not pay the aggregator latency.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.warmSpec, func() {
		s.warmCache(ctx)
	}); err != nil {
		return fmt.Errorf("cron.AddFunc warm: %w", err)
	}

	if _, err := s.cron.AddFunc("@every 10m", func() {
		s.sweepSessions()
	}); err != nil {
		return fmt.Errorf("cron.AddFunc sweep: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — warm spec: %s", s.warmSpec)

	// Warm immediately on startup (non-blocking)
	go s.warmCache(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// warmCache runs one default-location search so the result lands in the
// listing cache before a user asks for it.
func (s *Scheduler) warmCache(ctx context.Context) {
	log.Printf("[scheduler] Warming listing cache for %q", s.location)

	page := s.searcher.Search(ctx, listings.Query{Location: s.location, Limit: 50})
	log.Printf("[scheduler] Cache warm complete — %d listing(s) from %s", len(page.Items), page.Source)
}

// sweepSessions drops voice sessions idle past their TTL.
func (s *Scheduler) sweepSessions() {
	if removed := s.sessions.Sweep(); removed > 0 {
		log.Printf("[scheduler] Swept %d expired voice session(s)", removed)
	}
}

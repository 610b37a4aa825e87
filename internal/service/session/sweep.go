package session

import (
	"context"
	"log/slog"
	"time"
)

// Sweep removes sessions idle for longer than the configured TTL and
// returns how many were removed.
func (s *Service) Sweep(now time.Time) int {
	if s.cfg.IdleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastAccess)
		sess.mu.Unlock()

		if idle > s.cfg.IdleTTL {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions every SweepInterval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(s.now()); n > 0 {
				s.log.InfoContext(ctx, "idle sessions evicted",
					slog.Int("evicted", n),
					slog.Int("active", s.Count()),
				)
			}
		}
	}
}

package logging

import (
	"context"
	"log/slog"
	"sync"
)

// Stats is a slog.Handler that counts the records it lets through, per level.
// Only records enabled by the wrapped handler are counted, so the counters
// reflect what was actually emitted.
type Stats struct {
	next   slog.Handler
	counts *counters
}

type counters struct {
	mu      sync.Mutex
	byLevel map[slog.Level]uint64
}

// NewStats wraps next with per-level counting.
func NewStats(next slog.Handler) *Stats {
	return &Stats{
		next:   next,
		counts: &counters{byLevel: make(map[slog.Level]uint64)},
	}
}

func (s *Stats) Enabled(ctx context.Context, level slog.Level) bool {
	return s.next.Enabled(ctx, level)
}

func (s *Stats) Handle(ctx context.Context, r slog.Record) error {
	s.counts.mu.Lock()
	s.counts.byLevel[bucket(r.Level)]++
	s.counts.mu.Unlock()
	return s.next.Handle(ctx, r)
}

func (s *Stats) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Stats{next: s.next.WithAttrs(attrs), counts: s.counts}
}

func (s *Stats) WithGroup(name string) slog.Handler {
	return &Stats{next: s.next.WithGroup(name), counts: s.counts}
}

// Count returns how many records of the given level were emitted.
func (s *Stats) Count(level slog.Level) uint64 {
	s.counts.mu.Lock()
	defer s.counts.mu.Unlock()
	return s.counts.byLevel[bucket(level)]
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	s.counts.mu.Lock()
	defer s.counts.mu.Unlock()
	clear(s.counts.byLevel)
}

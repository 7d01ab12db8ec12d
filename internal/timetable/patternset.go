package timetable

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"pathfinder.onebusaway.org/internal/logging"
	"pathfinder.onebusaway.org/internal/metrics"
)

// ErrPatternNotFound indicates an update aimed at a pattern id that is not
// registered in the set.
var ErrPatternNotFound = errors.New("timetable: pattern not found")

// PatternSet is the shared registry of trip patterns observed by active
// searches. Reads hand out immutable snapshots; updates mutate a private
// clone and publish it with a pointer swap, so an in-flight search never
// observes a half-applied update. Real-time update application is
// rate-limited so a misbehaving feed cannot starve readers of the write
// lock.
type PatternSet struct {
	mu       sync.RWMutex
	patterns map[string]*TripPattern

	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewPatternSet creates an empty pattern set. The limit and burst configure
// the real-time update rate limiter. Logger and metrics may be nil.
func NewPatternSet(limit rate.Limit, burst int, logger *slog.Logger, m *metrics.Metrics) *PatternSet {
	if logger == nil {
		logger = slog.Default().With(slog.String("component", "pattern_set"))
	}
	return &PatternSet{
		patterns: make(map[string]*TripPattern),
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logger,
		metrics:  m,
	}
}

// Put registers or replaces the pattern stored under id. The pattern must
// not be mutated by the caller after publication.
func (ps *PatternSet) Put(id string, p *TripPattern) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.patterns[id] = p
}

// Pattern returns the current snapshot of the pattern stored under id.
// Snapshots are never mutated in place, so the result remains coherent for
// the remainder of a search even if an update is published concurrently.
func (ps *PatternSet) Pattern(id string) (*TripPattern, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	p, ok := ps.patterns[id]
	return p, ok
}

// Len returns the number of registered patterns.
func (ps *PatternSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.patterns)
}

// Apply runs update against a private clone of the pattern stored under id
// and publishes the clone on success. If update returns an error (for
// example ErrTripOvertaking from AddHop) nothing is published and the old
// snapshot stays in place.
func (ps *PatternSet) Apply(ctx context.Context, id string, update func(*TripPattern) error) error {
	waitStart := time.Now()
	if err := ps.limiter.Wait(ctx); err != nil {
		return err
	}
	if ps.metrics != nil {
		ps.metrics.TimetableUpdateWaitSecsTotal.Add(time.Since(waitStart).Seconds())
	}

	ps.mu.RLock()
	current, ok := ps.patterns[id]
	ps.mu.RUnlock()
	if !ok {
		return ErrPatternNotFound
	}

	next := current.Clone()
	if err := update(next); err != nil {
		if errors.Is(err, ErrTripOvertaking) && ps.metrics != nil {
			ps.metrics.TimetableOvertakingTotal.Inc()
		}
		logging.LogError(ps.logger, "timetable update rejected", err,
			slog.String("pattern_id", id))
		return err
	}

	ps.mu.Lock()
	ps.patterns[id] = next
	ps.mu.Unlock()

	if ps.metrics != nil {
		ps.metrics.TimetableUpdatesTotal.Inc()
	}
	logging.LogOperation(ps.logger, "timetable_update_applied",
		slog.String("pattern_id", id))
	return nil
}

package telemetry

import (
	"sync"
	"time"
)

// routeStats holds both per-route counters in a single entry so the
// request count and cumulative time can never diverge in key domain.
type routeStats struct {
	count     uint64
	totalSecs float64
}

// StartToken pairs a RecordRequestStart with its matching
// RecordRequestEnd. It is opaque to callers.
type StartToken struct {
	route string
	at    time.Time
}

// Store holds the process-wide telemetry aggregate.
// All mutations and snapshots are applied under a single mutex, so the
// store is safe for any number of concurrent requests.
type Store struct {
	mu     sync.Mutex
	routes map[string]*routeStats
	errors map[string]uint64

	// now is swappable in tests for deterministic durations.
	now func() time.Time
}

// NewStore creates an empty Store. Counters start at zero on every
// process start; a previous on-disk snapshot is never reloaded.
func NewStore() *Store {
	return &Store{
		routes: make(map[string]*routeStats),
		errors: make(map[string]uint64),
		now:    time.Now,
	}
}

// RecordRequestStart increments the route's request count and returns a
// token capturing the start time. The route identifier is used as-is;
// an unknown or empty route is just another key.
func (s *Store) RecordRequestStart(route string) StartToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route(route).count++
	return StartToken{route: route, at: s.now()}
}

// RecordRequestEnd adds the elapsed time since the token's capture to
// the route's cumulative processing time.
func (s *Store) RecordRequestEnd(token StartToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route(token.route).totalSecs += s.now().Sub(token.at).Seconds()
}

// RecordError increments the tally for the given message. Messages are
// counted by exact text, so the same logical error with different
// interpolated values produces distinct keys.
func (s *Store) RecordError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[message]++
}

// Snapshot returns a deep copy of the aggregate taken under the lock.
// The copy is safe to serialize or mutate without affecting the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		RouteRequests:       make(map[string]uint64, len(s.routes)),
		RouteProcessingTime: make(map[string]float64, len(s.routes)),
		Errors:              make(map[string]uint64, len(s.errors)),
	}
	for name, rs := range s.routes {
		snap.RouteRequests[name] = rs.count
		snap.RouteProcessingTime[name] = rs.totalSecs
	}
	for msg, n := range s.errors {
		snap.Errors[msg] = n
	}
	return snap
}

// route returns the stats entry for name, creating it if absent.
// Must be called with s.mu held.
func (s *Store) route(name string) *routeStats {
	rs, ok := s.routes[name]
	if !ok {
		rs = &routeStats{}
		s.routes[name] = rs
	}
	return rs
}

package alerting

import (
	"sort"
	"sync"
	"time"

	"crowdwatch-go/internal/models"
)

const defaultMaxHistory = 100

// Store holds the current active-set (keyed by alert name,
// last-write-wins) and a bounded FIFO history of everything processed.
// A single mutex serializes mutations; contention is low since webhook
// traffic is sparse.
type Store struct {
	mu         sync.Mutex
	active     map[string]models.Alert
	history    []models.Alert
	maxHistory int
}

func NewStore(maxHistory int) *Store {
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	return &Store{
		active:     make(map[string]models.Alert),
		maxHistory: maxHistory,
	}
}

// Record inserts a firing alert into the active-set (overwriting any
// previous entry for the same name) or removes the entry on resolve.
// Every alert is appended to history regardless of status; the oldest
// entries are evicted once the bound is exceeded.
func (s *Store) Record(alert models.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch alert.Status {
	case models.AlertStatusFiring:
		s.active[alert.Name] = alert
	case models.AlertStatusResolved:
		delete(s.active, alert.Name)
	}

	s.history = append(s.history, alert)
	if over := len(s.history) - s.maxHistory; over > 0 {
		s.history = append(s.history[:0], s.history[over:]...)
	}
}

// Active returns a snapshot of the active-set, sorted by name for
// deterministic output.
func (s *Store) Active() []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Alert, 0, len(s.active))
	for _, alert := range s.active {
		out = append(out, alert)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ActiveCount returns the size of the active-set.
func (s *Store) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// History returns the most recent limit entries, oldest first.
func (s *Store) History(limit int) []models.Alert {
	if limit <= 0 {
		limit = 50
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if limit > len(s.history) {
		limit = len(s.history)
	}
	out := make([]models.Alert, limit)
	copy(out, s.history[len(s.history)-limit:])
	return out
}

// Stats summarizes active alerts by severity plus the history length.
func (s *Store) Stats() models.AlertStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.AlertStats{
		TotalActive:  len(s.active),
		HistoryCount: len(s.history),
	}
	for _, alert := range s.active {
		switch alert.Severity {
		case models.SeverityCritical:
			stats.Critical++
		case models.SeverityWarning:
			stats.Warning++
		}
	}
	return stats
}

// PruneOlderThan removes history entries whose processing timestamp is
// older than the cutoff and returns how many were dropped. The
// active-set is deliberately untouched: a still-firing alert stays
// active even after its history entry expires.
func (s *Store) PruneOlderThan(hours int) int {
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.history[:0]
	for _, alert := range s.history {
		if alert.Timestamp.After(cutoff) {
			kept = append(kept, alert)
		}
	}
	removed := len(s.history) - len(kept)
	s.history = kept
	return removed
}

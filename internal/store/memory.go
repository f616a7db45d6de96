package store

import (
	"context"
	"sort"
	"sync"

	"github.com/cotscan/cotscan/internal/models"
)

// MemoryStore keeps the time series in process memory. Used by tests and
// by CLI runs configured without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	byInstr map[string][]models.PositioningRecord // sorted ascending by date
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byInstr: make(map[string][]models.PositioningRecord)}
}

// Upsert replaces any record sharing (ReportDate, InstrumentCode) and
// inserts otherwise. Atomic per call under the store lock.
func (s *MemoryStore) Upsert(_ context.Context, rec models.PositioningRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	series := s.byInstr[rec.InstrumentCode]
	for i, existing := range series {
		if existing.ReportDate.Equal(rec.ReportDate) {
			series[i] = rec
			return nil
		}
	}

	idx := sort.Search(len(series), func(i int) bool {
		return series[i].ReportDate.After(rec.ReportDate)
	})
	series = append(series, models.PositioningRecord{})
	copy(series[idx+1:], series[idx:])
	series[idx] = rec
	s.byInstr[rec.InstrumentCode] = series
	return nil
}

// Latest returns up to limit records, newest first.
func (s *MemoryStore) Latest(_ context.Context, instrumentCode string, limit int) ([]models.PositioningRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series := s.byInstr[instrumentCode]
	if limit <= 0 || limit > len(series) {
		limit = len(series)
	}

	out := make([]models.PositioningRecord, 0, limit)
	for i := len(series) - 1; i >= len(series)-limit; i-- {
		out = append(out, series[i])
	}
	return out, nil
}

// First returns the earliest record for an instrument, nil when none exists.
func (s *MemoryStore) First(_ context.Context, instrumentCode string) (*models.PositioningRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series := s.byInstr[instrumentCode]
	if len(series) == 0 {
		return nil, nil
	}
	first := series[0]
	return &first, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

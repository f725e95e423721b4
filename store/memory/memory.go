// Package memory provides an in-memory translation store, used in tests
// and wherever persistence across restarts is not needed.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ZaguanLabs/lingocache"
)

// Store is a thread-safe in-memory translation store.
type Store struct {
	mu      sync.RWMutex
	entries map[string]lingocache.Entry
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{entries: make(map[string]lingocache.Entry)}
}

// Get returns the entry for key.
func (s *Store) Get(_ context.Context, key string) (lingocache.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok, nil
}

// Put inserts the entry, replacing any prior entry with the same key.
func (s *Store) Put(_ context.Context, e lingocache.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Key] = e
	return nil
}

// DeleteOlderThan removes every entry created at or before cutoff.
func (s *Store) DeleteOlderThan(_ context.Context, cutoff int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteOlderThanLocked(cutoff), nil
}

// DeleteOldest removes the n oldest entries.
func (s *Store) DeleteOldest(_ context.Context, n int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteOldestLocked(n), nil
}

// Count returns the total entry count.
func (s *Store) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries)), nil
}

// DeleteAll removes every entry.
func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]lingocache.Entry)
	return nil
}

// DeleteModel removes every entry for the given model.
func (s *Store) DeleteModel(_ context.Context, model string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key, e := range s.entries {
		if e.Model == model {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// Stats returns aggregates over all entries.
func (s *Store) Stats(_ context.Context) (lingocache.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st lingocache.Stats
	for _, e := range s.entries {
		st.TotalEntries++
		st.SourceBytes += int64(len(e.SourceText))
		st.TranslatedBytes += int64(len(e.TranslatedText))
		if st.OldestTimestamp == 0 || e.CreatedAt < st.OldestTimestamp {
			st.OldestTimestamp = e.CreatedAt
		}
		if e.CreatedAt > st.NewestTimestamp {
			st.NewestTimestamp = e.CreatedAt
		}
	}
	return st, nil
}

// StatsByModel returns per-model aggregates, largest model first.
func (s *Store) StatsByModel(_ context.Context) ([]lingocache.ModelStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byModel := make(map[string]*lingocache.ModelStats)
	for _, e := range s.entries {
		ms, ok := byModel[e.Model]
		if !ok {
			ms = &lingocache.ModelStats{Model: e.Model}
			byModel[e.Model] = ms
		}
		ms.TotalEntries++
		ms.SourceBytes += int64(len(e.SourceText))
		ms.TranslatedBytes += int64(len(e.TranslatedText))
		if ms.OldestTimestamp == 0 || e.CreatedAt < ms.OldestTimestamp {
			ms.OldestTimestamp = e.CreatedAt
		}
		if e.CreatedAt > ms.NewestTimestamp {
			ms.NewestTimestamp = e.CreatedAt
		}
	}

	out := make([]lingocache.ModelStats, 0, len(byModel))
	for _, ms := range byModel {
		out = append(out, *ms)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalEntries != out[j].TotalEntries {
			return out[i].TotalEntries > out[j].TotalEntries
		}
		return out[i].Model < out[j].Model
	})
	return out, nil
}

// EnforceCeiling runs the count-then-delete maintenance sequence under the
// store lock, so concurrent passes cannot interleave.
func (s *Store) EnforceCeiling(_ context.Context, ceiling, aggressiveCutoff int64) (lingocache.MaintenanceReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rep lingocache.MaintenanceReport
	rep.StartCount = int64(len(s.entries))
	rep.FinalCount = rep.StartCount
	if rep.StartCount <= ceiling {
		return rep, nil
	}

	rep.Evicted = s.deleteOldestLocked(lingocache.EvictionCount(rep.StartCount))
	rep.FinalCount = int64(len(s.entries))
	if rep.FinalCount > ceiling {
		rep.Swept = s.deleteOlderThanLocked(aggressiveCutoff)
		rep.FinalCount = int64(len(s.entries))
	}
	return rep, nil
}

func (s *Store) deleteOlderThanLocked(cutoff int64) int64 {
	var deleted int64
	for key, e := range s.entries {
		if e.CreatedAt <= cutoff {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted
}

func (s *Store) deleteOldestLocked(n int64) int64 {
	if n <= 0 {
		return 0
	}

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := s.entries[keys[i]], s.entries[keys[j]]
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return keys[i] < keys[j]
	})

	if n > int64(len(keys)) {
		n = int64(len(keys))
	}
	for _, key := range keys[:n] {
		delete(s.entries, key)
	}
	return n
}

// Verify Store implements the backing store contract.
var _ lingocache.Store = (*Store)(nil)

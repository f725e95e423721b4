package lingocache

import "context"

// Store is the persistent backing table for cached translations.
// Implementations must be safe for concurrent use. Point operations on
// distinct keys need no coordination; EnforceCeiling is the one sequence
// that must be exclusive (a transaction, or a store-scoped lock when the
// backend has no transactions).
type Store interface {
	// Get returns the entry for key. The second result is false when the
	// key does not exist.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Put inserts the entry, replacing any prior entry with the same key.
	Put(ctx context.Context, entry Entry) error

	// DeleteOlderThan removes every entry with CreatedAt at or before
	// cutoff (milliseconds since epoch) and returns the number removed.
	DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error)

	// DeleteOldest removes the n entries with the smallest CreatedAt and
	// returns the number removed.
	DeleteOldest(ctx context.Context, n int64) (int64, error)

	// Count returns the total number of entries.
	Count(ctx context.Context) (int64, error)

	// DeleteAll removes every entry.
	DeleteAll(ctx context.Context) error

	// DeleteModel removes all entries for the given model and returns the
	// number removed.
	DeleteModel(ctx context.Context, model string) (int64, error)

	// Stats returns aggregates over all entries. Healthy is left unset.
	Stats(ctx context.Context) (Stats, error)

	// StatsByModel returns per-model aggregates, ordered by descending
	// entry count, then model.
	StatsByModel(ctx context.Context) ([]ModelStats, error)

	// EnforceCeiling runs the maintenance sequence: count, and while the
	// count exceeds ceiling, first evict the oldest EvictionCount(count)
	// entries, then if still over, sweep everything at or before
	// aggressiveCutoff. The whole sequence must execute without another
	// EnforceCeiling interleaving its own count/delete steps.
	EnforceCeiling(ctx context.Context, ceiling, aggressiveCutoff int64) (MaintenanceReport, error)
}

// MaintenanceReport describes one EnforceCeiling pass.
type MaintenanceReport struct {
	StartCount int64
	Evicted    int64 // removed by the oldest-first pass
	Swept      int64 // removed by the aggressive sweep
	FinalCount int64
}

// OverCapacity reports whether the pass failed to bring the count under
// the ceiling.
func (r MaintenanceReport) OverCapacity(ceiling int64) bool {
	return r.FinalCount > ceiling
}

// EvictionCount returns how many entries an over-ceiling store should
// evict: 10% of the total, rounded up, at least one.
func EvictionCount(total int64) int64 {
	n := (total + 9) / 10
	if n < 1 {
		n = 1
	}
	return n
}

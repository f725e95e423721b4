package lingocache

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Defaults for the cache manager. Override with the With* options.
const (
	// DefaultModel is what an omitted model identifier resolves to.
	// Key derivation and storage both go through this resolution, so a
	// lookup with model "" and a store with the explicit default string
	// land on the same fingerprint.
	DefaultModel = "gpt-4o-mini"

	// DefaultMaxEntries is the soft ceiling on total entry count.
	DefaultMaxEntries = 10000

	// DefaultTTLDays is the normal maximum entry age.
	DefaultTTLDays = 30

	// DefaultAggressiveTTLDays is the stricter cutoff used only when the
	// oldest-first eviction pass fails to restore capacity.
	DefaultAggressiveTTLDays = 7
)

// Manager is the translation result cache. It sits between a translation
// client and a metered remote API: Lookup before every network call, Store
// after every successful one. Every operation is best-effort: a backing
// store fault is logged and collapses to a miss or a no-op, never to a
// caller-visible failure.
type Manager struct {
	store          Store
	maxEntries     int64
	ttlDays        int
	aggressiveDays int
	defaultModel   string
	logger         *zap.Logger
	now            func() time.Time
}

// ManagerOption is a functional option for configuring the Manager.
type ManagerOption func(*Manager)

// WithMaxEntries sets the entry count ceiling.
func WithMaxEntries(n int64) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.maxEntries = n
		}
	}
}

// WithDefaultTTL sets the default maximum entry age in days, used when a
// lookup or cleanup does not supply its own.
func WithDefaultTTL(days int) ManagerOption {
	return func(m *Manager) {
		if days > 0 {
			m.ttlDays = days
		}
	}
}

// WithAggressiveTTL sets the cutoff age in days for the aggressive sweep.
func WithAggressiveTTL(days int) ManagerOption {
	return func(m *Manager) {
		if days > 0 {
			m.aggressiveDays = days
		}
	}
}

// WithDefaultModel sets the model identifier an omitted model resolves to.
func WithDefaultModel(model string) ManagerOption {
	return func(m *Manager) {
		if model != "" {
			m.defaultModel = model
		}
	}
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a Manager on top of the given backing store.
// Construct one per process and hand it to every caller that needs
// translation caching.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:          store,
		maxEntries:     DefaultMaxEntries,
		ttlDays:        DefaultTTLDays,
		aggressiveDays: DefaultAggressiveTTLDays,
		defaultModel:   DefaultModel,
		logger:         zap.NewNop(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MaxEntries returns the configured entry count ceiling.
func (m *Manager) MaxEntries() int64 {
	return m.maxEntries
}

// Lookup returns the cached translation for the request, if present and no
// older than maxAgeDays (the configured default TTL when maxAgeDays <= 0).
// Blank text is a miss. A stale hit triggers a global sweep of everything
// at or past the age cutoff before reporting the miss. Store faults are
// logged and reported as misses.
func (m *Manager) Lookup(ctx context.Context, text, sourceLang, targetLang, model string, maxAgeDays int) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	if maxAgeDays <= 0 {
		maxAgeDays = m.ttlDays
	}

	key := DeriveKey(text, sourceLang, targetLang, m.resolveModel(model))
	entry, found, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Warn("cache lookup failed, treating as miss", zap.Error(err))
		return "", false
	}
	if !found {
		return "", false
	}

	cutoff := m.nowMillis() - daysToMillis(maxAgeDays)
	if entry.CreatedAt < cutoff {
		// The whole generation at or past the cutoff is stale, not just
		// this key; sweep it in one pass.
		deleted, err := m.store.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			m.logger.Warn("expiry sweep failed", zap.Error(err))
		} else {
			m.logger.Debug("expiry sweep", zap.Int64("deleted", deleted))
		}
		return "", false
	}

	return entry.TranslatedText, true
}

// Store caches a translation result under the fingerprint of its request
// parameters, replacing any prior entry for the same fingerprint, then
// synchronously runs the eviction policy. Blank source or translated text
// is a logged no-op. Store never reports failure: the translation already
// succeeded, caching it is best-effort.
func (m *Manager) Store(ctx context.Context, sourceText, translatedText, sourceLang, targetLang, model string) {
	sourceText = strings.TrimSpace(sourceText)
	translatedText = strings.TrimSpace(translatedText)
	if sourceText == "" || translatedText == "" {
		m.logger.Debug("skipping cache store of blank text")
		return
	}

	resolved := m.resolveModel(model)
	entry := Entry{
		Key:            DeriveKey(sourceText, sourceLang, targetLang, resolved),
		SourceText:     sourceText,
		TranslatedText: translatedText,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		Model:          resolved,
		CreatedAt:      m.nowMillis(),
	}

	if err := m.store.Put(ctx, entry); err != nil {
		m.logger.Warn("cache store failed", zap.Error(err))
		return
	}

	m.maintain(ctx)
}

// maintain drives the entry count back under the ceiling. It runs after
// every successful Put and is the only backpressure against unbounded
// growth, so it is not skippable by callers.
func (m *Manager) maintain(ctx context.Context) {
	aggressiveCutoff := m.nowMillis() - daysToMillis(m.aggressiveDays)
	report, err := m.store.EnforceCeiling(ctx, m.maxEntries, aggressiveCutoff)
	if err != nil {
		m.logger.Warn("cache maintenance failed", zap.Error(err))
		return
	}
	if report.OverCapacity(m.maxEntries) {
		m.logger.Warn("cache still over capacity after aggressive sweep",
			zap.Int64("count", report.FinalCount),
			zap.Int64("ceiling", m.maxEntries))
		return
	}
	if report.Evicted > 0 || report.Swept > 0 {
		m.logger.Debug("cache maintenance",
			zap.Int64("evicted", report.Evicted),
			zap.Int64("swept", report.Swept),
			zap.Int64("count", report.FinalCount))
	}
}

// ClearAll removes every entry. Best-effort and idempotent.
func (m *Manager) ClearAll(ctx context.Context) {
	if err := m.store.DeleteAll(ctx); err != nil {
		m.logger.Warn("cache clear failed", zap.Error(err))
	}
}

// ClearModel removes all entries for the given model (the default model
// when blank) and returns how many were removed. Used when a model is
// deprecated or the user wants fresh results from one model while keeping
// the cache for others.
func (m *Manager) ClearModel(ctx context.Context, model string) int64 {
	deleted, err := m.store.DeleteModel(ctx, m.resolveModel(model))
	if err != nil {
		m.logger.Warn("per-model clear failed", zap.Error(err))
		return 0
	}
	return deleted
}

// CleanupExpired removes every entry older than ttlDays (the configured
// default TTL when ttlDays <= 0) and returns how many were removed.
func (m *Manager) CleanupExpired(ctx context.Context, ttlDays int) int64 {
	if ttlDays <= 0 {
		ttlDays = m.ttlDays
	}
	deleted, err := m.store.DeleteOlderThan(ctx, m.nowMillis()-daysToMillis(ttlDays))
	if err != nil {
		m.logger.Warn("expired cleanup failed", zap.Error(err))
		return 0
	}
	return deleted
}

// Stats returns aggregate cache statistics. Healthy reports whether the
// entry count is under the configured ceiling. A store fault yields zeroed
// stats.
func (m *Manager) Stats(ctx context.Context) Stats {
	stats, err := m.store.Stats(ctx)
	if err != nil {
		m.logger.Warn("cache stats failed", zap.Error(err))
		return Stats{}
	}
	stats.Healthy = stats.TotalEntries < m.maxEntries
	return stats
}

// StatsByModel returns per-model aggregates ordered by descending entry
// count. A store fault yields an empty slice.
func (m *Manager) StatsByModel(ctx context.Context) []ModelStats {
	stats, err := m.store.StatsByModel(ctx)
	if err != nil {
		m.logger.Warn("per-model cache stats failed", zap.Error(err))
		return nil
	}
	return stats
}

func (m *Manager) resolveModel(model string) string {
	if model == "" {
		return m.defaultModel
	}
	return model
}

func (m *Manager) nowMillis() int64 {
	return m.now().UnixMilli()
}

func daysToMillis(days int) int64 {
	return int64(days) * 24 * int64(time.Hour/time.Millisecond)
}

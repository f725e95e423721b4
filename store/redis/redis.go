// Package redis provides a Redis-backed translation store.
//
// Entries are stored as JSON values keyed by fingerprint, with a global
// sorted-set index scored by creation time and one sorted set per model.
// Redis has no multi-command transactions spanning reads and writes the way
// SQL does, so EnforceCeiling serializes maintenance with a store-scoped
// mutex instead.
package redis

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ZaguanLabs/lingocache"
)

// Store is a Redis-backed translation store.
type Store struct {
	client *redis.Client
	prefix string
	maint  sync.Mutex
}

// Config holds configuration for the Redis store.
type Config struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	KeyPrefix string // Prefix for all keys (default: "lingocache:")
}

// New creates a Redis store with the given configuration and verifies the
// connection.
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewFromClient(client, cfg.KeyPrefix), nil
}

// NewFromClient creates a Store from an existing Redis client.
func NewFromClient(client *redis.Client, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = "lingocache:"
	}
	return &Store{client: client, prefix: keyPrefix}
}

func (s *Store) entryKey(key string) string  { return s.prefix + "entry:" + key }
func (s *Store) indexKey() string            { return s.prefix + "idx" }
func (s *Store) modelKey(model string) string { return s.prefix + "model:" + model }
func (s *Store) modelsKey() string           { return s.prefix + "models" }

// Get returns the entry for key.
func (s *Store) Get(ctx context.Context, key string) (lingocache.Entry, bool, error) {
	data, err := s.client.Get(ctx, s.entryKey(key)).Bytes()
	if err == redis.Nil {
		return lingocache.Entry{}, false, nil
	}
	if err != nil {
		return lingocache.Entry{}, false, err
	}

	var e lingocache.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return lingocache.Entry{}, false, err
	}
	return e, true, nil
}

// Put inserts the entry and updates the time and model indexes.
func (s *Store) Put(ctx context.Context, e lingocache.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	member := redis.Z{Score: float64(e.CreatedAt), Member: e.Key}
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.entryKey(e.Key), data, 0)
		pipe.ZAdd(ctx, s.indexKey(), member)
		pipe.ZAdd(ctx, s.modelKey(e.Model), member)
		pipe.SAdd(ctx, s.modelsKey(), e.Model)
		return nil
	})
	return err
}

// DeleteOlderThan removes every entry scored at or before cutoff.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	max := strconv.FormatInt(cutoff, 10)
	keys, err := s.client.ZRangeByScore(ctx, s.indexKey(), &redis.ZRangeBy{Min: "-inf", Max: max}).Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	models, err := s.client.SMembers(ctx, s.modelsKey()).Result()
	if err != nil {
		return 0, err
	}

	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.entryKeys(keys)...)
		pipe.ZRemRangeByScore(ctx, s.indexKey(), "-inf", max)
		for _, model := range models {
			pipe.ZRemRangeByScore(ctx, s.modelKey(model), "-inf", max)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int64(len(keys)), nil
}

// DeleteOldest removes the n oldest entries.
func (s *Store) DeleteOldest(ctx context.Context, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	keys, err := s.client.ZRange(ctx, s.indexKey(), 0, n-1).Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	models, err := s.client.SMembers(ctx, s.modelsKey()).Result()
	if err != nil {
		return 0, err
	}

	members := make([]interface{}, len(keys))
	for i, key := range keys {
		members[i] = key
	}

	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.entryKeys(keys)...)
		pipe.ZRem(ctx, s.indexKey(), members...)
		for _, model := range models {
			pipe.ZRem(ctx, s.modelKey(model), members...)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int64(len(keys)), nil
}

// Count returns the total entry count.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.client.ZCard(ctx, s.indexKey()).Result()
}

// DeleteAll removes every entry and all index structures.
func (s *Store) DeleteAll(ctx context.Context) error {
	keys, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return err
	}
	models, err := s.client.SMembers(ctx, s.modelsKey()).Result()
	if err != nil {
		return err
	}

	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(keys) > 0 {
			pipe.Del(ctx, s.entryKeys(keys)...)
		}
		pipe.Del(ctx, s.indexKey())
		for _, model := range models {
			pipe.Del(ctx, s.modelKey(model))
		}
		pipe.Del(ctx, s.modelsKey())
		return nil
	})
	return err
}

// DeleteModel removes every entry for the given model.
func (s *Store) DeleteModel(ctx context.Context, model string) (int64, error) {
	keys, err := s.client.ZRange(ctx, s.modelKey(model), 0, -1).Result()
	if err != nil {
		return 0, err
	}

	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(keys) > 0 {
			members := make([]interface{}, len(keys))
			for i, key := range keys {
				members[i] = key
			}
			pipe.Del(ctx, s.entryKeys(keys)...)
			pipe.ZRem(ctx, s.indexKey(), members...)
		}
		pipe.Del(ctx, s.modelKey(model))
		pipe.SRem(ctx, s.modelsKey(), model)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int64(len(keys)), nil
}

// Stats returns aggregates over all entries. Byte sums require reading
// every value, so this is an O(n) operation intended for capacity
// inspection, not hot paths.
func (s *Store) Stats(ctx context.Context) (lingocache.Stats, error) {
	var st lingocache.Stats

	count, err := s.client.ZCard(ctx, s.indexKey()).Result()
	if err != nil {
		return st, err
	}
	if count == 0 {
		return st, nil
	}
	st.TotalEntries = count

	oldest, err := s.client.ZRangeWithScores(ctx, s.indexKey(), 0, 0).Result()
	if err != nil {
		return st, err
	}
	newest, err := s.client.ZRangeWithScores(ctx, s.indexKey(), -1, -1).Result()
	if err != nil {
		return st, err
	}
	if len(oldest) > 0 {
		st.OldestTimestamp = int64(oldest[0].Score)
	}
	if len(newest) > 0 {
		st.NewestTimestamp = int64(newest[0].Score)
	}

	keys, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return st, err
	}
	st.SourceBytes, st.TranslatedBytes, err = s.sumBytes(ctx, keys)
	return st, err
}

// StatsByModel returns per-model aggregates, largest model first.
func (s *Store) StatsByModel(ctx context.Context) ([]lingocache.ModelStats, error) {
	models, err := s.client.SMembers(ctx, s.modelsKey()).Result()
	if err != nil {
		return nil, err
	}

	var out []lingocache.ModelStats
	for _, model := range models {
		mk := s.modelKey(model)

		count, err := s.client.ZCard(ctx, mk).Result()
		if err != nil {
			return nil, err
		}
		if count == 0 {
			continue
		}

		ms := lingocache.ModelStats{Model: model, TotalEntries: count}

		oldest, err := s.client.ZRangeWithScores(ctx, mk, 0, 0).Result()
		if err != nil {
			return nil, err
		}
		newest, err := s.client.ZRangeWithScores(ctx, mk, -1, -1).Result()
		if err != nil {
			return nil, err
		}
		if len(oldest) > 0 {
			ms.OldestTimestamp = int64(oldest[0].Score)
		}
		if len(newest) > 0 {
			ms.NewestTimestamp = int64(newest[0].Score)
		}

		keys, err := s.client.ZRange(ctx, mk, 0, -1).Result()
		if err != nil {
			return nil, err
		}
		if ms.SourceBytes, ms.TranslatedBytes, err = s.sumBytes(ctx, keys); err != nil {
			return nil, err
		}

		out = append(out, ms)
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
// store mutex: Redis offers no read-write transaction here, so exclusion
// between concurrent maintenance passes is the lock's job.
func (s *Store) EnforceCeiling(ctx context.Context, ceiling, aggressiveCutoff int64) (lingocache.MaintenanceReport, error) {
	s.maint.Lock()
	defer s.maint.Unlock()

	var rep lingocache.MaintenanceReport

	count, err := s.Count(ctx)
	if err != nil {
		return rep, err
	}
	rep.StartCount = count
	rep.FinalCount = count
	if count <= ceiling {
		return rep, nil
	}

	if rep.Evicted, err = s.DeleteOldest(ctx, lingocache.EvictionCount(count)); err != nil {
		return rep, err
	}
	if rep.FinalCount, err = s.Count(ctx); err != nil {
		return rep, err
	}
	if rep.FinalCount > ceiling {
		if rep.Swept, err = s.DeleteOlderThan(ctx, aggressiveCutoff); err != nil {
			return rep, err
		}
		if rep.FinalCount, err = s.Count(ctx); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping tests the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) entryKeys(keys []string) []string {
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = s.entryKey(key)
	}
	return out
}

func (s *Store) sumBytes(ctx context.Context, keys []string) (source, translated int64, err error) {
	const chunk = 500
	for start := 0; start < len(keys); start += chunk {
		end := start + chunk
		if end > len(keys) {
			end = len(keys)
		}
		vals, err := s.client.MGet(ctx, s.entryKeys(keys[start:end])...).Result()
		if err != nil {
			return 0, 0, err
		}
		for _, val := range vals {
			raw, ok := val.(string)
			if !ok {
				continue
			}
			var e lingocache.Entry
			if err := json.Unmarshal([]byte(raw), &e); err != nil {
				continue
			}
			source += int64(len(e.SourceText))
			translated += int64(len(e.TranslatedText))
		}
	}
	return source, translated, nil
}

// Verify Store implements the backing store contract.
var _ lingocache.Store = (*Store)(nil)

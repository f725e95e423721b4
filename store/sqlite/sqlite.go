// Package sqlite provides the SQLite-backed translation store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ZaguanLabs/lingocache"
)

// Store is a persistent translation store backed by SQLite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS translations (
	key TEXT PRIMARY KEY,
	source_text TEXT NOT NULL,
	translated_text TEXT NOT NULL,
	source_lang TEXT NOT NULL,
	target_lang TEXT NOT NULL,
	model TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_translations_created_at ON translations(created_at);
CREATE INDEX IF NOT EXISTS idx_translations_model ON translations(model);
`

// New opens (creating if needed) the database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open translation db: %w", err)
	}

	// SQLite serializes writers on the whole file; a single connection
	// avoids SQLITE_BUSY instead of surfacing it.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate translation db: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the entry for key, or found=false when absent.
func (s *Store) Get(ctx context.Context, key string) (lingocache.Entry, bool, error) {
	var e lingocache.Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT key, source_text, translated_text, source_lang, target_lang, model, created_at
		 FROM translations WHERE key = ?`, key,
	).Scan(&e.Key, &e.SourceText, &e.TranslatedText, &e.SourceLang, &e.TargetLang, &e.Model, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return lingocache.Entry{}, false, nil
	}
	if err != nil {
		return lingocache.Entry{}, false, fmt.Errorf("cache get: %w", err)
	}
	return e, true, nil
}

// Put inserts the entry, replacing any prior row with the same key.
func (s *Store) Put(ctx context.Context, e lingocache.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO translations
		 (key, source_text, translated_text, source_lang, target_lang, model, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Key, e.SourceText, e.TranslatedText, e.SourceLang, e.TargetLang, e.Model, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// DeleteOlderThan removes every row with created_at at or before cutoff.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translations WHERE created_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache sweep: %w", err)
	}
	return res.RowsAffected()
}

// DeleteOldest removes the n rows with the smallest created_at.
func (s *Store) DeleteOldest(ctx context.Context, n int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM translations WHERE key IN
		 (SELECT key FROM translations ORDER BY created_at ASC, key ASC LIMIT ?)`, n)
	if err != nil {
		return 0, fmt.Errorf("cache evict oldest: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the total row count.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("cache count: %w", err)
	}
	return count, nil
}

// DeleteAll removes every row.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM translations`); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// DeleteModel removes every row for the given model.
func (s *Store) DeleteModel(ctx context.Context, model string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translations WHERE model = ?`, model)
	if err != nil {
		return 0, fmt.Errorf("cache clear model: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns aggregates over all rows. Byte sums are over the UTF-8
// encoding, hence the BLOB casts (LENGTH on TEXT counts characters).
func (s *Store) Stats(ctx context.Context) (lingocache.Stats, error) {
	var st lingocache.Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(LENGTH(CAST(source_text AS BLOB))), 0),
		        COALESCE(SUM(LENGTH(CAST(translated_text AS BLOB))), 0),
		        COALESCE(MIN(created_at), 0),
		        COALESCE(MAX(created_at), 0)
		 FROM translations`,
	).Scan(&st.TotalEntries, &st.SourceBytes, &st.TranslatedBytes, &st.OldestTimestamp, &st.NewestTimestamp)
	if err != nil {
		return lingocache.Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return st, nil
}

// StatsByModel returns the same aggregates grouped by model, largest
// model first.
func (s *Store) StatsByModel(ctx context.Context) ([]lingocache.ModelStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT model, COUNT(*),
		        COALESCE(SUM(LENGTH(CAST(source_text AS BLOB))), 0),
		        COALESCE(SUM(LENGTH(CAST(translated_text AS BLOB))), 0),
		        COALESCE(MIN(created_at), 0),
		        COALESCE(MAX(created_at), 0)
		 FROM translations GROUP BY model
		 ORDER BY COUNT(*) DESC, model ASC`)
	if err != nil {
		return nil, fmt.Errorf("cache stats by model: %w", err)
	}
	defer rows.Close()

	var out []lingocache.ModelStats
	for rows.Next() {
		var ms lingocache.ModelStats
		if err := rows.Scan(&ms.Model, &ms.TotalEntries, &ms.SourceBytes, &ms.TranslatedBytes,
			&ms.OldestTimestamp, &ms.NewestTimestamp); err != nil {
			return nil, fmt.Errorf("cache stats by model: %w", err)
		}
		out = append(out, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache stats by model: %w", err)
	}
	return out, nil
}

// EnforceCeiling runs the count-then-delete maintenance sequence inside a
// single transaction, so two concurrent passes cannot interleave their
// count reads and deletes.
func (s *Store) EnforceCeiling(ctx context.Context, ceiling, aggressiveCutoff int64) (lingocache.MaintenanceReport, error) {
	var rep lingocache.MaintenanceReport

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return rep, fmt.Errorf("cache maintenance: %w", err)
	}
	defer tx.Rollback()

	count := func() (int64, error) {
		var n int64
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM translations`).Scan(&n)
		return n, err
	}

	if rep.StartCount, err = count(); err != nil {
		return rep, fmt.Errorf("cache maintenance count: %w", err)
	}
	rep.FinalCount = rep.StartCount
	if rep.StartCount <= ceiling {
		return rep, tx.Commit()
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM translations WHERE key IN
		 (SELECT key FROM translations ORDER BY created_at ASC, key ASC LIMIT ?)`,
		lingocache.EvictionCount(rep.StartCount))
	if err != nil {
		return rep, fmt.Errorf("cache maintenance evict: %w", err)
	}
	rep.Evicted, _ = res.RowsAffected()

	if rep.FinalCount, err = count(); err != nil {
		return rep, fmt.Errorf("cache maintenance recount: %w", err)
	}
	if rep.FinalCount > ceiling {
		res, err := tx.ExecContext(ctx, `DELETE FROM translations WHERE created_at <= ?`, aggressiveCutoff)
		if err != nil {
			return rep, fmt.Errorf("cache maintenance sweep: %w", err)
		}
		rep.Swept, _ = res.RowsAffected()
		if rep.FinalCount, err = count(); err != nil {
			return rep, fmt.Errorf("cache maintenance recount: %w", err)
		}
	}

	return rep, tx.Commit()
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Verify Store implements the backing store contract.
var _ lingocache.Store = (*Store)(nil)

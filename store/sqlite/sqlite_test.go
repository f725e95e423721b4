package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ZaguanLabs/lingocache"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "translations.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func entry(key string, createdAt int64) lingocache.Entry {
	return lingocache.Entry{
		Key:            key,
		SourceText:     "source " + key,
		TranslatedText: "translated " + key,
		SourceLang:     "en",
		TargetLang:     "ru",
		Model:          "m1",
		CreatedAt:      createdAt,
	}
}

func TestGetPut(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("empty store Get: ok=%v err=%v", ok, err)
	}

	want := entry("k1", 100)
	if err := s.Put(ctx, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestPutReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, entry("k1", 100))
	updated := entry("k1", 200)
	updated.TranslatedText = "revised"
	if err := s.Put(ctx, updated); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	got, _, _ := s.Get(ctx, "k1")
	if got.TranslatedText != "revised" || got.CreatedAt != 200 {
		t.Errorf("got %+v", got)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "translations.db")
	ctx := context.Background()

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	s.Put(ctx, entry("k1", 100))
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s.Close()

	if _, ok, _ := s.Get(ctx, "k1"); !ok {
		t.Error("entry should survive a reopen")
	}
}

func TestDeleteOlderThan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, entry("old", 100))
	s.Put(ctx, entry("edge", 200))
	s.Put(ctx, entry("new", 300))

	deleted, err := s.DeleteOlderThan(ctx, 200)
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	if _, ok, _ := s.Get(ctx, "new"); !ok {
		t.Error("entry past the cutoff should survive")
	}
}

func TestDeleteOldest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, entry("c", 300))
	s.Put(ctx, entry("a", 100))
	s.Put(ctx, entry("b", 200))

	deleted, err := s.DeleteOldest(ctx, 2)
	if err != nil {
		t.Fatalf("DeleteOldest: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	if _, ok, _ := s.Get(ctx, "c"); !ok {
		t.Error("newest entry should survive")
	}
}

func TestDeleteAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, entry("a", 100))
	s.Put(ctx, entry("b", 200))

	if err := s.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestDeleteModel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pro := entry("p1", 100)
	pro.Model = "pro"
	s.Put(ctx, pro)
	s.Put(ctx, entry("m1a", 100))
	s.Put(ctx, entry("m1b", 200))

	deleted, err := s.DeleteModel(ctx, "m1")
	if err != nil {
		t.Fatalf("DeleteModel: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	if _, ok, _ := s.Get(ctx, "p1"); !ok {
		t.Error("other models should survive")
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalEntries != 0 || st.OldestTimestamp != 0 || st.NewestTimestamp != 0 {
		t.Errorf("empty stats = %+v", st)
	}

	// Multi-byte text: sums must count UTF-8 bytes, not characters.
	s.Put(ctx, lingocache.Entry{Key: "a", SourceText: "Hi", TranslatedText: "Привет", SourceLang: "en", TargetLang: "ru", Model: "m1", CreatedAt: 100})
	s.Put(ctx, lingocache.Entry{Key: "b", SourceText: "Bye", TranslatedText: "Пока", SourceLang: "en", TargetLang: "ru", Model: "m1", CreatedAt: 300})

	st, _ = s.Stats(ctx)
	if st.TotalEntries != 2 {
		t.Errorf("TotalEntries = %d", st.TotalEntries)
	}
	if st.SourceBytes != 5 {
		t.Errorf("SourceBytes = %d, want 5", st.SourceBytes)
	}
	if st.TranslatedBytes != 20 {
		t.Errorf("TranslatedBytes = %d, want 20 (Cyrillic is 2 bytes per rune)", st.TranslatedBytes)
	}
	if st.OldestTimestamp != 100 || st.NewestTimestamp != 300 {
		t.Errorf("timestamps = %d..%d", st.OldestTimestamp, st.NewestTimestamp)
	}
}

func TestStatsByModel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		e := entry(fmt.Sprintf("p%d", i), int64(100+i))
		e.Model = "pro"
		s.Put(ctx, e)
	}
	s.Put(ctx, entry("f1", 50))

	stats, err := s.StatsByModel(ctx)
	if err != nil {
		t.Fatalf("StatsByModel: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("models = %d, want 2", len(stats))
	}
	if stats[0].Model != "pro" || stats[0].TotalEntries != 3 {
		t.Errorf("first = %+v, want pro with 3 entries", stats[0])
	}
	if stats[0].OldestTimestamp != 100 || stats[0].NewestTimestamp != 102 {
		t.Errorf("pro timestamps = %d..%d", stats[0].OldestTimestamp, stats[0].NewestTimestamp)
	}
	if stats[1].Model != "m1" || stats[1].TotalEntries != 1 {
		t.Errorf("second = %+v", stats[1])
	}
}

func TestEnforceCeiling_UnderCeilingNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, entry("a", 100))
	rep, err := s.EnforceCeiling(ctx, 10, 0)
	if err != nil {
		t.Fatalf("EnforceCeiling: %v", err)
	}
	if rep.Evicted != 0 || rep.Swept != 0 || rep.FinalCount != 1 {
		t.Errorf("report = %+v, want no deletions", rep)
	}
}

func TestEnforceCeiling_EvictsOldestTenth(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		s.Put(ctx, entry(fmt.Sprintf("k%02d", i), int64(i)))
	}

	rep, err := s.EnforceCeiling(ctx, 19, 0)
	if err != nil {
		t.Fatalf("EnforceCeiling: %v", err)
	}
	if rep.Evicted != 2 || rep.Swept != 0 || rep.FinalCount != 18 {
		t.Errorf("report = %+v, want 2 evicted and 18 remaining", rep)
	}
	if _, ok, _ := s.Get(ctx, "k00"); ok {
		t.Error("oldest entry should be evicted")
	}
	if _, ok, _ := s.Get(ctx, "k02"); !ok {
		t.Error("third-oldest entry should survive")
	}
}

func TestEnforceCeiling_AggressiveSweep(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		s.Put(ctx, entry(fmt.Sprintf("k%02d", i), int64(i)))
	}

	rep, err := s.EnforceCeiling(ctx, 5, 15)
	if err != nil {
		t.Fatalf("EnforceCeiling: %v", err)
	}
	if rep.Evicted != 2 {
		t.Errorf("evicted = %d, want 2", rep.Evicted)
	}
	if rep.Swept != 14 {
		t.Errorf("swept = %d, want 14", rep.Swept)
	}
	if rep.FinalCount != 4 {
		t.Errorf("final count = %d, want 4", rep.FinalCount)
	}
}

func TestEnforceCeiling_CanStayOverCapacity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		s.Put(ctx, entry(fmt.Sprintf("k%02d", i), int64(1000+i)))
	}

	rep, err := s.EnforceCeiling(ctx, 5, 100)
	if err != nil {
		t.Fatalf("EnforceCeiling: %v", err)
	}
	if rep.Swept != 0 || rep.FinalCount != 18 {
		t.Errorf("report = %+v, want sweep to remove nothing", rep)
	}
	if !rep.OverCapacity(5) {
		t.Error("report should still be over capacity")
	}
}

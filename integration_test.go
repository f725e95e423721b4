package lingocache_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ZaguanLabs/lingocache"
	"github.com/ZaguanLabs/lingocache/processor"
	"github.com/ZaguanLabs/lingocache/provider"
	"github.com/ZaguanLabs/lingocache/store/memory"
)

// Integration tests using all real components

func TestIntegration_BasicTranslation(t *testing.T) {
	p := provider.NewMockProvider()
	cache := lingocache.NewManager(memory.New())
	proc := processor.NewHTMLProcessor()

	translator := lingocache.NewTranslator("es_ES", p,
		lingocache.WithCache(cache),
		lingocache.WithProcessor(proc),
	)

	html := `<div><p>Hello</p></div>`
	result, err := translator.ProcessHTML(context.Background(), html)

	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}

	if !strings.Contains(result.Content, "Hola") {
		t.Errorf("Expected 'Hola' in result, got: %s", result.Content)
	}

	if result.TranslatedCount != 1 {
		t.Errorf("Expected TranslatedCount 1, got %d", result.TranslatedCount)
	}
}

func TestIntegration_CacheHit(t *testing.T) {
	p := provider.NewMockProvider()
	cache := lingocache.NewManager(memory.New())
	proc := processor.NewHTMLProcessor()

	translator := lingocache.NewTranslator("es_ES", p,
		lingocache.WithCache(cache),
		lingocache.WithProcessor(proc),
	)

	html := `<p>Hello</p>`

	// First call
	result1, _ := translator.ProcessHTML(context.Background(), html)
	if result1.TranslatedCount != 1 || result1.CachedCount != 0 {
		t.Errorf("First call: expected 1 translated, 0 cached; got %d, %d",
			result1.TranslatedCount, result1.CachedCount)
	}

	// Second call - should use cache
	result2, _ := translator.ProcessHTML(context.Background(), html)
	if result2.TranslatedCount != 0 || result2.CachedCount != 1 {
		t.Errorf("Second call: expected 0 translated, 1 cached; got %d, %d",
			result2.TranslatedCount, result2.CachedCount)
	}

	// Provider should only be called once
	if p.CallCount != 1 {
		t.Errorf("Provider should be called once, was called %d times", p.CallCount)
	}
}

func TestIntegration_ModelsDoNotShareEntries(t *testing.T) {
	cache := lingocache.NewManager(memory.New())
	ctx := context.Background()

	litePr := provider.NewMockProvider()
	lite := lingocache.NewTranslator("es_ES", litePr,
		lingocache.WithCache(cache),
		lingocache.WithModel("flash-lite"),
	)
	proPr := provider.NewMockProvider()
	pro := lingocache.NewTranslator("es_ES", proPr,
		lingocache.WithCache(cache),
		lingocache.WithModel("pro"),
	)

	if _, err := lite.TranslateText(ctx, "Hello"); err != nil {
		t.Fatalf("lite translate: %v", err)
	}
	// The pro translator must not see the flash-lite entry.
	if _, err := pro.TranslateText(ctx, "Hello"); err != nil {
		t.Fatalf("pro translate: %v", err)
	}
	if proPr.CallCount != 1 {
		t.Errorf("pro provider calls = %d, want 1 (no cross-model hit)", proPr.CallCount)
	}

	byModel := cache.StatsByModel(ctx)
	if len(byModel) != 2 {
		t.Fatalf("models in cache = %d, want 2", len(byModel))
	}
}

func TestIntegration_LanguagePairsAreIsolated(t *testing.T) {
	cache := lingocache.NewManager(memory.New())
	ctx := context.Background()

	cache.Store(ctx, "Hello", "Hola", "en", "es_ES", "m1")
	cache.Store(ctx, "Hello", "Bonjour", "en", "fr_FR", "m1")

	es, okEs := cache.Lookup(ctx, "Hello", "en", "es_ES", "m1", 0)
	fr, okFr := cache.Lookup(ctx, "Hello", "en", "fr_FR", "m1", 0)
	if !okEs || !okFr {
		t.Fatal("expected hits for both pairs")
	}
	if es != "Hola" || fr != "Bonjour" {
		t.Errorf("es=%q fr=%q", es, fr)
	}
}

func TestIntegration_CeilingEnforced(t *testing.T) {
	store := memory.New()
	base := time.Now()
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	cache := lingocache.NewManager(store,
		lingocache.WithMaxEntries(10),
		lingocache.WithClock(clock),
	)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		cache.Store(ctx, fmt.Sprintf("text %d", i), "translated", "en", "es_ES", "m1")
	}

	if n, _ := store.Count(ctx); n > 10 {
		t.Errorf("count = %d, want at most the ceiling of 10", n)
	}
}

func TestIntegration_ExpiryAcrossRestart(t *testing.T) {
	store := memory.New()
	now := time.Now()
	clock := func() time.Time { return now }
	cache := lingocache.NewManager(store, lingocache.WithClock(clock))
	ctx := context.Background()

	cache.Store(ctx, "Hello", "Hola", "en", "es_ES", "m1")

	// A new manager over the same store sees the entry until it ages out.
	cache2 := lingocache.NewManager(store, lingocache.WithClock(clock))
	if _, ok := cache2.Lookup(ctx, "Hello", "en", "es_ES", "m1", 0); !ok {
		t.Error("fresh entry should survive a manager restart")
	}

	now = now.Add(31 * 24 * time.Hour)
	if _, ok := cache2.Lookup(ctx, "Hello", "en", "es_ES", "m1", 0); ok {
		t.Error("entry should expire after the default TTL")
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("expired entry should be swept, count = %d", n)
	}
}

func TestIntegration_ClearAndRepopulate(t *testing.T) {
	p := provider.NewMockProvider()
	cache := lingocache.NewManager(memory.New())
	translator := lingocache.NewTranslator("es_ES", p, lingocache.WithCache(cache))
	ctx := context.Background()

	translator.TranslateText(ctx, "Hello")
	cache.ClearAll(ctx)

	translator.TranslateText(ctx, "Hello")
	if p.CallCount != 2 {
		t.Errorf("provider calls = %d, want 2 after a clear", p.CallCount)
	}
}

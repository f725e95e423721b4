package lingocache

import (
	"context"
	"sync"
)

// ParallelCacheLookup performs cache lookups concurrently. Returns a map
// of hash to cached translation and the deduplicated misses in original
// order. Point lookups on distinct keys are independent, so no
// coordination beyond the result channel is needed.
func ParallelCacheLookup(ctx context.Context, cache *Manager, nodes []TextNode, sourceLang, targetLang, model string, maxAgeDays int) (map[string]string, []TextNode) {
	if cache == nil || len(nodes) == 0 {
		return make(map[string]string), nodes
	}

	type lookupResult struct {
		hash  string
		value string
		found bool
	}

	// Deduplicate nodes by hash first
	uniqueNodes := make(map[string]TextNode)
	for _, node := range nodes {
		if _, exists := uniqueNodes[node.Hash]; !exists {
			uniqueNodes[node.Hash] = node
		}
	}

	results := make(chan lookupResult, len(uniqueNodes))
	var wg sync.WaitGroup

	for hash, node := range uniqueNodes {
		wg.Add(1)
		go func(hash, text string) {
			defer wg.Done()
			if val, ok := cache.Lookup(ctx, text, sourceLang, targetLang, model, maxAgeDays); ok {
				results <- lookupResult{hash: hash, value: val, found: true}
			} else {
				results <- lookupResult{hash: hash}
			}
		}(hash, node.Text)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	translations := make(map[string]string)
	missedHashes := make(map[string]bool)
	for result := range results {
		if result.found {
			translations[result.hash] = result.value
		} else {
			missedHashes[result.hash] = true
		}
	}

	// Build cache misses slice (preserving original order)
	var misses []TextNode
	seenMisses := make(map[string]bool)
	for _, node := range nodes {
		if missedHashes[node.Hash] && !seenMisses[node.Hash] {
			misses = append(misses, node)
			seenMisses[node.Hash] = true
		}
	}

	return translations, misses
}

// ParallelTranslator is a translator that uses parallel cache lookups for
// large batches.
type ParallelTranslator struct {
	*Translator
	parallelThreshold int // Minimum nodes to trigger parallel lookup
}

// NewParallelTranslator creates a translator with parallel cache lookups.
func NewParallelTranslator(targetLang string, provider AIProvider, opts ...TranslatorOption) *ParallelTranslator {
	return &ParallelTranslator{
		Translator:        NewTranslator(targetLang, provider, opts...),
		parallelThreshold: 5,
	}
}

// WithParallelThreshold sets the minimum nodes for parallel lookup.
func (t *ParallelTranslator) WithParallelThreshold(n int) *ParallelTranslator {
	t.parallelThreshold = n
	return t
}

// TranslateBatchParallel translates nodes using parallel cache lookups,
// falling back to the sequential path for small batches.
func (t *ParallelTranslator) TranslateBatchParallel(ctx context.Context, nodes []TextNode) (map[string]string, int, int, error) {
	if t.cache == nil || len(nodes) < t.parallelThreshold {
		return t.translateBatch(ctx, nodes)
	}

	translations, misses := ParallelCacheLookup(ctx, t.cache, nodes, t.sourceLang, t.targetLang, t.model, t.cacheTTLDays)
	cachedCount := len(translations)

	translatedCount, err := t.translateMisses(ctx, misses, translations)
	if err != nil {
		return nil, 0, 0, err
	}
	return translations, cachedCount, translatedCount, nil
}

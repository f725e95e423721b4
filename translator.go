package lingocache

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Translator is the translation engine: the cache's reference caller. For
// every translatable node it consults the cache first, sends only the
// misses to the AI provider, and stores each fresh result back. Lookup
// and store are parameterized identically, which is what keeps the cache
// coherent.
type Translator struct {
	targetLang    string
	sourceLang    string
	model         string
	provider      AIProvider
	cache         *Manager
	cacheTTLDays  int
	excludedTerms []string
	context       string
	glossary      map[string]string
	style         TranslationStyle
	processors    map[string]ContentProcessor
}

// AIProvider is the interface for AI translation backends.
type AIProvider interface {
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// TranslateRequest contains the parameters for a translation request.
type TranslateRequest struct {
	Texts         []string
	TargetLang    string
	SourceLang    string
	Model         string
	ExcludedTerms []string
	Context       string
	TextContexts  []string
	Glossary      map[string]string
	Style         TranslationStyle
}

// ContentProcessor is the interface for content processing.
type ContentProcessor interface {
	Extract(content string) (interface{}, []TextNode, error)
	Apply(parsed interface{}, nodes []TextNode, translations map[string]string) (string, error)
	ContentType() string
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithSourceLang sets the source language ("auto" lets the provider detect it).
func WithSourceLang(lang string) TranslatorOption {
	return func(t *Translator) {
		t.sourceLang = lang
	}
}

// WithModel sets the model identifier used for provider requests and cache
// fingerprints. When empty, the cache resolves its configured default.
func WithModel(model string) TranslatorOption {
	return func(t *Translator) {
		t.model = model
	}
}

// WithCache sets the translation result cache.
func WithCache(cache *Manager) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithCacheMaxAge sets the maximum acceptable age in days for cache hits.
// Zero uses the cache's default TTL.
func WithCacheMaxAge(days int) TranslatorOption {
	return func(t *Translator) {
		t.cacheTTLDays = days
	}
}

// WithExcludedTerms sets terms that should not be translated.
func WithExcludedTerms(terms []string) TranslatorOption {
	return func(t *Translator) {
		t.excludedTerms = terms
	}
}

// WithContext sets the global translation context.
func WithContext(ctx string) TranslatorOption {
	return func(t *Translator) {
		t.context = ctx
	}
}

// WithGlossary sets preferred translations for specific phrases.
func WithGlossary(glossary map[string]string) TranslatorOption {
	return func(t *Translator) {
		t.glossary = glossary
	}
}

// WithStyle sets the translation style/register.
func WithStyle(style TranslationStyle) TranslatorOption {
	return func(t *Translator) {
		t.style = style
	}
}

// WithProcessor registers a content processor.
func WithProcessor(processor ContentProcessor) TranslatorOption {
	return func(t *Translator) {
		t.processors[processor.ContentType()] = processor
	}
}

// NewTranslator creates a new Translator with the given target language and provider.
func NewTranslator(targetLang string, provider AIProvider, opts ...TranslatorOption) *Translator {
	t := &Translator{
		targetLang: targetLang,
		sourceLang: "en",
		provider:   provider,
		style:      StyleNeutral,
		processors: make(map[string]ContentProcessor),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Process translates content of the specified type.
func (t *Translator) Process(ctx context.Context, content string, contentType string) (*ProcessedContent, error) {
	// Skip if source == target
	if t.isSourceLang() {
		return &ProcessedContent{Content: content}, nil
	}

	processor, ok := t.processors[contentType]
	if !ok {
		return nil, &ProcessorError{
			Message:     "no processor registered for content type",
			ContentType: contentType,
		}
	}

	parsed, nodes, err := processor.Extract(content)
	if err != nil {
		return nil, err
	}

	if len(nodes) == 0 {
		return &ProcessedContent{Content: content}, nil
	}

	translations, cachedCount, translatedCount, err := t.translateBatch(ctx, nodes)
	if err != nil {
		return nil, err
	}

	result, err := processor.Apply(parsed, nodes, translations)
	if err != nil {
		return nil, err
	}

	if contentType == "html" {
		result = t.setHTMLAttributes(result)
	}

	return &ProcessedContent{
		Content:         result,
		TranslatedCount: translatedCount,
		CachedCount:     cachedCount,
		TotalNodes:      len(nodes),
	}, nil
}

// ProcessHTML is a convenience method for processing HTML content.
func (t *Translator) ProcessHTML(ctx context.Context, html string) (*ProcessedContent, error) {
	return t.Process(ctx, html, "html")
}

// TranslateText translates a single text snippet through the cache.
func (t *Translator) TranslateText(ctx context.Context, text string) (string, error) {
	if t.isSourceLang() || strings.TrimSpace(text) == "" {
		return text, nil
	}

	node := TextNode{Text: strings.TrimSpace(text), Hash: HashText(text), NodeType: "text"}
	translations, _, _, err := t.translateBatch(ctx, []TextNode{node})
	if err != nil {
		return "", err
	}
	return translations[node.Hash], nil
}

// translateBatch translates nodes, using the cache where possible.
// Returns the hash-keyed translations plus cache hit and fresh counts.
func (t *Translator) translateBatch(ctx context.Context, nodes []TextNode) (map[string]string, int, int, error) {
	translations := make(map[string]string)
	var misses []TextNode
	seenHashes := make(map[string]bool)
	cachedCount := 0

	for _, node := range nodes {
		if t.cache != nil {
			if translated, ok := t.cache.Lookup(ctx, node.Text, t.sourceLang, t.targetLang, t.model, t.cacheTTLDays); ok {
				translations[node.Hash] = translated
				cachedCount++
				continue
			}
		}

		// Deduplicate cache misses
		if !seenHashes[node.Hash] {
			misses = append(misses, node)
			seenHashes[node.Hash] = true
		}
	}

	translatedCount, err := t.translateMisses(ctx, misses, translations)
	if err != nil {
		return nil, 0, 0, err
	}
	return translations, cachedCount, translatedCount, nil
}

// translateMisses sends the deduplicated misses to the provider in one
// batch and stores each result back into the cache.
func (t *Translator) translateMisses(ctx context.Context, misses []TextNode, translations map[string]string) (int, error) {
	if len(misses) == 0 || t.provider == nil {
		return 0, nil
	}

	texts := make([]string, len(misses))
	textContexts := make([]string, len(misses))
	for i, node := range misses {
		texts[i] = node.Text
		textContexts[i] = node.Context
	}

	results, err := t.provider.Translate(ctx, TranslateRequest{
		Texts:         texts,
		TargetLang:    t.targetLang,
		SourceLang:    t.sourceLang,
		Model:         t.model,
		ExcludedTerms: t.excludedTerms,
		Context:       t.context,
		TextContexts:  textContexts,
		Glossary:      t.glossary,
		Style:         t.style,
	})
	if err != nil {
		return 0, err
	}
	if len(results) != len(misses) {
		return 0, &CountMismatchError{Expected: len(misses), Got: len(results)}
	}

	for i, node := range misses {
		translations[node.Hash] = results[i]
		if t.cache != nil {
			t.cache.Store(ctx, node.Text, results[i], t.sourceLang, t.targetLang, t.model)
		}
	}
	return len(misses), nil
}

// isSourceLang checks if target matches source (no translation needed).
func (t *Translator) isSourceLang() bool {
	return normalizeBaseLang(t.targetLang) == normalizeBaseLang(t.sourceLang)
}

// setHTMLAttributes sets lang and dir attributes on the <html> tag.
func (t *Translator) setHTMLAttributes(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	htmlTag := doc.Find("html")
	if htmlTag.Length() > 0 {
		htmlTag.SetAttr("lang", ToHTMLLang(t.targetLang))
		htmlTag.SetAttr("dir", GetDirection(t.targetLang))
	}

	result, err := doc.Html()
	if err != nil {
		return html
	}

	return result
}

// TargetLang returns the target language.
func (t *Translator) TargetLang() string {
	return t.targetLang
}

// SourceLang returns the source language.
func (t *Translator) SourceLang() string {
	return t.sourceLang
}

// Model returns the model identifier, empty when the cache default applies.
func (t *Translator) Model() string {
	return t.model
}

// IsRTL returns true if the target language uses right-to-left text direction.
func (t *Translator) IsRTL() bool {
	return IsRTL(t.targetLang)
}

// normalizeBaseLang extracts the base language code (e.g., "en" from "en_US").
func normalizeBaseLang(lang string) string {
	return strings.ToLower(strings.Split(lang, "_")[0])
}

// Command lingocache translates HTML files through a persistent
// translation cache, and manages that cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ZaguanLabs/lingocache"
	"github.com/ZaguanLabs/lingocache/processor"
	"github.com/ZaguanLabs/lingocache/provider"
	"github.com/ZaguanLabs/lingocache/store/sqlite"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("lingocache", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "YAML config file")
	dbPath := fs.String("db", "", "Cache database path (default: lingocache.db)")

	// Translation flags
	targetLang := fs.String("lang", "", "Target language code (e.g., es_ES, ja_JP)")
	sourceLang := fs.String("source", "en", "Source language code (\"auto\" to detect)")
	model := fs.String("model", "", "Model to use (default from config)")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	output := fs.String("o", "", "Output file (default: stdout)")
	contextStr := fs.String("context", "", "Translation context (e.g., 'E-commerce website')")
	maxAge := fs.Int("cache-max-age", 0, "Maximum acceptable cache entry age in days (0: cache default)")

	// Cache management flags
	showStats := fs.Bool("stats", false, "Show cache statistics")
	showModelStats := fs.Bool("stats-by-model", false, "Show cache statistics grouped by model")
	cleanup := fs.Int("cleanup", -1, "Delete entries older than N days (0: default TTL)")
	clear := fs.Bool("clear", false, "Delete all cache entries")
	clearModel := fs.String("clear-model", "", "Delete all cache entries for the given model")

	showVersion := fs.Bool("version", false, "Show version")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", lingocache.Name, lingocache.FullVersion())
		return nil
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.Cache.Path = *dbPath
	}
	if *model != "" {
		cfg.Provider.Model = *model
		cfg.Cache.DefaultModel = *model
	}
	if *apiKey != "" {
		cfg.Provider.APIKey = *apiKey
	}
	if cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	logger := zap.NewNop()
	if *verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
	}

	st, err := sqlite.New(cfg.Cache.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	cache := lingocache.NewManager(st,
		lingocache.WithMaxEntries(cfg.Cache.MaxEntries),
		lingocache.WithDefaultTTL(cfg.Cache.TTLDays),
		lingocache.WithAggressiveTTL(cfg.Cache.AggressiveTTLDays),
		lingocache.WithDefaultModel(cfg.Cache.DefaultModel),
		lingocache.WithLogger(logger),
	)

	ctx := context.Background()

	switch {
	case *showStats:
		return printStats(ctx, stdout, cache)
	case *showModelStats:
		return printModelStats(ctx, stdout, cache)
	case *cleanup >= 0:
		deleted := cache.CleanupExpired(ctx, *cleanup)
		fmt.Fprintf(stdout, "deleted %d expired entries\n", deleted)
		return nil
	case *clear:
		cache.ClearAll(ctx)
		fmt.Fprintln(stdout, "cache cleared")
		return nil
	case *clearModel != "":
		deleted := cache.ClearModel(ctx, *clearModel)
		fmt.Fprintf(stdout, "deleted %d entries for model %q\n", deleted, *clearModel)
		return nil
	}

	return translate(ctx, fs, cfg, cache, stdout, targetLang, sourceLang, contextStr, output, *maxAge)
}

func translate(ctx context.Context, fs *flag.FlagSet, cfg Config, cache *lingocache.Manager, stdout io.Writer, targetLang, sourceLang, contextStr, output *string, maxAge int) error {
	if *targetLang == "" {
		fs.Usage()
		return fmt.Errorf("--lang is required")
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("exactly one input file is required")
	}
	if cfg.Provider.APIKey == "" {
		return fmt.Errorf("an OpenAI API key is required (--api-key or OPENAI_API_KEY)")
	}

	input, err := os.ReadFile(fs.Arg(0)) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var p lingocache.AIProvider = provider.NewOpenAIProvider(provider.OpenAIConfig{
		APIKey:      cfg.Provider.APIKey,
		Model:       cfg.Provider.Model,
		BaseURL:     cfg.Provider.BaseURL,
		Temperature: cfg.Provider.Temperature,
	})
	p = lingocache.NewRetryableProvider(p, lingocache.DefaultRetryConfig())
	p = lingocache.NewRateLimitedProvider(p, lingocache.RateLimitConfig{
		RequestsPerMinute: cfg.Provider.RequestsPerMinute,
	})

	t := lingocache.NewTranslator(lingocache.NormalizeLocale(*targetLang), p,
		lingocache.WithSourceLang(lingocache.NormalizeLocale(*sourceLang)),
		lingocache.WithModel(cfg.Provider.Model),
		lingocache.WithCache(cache),
		lingocache.WithCacheMaxAge(maxAge),
		lingocache.WithContext(*contextStr),
		lingocache.WithProcessor(processor.NewHTMLProcessor()),
	)

	result, err := t.ProcessHTML(ctx, string(input))
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(result.Content), 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	} else {
		fmt.Fprint(stdout, result.Content)
	}

	fmt.Fprintf(os.Stderr, "nodes: %d, translated: %d, cached: %d\n",
		result.TotalNodes, result.TranslatedCount, result.CachedCount)
	return nil
}

func printStats(ctx context.Context, w io.Writer, cache *lingocache.Manager) error {
	stats := cache.Stats(ctx)
	now := time.Now()

	fmt.Fprintf(w, "Entries:    %d (ceiling %d)\n", stats.TotalEntries, cache.MaxEntries())
	fmt.Fprintf(w, "Size:       %.1f KB (source %d B, translated %d B)\n",
		stats.SizeKB(), stats.SourceBytes, stats.TranslatedBytes)
	if stats.TotalEntries > 0 {
		fmt.Fprintf(w, "Oldest:     %.1f days\n", stats.OldestAge(now).Hours()/24)
		fmt.Fprintf(w, "Newest:     %.1f days\n", stats.NewestAge(now).Hours()/24)
	}
	fmt.Fprintf(w, "Healthy:    %v\n", stats.Healthy)
	return nil
}

func printModelStats(ctx context.Context, w io.Writer, cache *lingocache.Manager) error {
	stats := cache.StatsByModel(ctx)
	if len(stats) == 0 {
		fmt.Fprintln(w, "cache is empty")
		return nil
	}

	for _, ms := range stats {
		fmt.Fprintf(w, "%-24s %8d entries  %8d B source  %8d B translated\n",
			ms.Model, ms.TotalEntries, ms.SourceBytes, ms.TranslatedBytes)
	}
	return nil
}

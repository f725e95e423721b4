// Package lingocache provides a persistent, bounded cache for AI
// translation results, plus the translation pipeline that drives it.
//
// The cache keys each result by a fingerprint of (text, source language,
// target language, model), expires entries by age, and keeps the entry
// count under a configured ceiling by evicting oldest-first after every
// store. It is an optimization layer, never a dependency: any backing
// store fault collapses to a cache miss or a no-op, and callers fall back
// to a live translation.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/lingocache"
//	    "github.com/ZaguanLabs/lingocache/processor"
//	    "github.com/ZaguanLabs/lingocache/provider"
//	    "github.com/ZaguanLabs/lingocache/store/sqlite"
//	)
//
//	func main() {
//	    st, err := sqlite.New("translations.db")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    cache := lingocache.NewManager(st)
//
//	    p := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    t := lingocache.NewTranslator("es_ES", p,
//	        lingocache.WithCache(cache),
//	        lingocache.WithProcessor(processor.NewHTMLProcessor()),
//	    )
//
//	    result, err := t.ProcessHTML(context.Background(), "<p>Hello World</p>")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Content) // <p>Hola Mundo</p>
//	}
package lingocache

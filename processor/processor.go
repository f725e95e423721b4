// Package processor provides content processing implementations.
package processor

import "github.com/ZaguanLabs/lingocache"

// ContentProcessor is an alias to the main package interface.
type ContentProcessor = lingocache.ContentProcessor

// TextNode is an alias to the main package type.
type TextNode = lingocache.TextNode

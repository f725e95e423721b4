package processor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ZaguanLabs/lingocache"
)

// HTMLProcessor extracts and applies translations to HTML content.
type HTMLProcessor struct {
	ignoredTags map[string]bool
}

// NewHTMLProcessor creates a new HTML processor with default ignored tags.
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{
		ignoredTags: lingocache.IgnoredTags,
	}
}

// NewHTMLProcessorWithIgnoredTags creates a new HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLProcessor{
		ignoredTags: ignored,
	}
}

// parsedHTML holds the parsed document between Extract and Apply.
type parsedHTML struct {
	doc *goquery.Document
}

// Extract parses HTML and extracts translatable text nodes, deduplicated
// by content hash.
func (p *HTMLProcessor) Extract(content string) (interface{}, []lingocache.TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &lingocache.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	var nodes []lingocache.TextNode
	seenHashes := make(map[string]bool)

	p.walkText(doc, func(n *html.Node, trimmed string) {
		hash := lingocache.HashText(trimmed)
		if seenHashes[hash] {
			return
		}
		seenHashes[hash] = true

		node := lingocache.TextNode{
			ID:       fmt.Sprintf("node-%d", len(nodes)),
			Text:     trimmed,
			Hash:     hash,
			NodeType: "html_text",
			Context:  p.buildContext(n),
			Metadata: map[string]string{},
		}
		if n.Parent != nil {
			node.Metadata["parent_tag"] = n.Parent.Data
		}
		nodes = append(nodes, node)
	})

	return &parsedHTML{doc: doc}, nodes, nil
}

// Apply applies translations back to the HTML document, preserving each
// text node's surrounding whitespace.
func (p *HTMLProcessor) Apply(parsed interface{}, _ []lingocache.TextNode, translations map[string]string) (string, error) {
	ph, ok := parsed.(*parsedHTML)
	if !ok {
		return "", &lingocache.ProcessorError{
			Message:     "invalid parsed content type",
			ContentType: "html",
		}
	}

	p.walkText(ph.doc, func(n *html.Node, trimmed string) {
		if translated, ok := translations[lingocache.HashText(trimmed)]; ok {
			n.Data = preserveWhitespace(n.Data, translated)
		}
	})

	out, err := ph.doc.Html()
	if err != nil {
		return "", &lingocache.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	return out, nil
}

// ContentType returns "html".
func (p *HTMLProcessor) ContentType() string {
	return "html"
}

// walkText visits every translatable text node in document order, skipping
// ignored tags and data-no-translate subtrees.
func (p *HTMLProcessor) walkText(doc *goquery.Document, visit func(n *html.Node, trimmed string)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if p.ignoredTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "data-no-translate" {
					return
				}
			}
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				visit(n, trimmed)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	doc.Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			walk(n)
		}
	})
}

// buildContext creates a disambiguation context string for a text node.
func (p *HTMLProcessor) buildContext(n *html.Node) string {
	if n.Parent == nil {
		return ""
	}

	var parts []string
	parent := n.Parent
	tag := parent.Data

	var classAttr, idAttr string
	for _, attr := range parent.Attr {
		switch attr.Key {
		case "class":
			classAttr = attr.Val
		case "id":
			idAttr = attr.Val
		}
	}

	switch {
	case classAttr != "":
		parts = append(parts, fmt.Sprintf("in <%s class=\"%s\">", tag, classAttr))
	case idAttr != "":
		parts = append(parts, fmt.Sprintf("in <%s id=\"%s\">", tag, idAttr))
	default:
		parts = append(parts, fmt.Sprintf("in <%s>", tag))
	}

	// Sibling text, up to 3 items
	var siblings []string
	for sib := parent.FirstChild; sib != nil && len(siblings) < 3; sib = sib.NextSibling {
		if sib == n || sib.Type != html.TextNode {
			continue
		}
		if sibText := strings.TrimSpace(sib.Data); sibText != "" && len(sibText) < 100 {
			siblings = append(siblings, sibText)
		}
	}
	if len(siblings) > 0 {
		parts = append(parts, fmt.Sprintf("with: %s", strings.Join(siblings, ", ")))
	}

	// Ancestor path, outer to inner, up to 3 levels
	var ancestors []string
	for a, depth := parent.Parent, 0; a != nil && depth < 3; a, depth = a.Parent, depth+1 {
		if a.Type == html.ElementNode && a.Data != "html" && a.Data != "body" {
			ancestors = append([]string{a.Data}, ancestors...)
		}
	}
	if len(ancestors) > 0 {
		parts = append(parts, fmt.Sprintf("inside: %s", strings.Join(ancestors, " > ")))
	}

	return strings.Join(parts, " | ")
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leading := original[:len(original)-len(strings.TrimLeft(original, " \t\n\r"))]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + translated + trailing
}

// Verify HTMLProcessor implements ContentProcessor
var _ ContentProcessor = (*HTMLProcessor)(nil)

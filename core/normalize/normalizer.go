// Package normalize implements the Normalizer interface.
// It converts a rendered opus fragment into Markdown, resolving the
// protocol-relative CDN URLs the fragment uses first.
package normalize

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// DefaultScheme resolves protocol-relative URLs.
const DefaultScheme = "https:"

// urlAttrs are rewritten when they hold a protocol-relative URL.
var urlAttrs = []string{"href", "src", "srcset"}

// MarkdownNormalizer converts HTML to Markdown using html-to-markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts a rendered HTML fragment into Markdown.
func (n *MarkdownNormalizer) Normalize(html string) (string, error) {
	resolved, err := ResolveURLs(html)
	if err != nil {
		return "", err
	}
	markdown, err := htmltomarkdown.ConvertString(resolved)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

// ResolveURLs prefixes protocol-relative href/src/srcset values with
// DefaultScheme and drops <source> alternatives, leaving one <img> per
// picture.
func ResolveURLs(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("source").Remove()
	for _, attr := range urlAttrs {
		doc.Find("[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
			if v, _ := s.Attr(attr); strings.HasPrefix(v, "//") {
				s.SetAttr(attr, DefaultScheme+v)
			}
		})
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serializing HTML: %w", err)
	}
	return out, nil
}

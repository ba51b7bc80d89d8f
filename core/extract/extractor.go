// Package extract implements the Extractor interface.
// It walks a rendered opus fragment and records its structure:
//  1. Headings, links and gallery images in document order
//  2. Counts of code blocks, lists, blockquotes and rules
//  3. The visible text with whitespace collapsed
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/opuspipe/core"
)

// noiseSelectors are removed before the plain text is collected.
var noiseSelectors = []string{"script", "style", "noscript", "source"}

// blockSelectors separate their text from the following block.
const blockSelectors = "h1, h2, h3, h4, h5, h6, p, blockquote, li, pre, div, figure"

// HTMLExtractor builds an Outline from an HTML fragment.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract parses fragment and returns its outline.
func (e *HTMLExtractor) Extract(fragment string) (*core.Outline, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	out := &core.Outline{
		Headings: []core.Heading{},
		Links:    []core.Link{},
		Images:   []core.Image{},
	}

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := int(goquery.NodeName(s)[1] - '0')
		out.Headings = append(out.Headings, core.Heading{Level: level, Text: collapse(s.Text())})
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		out.Links = append(out.Links, core.Link{Text: collapse(s.Text()), Href: href})
	})

	doc.Find(".bili-dyn-pic").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Find("img").First().Attr("src")
		style, _ := s.Attr("style")
		out.Images = append(out.Images, core.Image{
			Src:    src,
			Width:  styleValue(style, "width"),
			Height: styleValue(style, "height"),
		})
	})

	out.CodeBlocks = doc.Find("pre").Length()
	out.Lists = doc.Find("ul, ol").Length()
	out.Blockquotes = doc.Find("blockquote").Length()
	out.Rules = doc.Find("figure.opus-para-line").Length()

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelectors).AfterHtml("\n")
	out.Text = collapse(doc.Text())

	return out, nil
}

// collapse folds runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// styleValue reads one declaration from an inline style attribute.
func styleValue(style, prop string) string {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(name) == prop {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Package core defines the pipeline interfaces for opuspipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"

	"github.com/gaurav-prasanna/opuspipe/core/opus"
)

// Metadata describes a rendered opus.
type Metadata struct {
	ID          string `json:"id" yaml:"id"`
	URL         string `json:"url" yaml:"url"`
	Title       string `json:"title" yaml:"title"`
	Author      string `json:"author" yaml:"author"`
	AuthorID    string `json:"author_id,omitempty" yaml:"author_id,omitempty"`
	PublishedAt string `json:"published_at,omitempty" yaml:"published_at,omitempty"` // ISO8601
	FetchedAt   string `json:"fetched_at" yaml:"fetched_at"`                         // ISO8601
}

// Heading represents a single heading found in the rendered fragment.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link represents a hyperlink found in the rendered fragment.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Image represents a gallery image found in the rendered fragment.
type Image struct {
	Src    string `json:"src"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// Outline holds structural information parsed from a rendered fragment.
type Outline struct {
	Headings    []Heading `json:"headings"`
	Links       []Link    `json:"links"`
	Images      []Image   `json:"images"`
	CodeBlocks  int       `json:"code_blocks"`
	Lists       int       `json:"lists"`
	Blockquotes int       `json:"blockquotes"`
	Rules       int       `json:"rules"`
	Text        string    `json:"text"`
}

// PageJSON is the complete JSON output for a single opus.
type PageJSON struct {
	Metadata Metadata `json:"metadata"`
	Outline  Outline  `json:"outline"`
	HTML     string   `json:"html"`
	Markdown string   `json:"markdown"`
}

// Fetcher retrieves an opus detail by id.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (*opus.Detail, error)
}

// Extractor builds a structural outline from a rendered fragment.
type Extractor interface {
	Extract(fragment string) (*Outline, error)
}

// Normalizer converts a rendered fragment into Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Renderer converts a rendered fragment (and metadata) into a final output format.
type Renderer interface {
	Render(fragment string, meta Metadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

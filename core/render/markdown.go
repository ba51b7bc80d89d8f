package render

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/gaurav-prasanna/opuspipe/core"
)

// MarkdownRenderer converts the fragment to Markdown and prefixes it with
// the metadata as YAML front matter.
type MarkdownRenderer struct {
	normalizer core.Normalizer
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer(n core.Normalizer) *MarkdownRenderer {
	return &MarkdownRenderer{normalizer: n}
}

// Render returns front matter followed by the Markdown body.
func (r *MarkdownRenderer) Render(fragment string, meta core.Metadata) ([]byte, error) {
	body, err := r.normalizer.Normalize(fragment)
	if err != nil {
		return nil, fmt.Errorf("normalizing fragment: %w", err)
	}
	front, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(front)
	buf.WriteString("---\n\n")
	if meta.Title != "" {
		buf.WriteString("# " + meta.Title + "\n\n")
	}
	if body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

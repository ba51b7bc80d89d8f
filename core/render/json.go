package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/opuspipe/core"
)

// JSONRenderer produces structured JSON: metadata, the fragment outline,
// the fragment itself and its Markdown form.
type JSONRenderer struct {
	extractor  core.Extractor
	normalizer core.Normalizer
}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer(e core.Extractor, n core.Normalizer) *JSONRenderer {
	return &JSONRenderer{extractor: e, normalizer: n}
}

// Render converts the fragment and metadata into core.PageJSON.
func (r *JSONRenderer) Render(fragment string, meta core.Metadata) ([]byte, error) {
	outline, err := r.extractor.Extract(fragment)
	if err != nil {
		return nil, fmt.Errorf("extracting outline: %w", err)
	}
	markdown, err := r.normalizer.Normalize(fragment)
	if err != nil {
		return nil, fmt.Errorf("normalizing fragment: %w", err)
	}

	page := core.PageJSON{
		Metadata: meta,
		Outline:  *outline,
		HTML:     fragment,
		Markdown: markdown,
	}

	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// Package render provides output renderers for the opuspipe pipeline.
// Every renderer starts from the HTML fragment produced by htmlrender.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/gaurav-prasanna/opuspipe/core"
)

// DefaultMaxWidth is the width of the content column in pixels.
const DefaultMaxWidth = 708

// DefaultStylesheets style the scoped opus markup.
var DefaultStylesheets = []string{
	"https://s1.hdslb.com/bfs/static/stone-free/opus-detail/css/opus-detail.0.cfe8274d62b9ef5e70e578525ae89e1f70da8c84.css",
	"https://s1.hdslb.com/bfs/static/stone-free/opus-detail/css/opus-detail.1.cfe8274d62b9ef5e70e578525ae89e1f70da8c84.css",
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{range .Stylesheets}}<link rel="stylesheet" href="{{.}}">
{{end}}</head>
<body>
<div class="opus-module-content opus-paragraph-children" style="{{.WrapperStyle}}">{{.Content}}</div>
</body>
</html>
`))

type pageData struct {
	Title        string
	Stylesheets  []string
	WrapperStyle template.CSS
	Content      template.HTML
}

// PageRenderer wraps a fragment in a standalone HTML page.
type PageRenderer struct {
	Stylesheets []string
	MaxWidth    int
}

// NewPageRenderer creates a PageRenderer with the default stylesheets and width.
func NewPageRenderer() *PageRenderer {
	return &PageRenderer{Stylesheets: DefaultStylesheets, MaxWidth: DefaultMaxWidth}
}

// Render produces the full page. The fragment is trusted markup and is
// inserted unescaped.
func (r *PageRenderer) Render(fragment string, meta core.Metadata) ([]byte, error) {
	width := r.MaxWidth
	if width <= 0 {
		width = DefaultMaxWidth
	}
	title := meta.Title
	if title == "" {
		title = "opus " + meta.ID
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Title:        title,
		Stylesheets:  r.Stylesheets,
		WrapperStyle: template.CSS("max-width: " + strconv.Itoa(width) + "px; margin: 0 auto;"),
		Content:      template.HTML(fragment),
	})
	if err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for HTML pages.
func (r *PageRenderer) Extension() string {
	return ".html"
}

// FragmentRenderer writes the fragment as-is.
type FragmentRenderer struct{}

// NewFragmentRenderer creates a FragmentRenderer.
func NewFragmentRenderer() *FragmentRenderer {
	return &FragmentRenderer{}
}

// Render returns the fragment as bytes (passthrough).
func (r *FragmentRenderer) Render(fragment string, _ core.Metadata) ([]byte, error) {
	return []byte(fragment), nil
}

// Extension returns the file extension for bare fragments.
func (r *FragmentRenderer) Extension() string {
	return ".fragment.html"
}

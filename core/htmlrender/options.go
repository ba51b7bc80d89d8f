// Package htmlrender turns opus content paragraphs into an HTML fragment
// that reproduces the reference page DOM: the same element nesting, class
// names and inline styles, so the platform's own stylesheets apply.
//
// Rendering is a pure function of the paragraphs and the Options. A Renderer
// holds no mutable state and is safe for concurrent use.
package htmlrender

import (
	"math"

	"github.com/gaurav-prasanna/opuspipe/core/opus"
)

// Defaults for Options.
const (
	DefaultScopedAttr         = "data-v-2505e99a"
	DefaultImageDisplayWidth  = 596
	DefaultSrcsetWidth        = 1192
	DefaultH1Size             = 26
	DefaultH2Size             = 22
	DefaultAspectRatio        = 0.56
	DefaultRuleHeight         = 2
	linkCardPlaceholder       = "LINK_CARD"
	defaultHeadingLevel       = 2
	defaultEmojiSize          = 2
	imageHeightRoundingFactor = 1000
	maxCSSFontSize            = 1000
)

// Options controls rendering. Start from DefaultOptions and override
// fields: the zero value leaves HeadingStrong off, and its numeric fields
// fall back to the defaults.
type Options struct {
	// ScopedAttr is stamped as an empty attribute onto text and heading
	// elements. Empty disables it.
	ScopedAttr string
	// ImageDisplayWidth is the container width images are scaled to, in px.
	ImageDisplayWidth float64
	// SrcsetWidth is the width requested from the image CDN, in px.
	SrcsetWidth int
	// H1Size and H2Size are the font sizes at which a text paragraph is
	// promoted to a heading. Both are inclusive.
	H1Size float64
	H2Size float64
	// HeadingStrong wraps heading content in <strong>.
	HeadingStrong bool
	// DefaultAspectRatio is height/width for images without dimensions.
	DefaultAspectRatio float64
	// DefaultRuleHeight is the divider height when none is declared, in px.
	DefaultRuleHeight float64
}

// DefaultOptions returns the options matching the reference page.
func DefaultOptions() Options {
	return Options{
		ScopedAttr:         DefaultScopedAttr,
		ImageDisplayWidth:  DefaultImageDisplayWidth,
		SrcsetWidth:        DefaultSrcsetWidth,
		H1Size:             DefaultH1Size,
		H2Size:             DefaultH2Size,
		HeadingStrong:      true,
		DefaultAspectRatio: DefaultAspectRatio,
		DefaultRuleHeight:  DefaultRuleHeight,
	}
}

// normalized replaces non-finite and non-positive numbers with defaults so
// no NaN or Inf reaches emitted CSS.
func (o Options) normalized() Options {
	o.ImageDisplayWidth = positiveOr(o.ImageDisplayWidth, DefaultImageDisplayWidth)
	if o.SrcsetWidth <= 0 {
		o.SrcsetWidth = DefaultSrcsetWidth
	}
	o.H1Size = positiveOr(o.H1Size, DefaultH1Size)
	o.H2Size = positiveOr(o.H2Size, DefaultH2Size)
	o.DefaultAspectRatio = positiveOr(o.DefaultAspectRatio, DefaultAspectRatio)
	o.DefaultRuleHeight = positiveOr(o.DefaultRuleHeight, DefaultRuleHeight)
	return o
}

func positiveOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}
	return v
}

// Renderer renders paragraphs and inline nodes with fixed Options.
type Renderer struct {
	opts Options
	attr string // pre-rendered scoped attribute, with leading space
}

// New returns a Renderer for opts.
func New(opts Options) *Renderer {
	opts = opts.normalized()
	r := &Renderer{opts: opts}
	if opts.ScopedAttr != "" {
		r.attr = " " + opts.ScopedAttr + `=""`
	}
	return r
}

// Options returns the effective options after normalization.
func (r *Renderer) Options() Options { return r.opts }

// RenderDocument renders paragraphs with a one-off Renderer.
func RenderDocument(paragraphs []opus.Paragraph, opts Options) string {
	return New(opts).Document(paragraphs)
}

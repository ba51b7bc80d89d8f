package htmlrender

import (
	"math"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/opuspipe/core/opus"
)

// Document renders paragraphs in order and concatenates the results.
func (r *Renderer) Document(paragraphs []opus.Paragraph) string {
	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString(r.Paragraph(p))
	}
	return b.String()
}

// Paragraph renders one paragraph. Unknown paragraphs render as the empty
// string so documents with newer paragraph kinds still render.
func (r *Renderer) Paragraph(p opus.Paragraph) string {
	switch p := p.(type) {
	case opus.HeadingParagraph:
		return r.heading(p)
	case opus.TextParagraph:
		return r.text(p)
	case opus.PictureParagraph:
		return r.pictures(p)
	case opus.LineParagraph:
		return r.line(p)
	case opus.BlockquoteParagraph:
		return r.blockquote(p)
	case opus.ListParagraph:
		return r.list(p)
	case opus.LinkCardParagraph:
		return linkCard(p)
	case opus.CodeParagraph:
		return code(p)
	}
	return ""
}

func (r *Renderer) heading(p opus.HeadingParagraph) string {
	level := p.Level
	if level == 0 {
		level = defaultHeadingLevel
	}
	level = min(6, max(1, level))
	return r.block("h"+strconv.Itoa(level), p.Align, r.Nodes(p.Nodes, true))
}

// text promotes large-font paragraphs to h1/h2. The high threshold is
// checked first and both comparisons are inclusive.
func (r *Renderer) text(p opus.TextParagraph) string {
	tag := r.promotedTag(MaxFontSize(p.Nodes))
	return r.block(tag, p.Align, r.Nodes(p.Nodes, tag != "p"))
}

func (r *Renderer) promotedTag(maxFont float64) string {
	switch {
	case maxFont >= r.opts.H1Size:
		return "h1"
	case maxFont >= r.opts.H2Size:
		return "h2"
	}
	return "p"
}

// MaxFontSize returns the largest declared font size among the word nodes
// of a run, or 0 when none declares one.
func MaxFontSize(nodes []opus.Node) float64 {
	var maxFont float64
	for _, n := range nodes {
		if w, ok := n.(opus.WordNode); ok {
			maxFont = max(maxFont, w.FontSize.Float())
		}
	}
	return maxFont
}

// block emits <tag style="text-align:…" scoped>inner</tag>.
func (r *Renderer) block(tag string, align opus.Align, inner string) string {
	return "<" + tag + alignStyle(align.CSS()) + r.attr + ">" + inner + "</" + tag + ">"
}

func (r *Renderer) pictures(p opus.PictureParagraph) string {
	if len(p.Pictures) == 0 {
		return ""
	}
	class := "opus-para-pic"
	if p.Align == opus.AlignCenter {
		class += " center"
	}
	var b strings.Builder
	for _, pic := range p.Pictures {
		r.picture(&b, pic, class)
	}
	return b.String()
}

// scaleImage fits pic to the display width. Missing dimensions fall back to
// the display width and the default aspect ratio. The height is rounded to
// three decimals. Dimensions that overflow the arithmetic count as missing.
func (r *Renderer) scaleImage(pic opus.Picture) (scale, height float64) {
	display := r.opts.ImageDisplayWidth
	fallback := display * r.opts.DefaultAspectRatio

	scale = 1
	if w := pic.Width.Float(); w > 0 {
		if s := display / w; finite(s) && s > 0 {
			scale = s
		}
	}
	height = fallback
	if h := pic.Height.Float(); h > 0 {
		height = h
	}

	height = roundHeight(height * scale)
	if !finite(height) {
		height = roundHeight(fallback)
	}
	return scale, height
}

func roundHeight(h float64) float64 {
	return math.Round(h*imageHeightRoundingFactor) / imageHeightRoundingFactor
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (r *Renderer) picture(b *strings.Builder, pic opus.Picture, class string) {
	_, height := r.scaleImage(pic)
	avif := escapeHTML(sizedImageURL(pic.URL, r.opts.SrcsetWidth, "avif"))
	webp := escapeHTML(sizedImageURL(pic.URL, r.opts.SrcsetWidth, "webp"))

	b.WriteString(`<div class="` + class + `">`)
	b.WriteString(`<div class="bili-dyn-pic" style="width: ` + formatNumber(r.opts.ImageDisplayWidth) +
		`px; height: ` + formatNumber(height) + `px;">`)
	b.WriteString(`<div class="bili-dyn-pic__img">`)
	b.WriteString(`<div class="b-img">`)
	b.WriteString(`<picture class="b-img__inner">`)
	b.WriteString(`<source type="image/avif" srcset="` + avif + `">`)
	b.WriteString(`<source type="image/webp" srcset="` + webp + `">`)
	b.WriteString(`<img src="` + webp + `" loading="lazy" onload="bmgOnLoad(this)" onerror="bmgOnError(this)"` +
		` data-onload="bmgCmptOnload" data-onerror="bmgCmptOnerror">`)
	b.WriteString(`</picture>`)
	b.WriteString(`</div> <!---->`)
	b.WriteString(`</div> <!---->`)
	b.WriteString(`</div>`)
	b.WriteString(`</div>`)
}

func (r *Renderer) line(p opus.LineParagraph) string {
	height := r.opts.DefaultRuleHeight
	src := ""
	if p.Pic != nil {
		if h := p.Pic.Height.Float(); h > 0 {
			height = h
		}
		src = protocolRelative(p.Pic.URL)
	}
	maxHeight := `style="max-height:` + formatNumber(height) + `px;"`
	return `<figure class="opus-para-line" ` + maxHeight + `>` +
		`<img alt="cut-off" src="` + escapeHTML(src) + `" ` + maxHeight + `></figure>`
}

func (r *Renderer) blockquote(p opus.BlockquoteParagraph) string {
	return r.block("blockquote", p.Align, r.Nodes(p.Nodes, false))
}

func (r *Renderer) list(p opus.ListParagraph) string {
	tag := "ul"
	if p.Ordered {
		tag = "ol"
	}
	var b strings.Builder
	b.WriteString("<" + tag + alignStyle(p.Align.CSS()) + ">")
	for _, item := range p.Items {
		b.WriteString("<li>")
		b.WriteString(r.Nodes(item.Nodes, false))
		b.WriteString("</li>")
	}
	b.WriteString("</" + tag + ">")
	return b.String()
}

func linkCard(p opus.LinkCardParagraph) string {
	href, label := "#", linkCardPlaceholder
	if p.Card != nil {
		if p.Card.JumpURL != "" {
			href = p.Card.JumpURL
		}
		if p.Card.Type != "" {
			label = p.Card.Type
		}
	}
	return "<div" + alignStyle(p.Align.CSS()) + ">" + anchor(href, escapeHTML(label), true) + "</div>"
}

// code keeps newlines literal; whitespace is significant inside <pre>.
func code(p opus.CodeParagraph) string {
	lang := ""
	if p.Lang != "" {
		lang = ` data-lang="` + escapeHTML(p.Lang) + `"`
	}
	return "<pre" + alignStyle(p.Align.CSS()) + "><code" + lang + ">" + escapeHTML(p.Content) + "</code></pre>"
}

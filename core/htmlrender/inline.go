package htmlrender

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/opuspipe/core/opus"
)

// Platform URLs for typed references.
const (
	profileURL    = "https://space.bilibili.com/"
	searchURL     = "https://search.bilibili.com/all?keyword="
	videoURL      = "https://www.bilibili.com/video/"
	articleURL    = "https://www.bilibili.com/read/cv"
	defaultScheme = "https://"
)

// styleDecls maps word style flags to CSS, in emission order.
var styleDecls = [...]struct {
	flag opus.StyleFlag
	decl string
}{
	{opus.Bold, "font-weight:700"},
	{opus.Italic, "font-style:italic"},
	{opus.Underline, "text-decoration:underline"},
	{opus.Strikethrough, "text-decoration:line-through"},
}

var (
	bvPattern     = regexp.MustCompile(`BV[0-9A-Za-z]+`)
	digitsPattern = regexp.MustCompile(`\d+`)
	nonDigits     = regexp.MustCompile(`\D+`)
	httpPrefix    = regexp.MustCompile(`(?i)^https?:`)
)

// Nodes renders an inline run. Heading runs get the strong wrapper when the
// HeadingStrong option is on.
func (r *Renderer) Nodes(nodes []opus.Node, asHeading bool) string {
	if len(nodes) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(r.Inline(n, asHeading))
	}
	return b.String()
}

// Inline renders one node. Unknown nodes render as the empty string.
func (r *Renderer) Inline(node opus.Node, asHeading bool) string {
	strong := asHeading && r.opts.HeadingStrong
	switch n := node.(type) {
	case opus.WordNode:
		return r.word(n, strong)
	case opus.RichNode:
		return rich(n, strong)
	case opus.FormulaNode:
		return formula(n)
	}
	return ""
}

func (r *Renderer) word(w opus.WordNode, strong bool) string {
	var b strings.Builder
	b.WriteString("<span")
	b.WriteString(r.attr)
	if style := wordCSS(w); style != "" {
		b.WriteString(` style="`)
		b.WriteString(escapeHTML(style))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	b.WriteString(textWithBreaks(w.Words))
	b.WriteString("</span>")
	return wrapStrong(b.String(), strong)
}

func wordCSS(w opus.WordNode) string {
	decls := make([]string, 0, 8)
	if w.Color != "" {
		decls = append(decls, "color:"+w.Color)
	}
	if size := w.FontSize.Float(); size > 0 && size <= maxCSSFontSize {
		decls = append(decls, "font-size:"+formatNumber(size)+"px")
	}
	for _, sd := range styleDecls {
		if w.Style.Flags.Has(sd.flag) {
			decls = append(decls, sd.decl)
		}
	}
	if w.Style.LineHeight != "" {
		decls = append(decls, "line-height:"+w.Style.LineHeight)
	}
	if w.Style.LetterSpacing != "" {
		decls = append(decls, "letter-spacing:"+w.Style.LetterSpacing)
	}
	return strings.Join(decls, ";")
}

func rich(n opus.RichNode, strong bool) string {
	text := n.Label()
	switch n.Subtype() {
	case opus.RichEmoji:
		return emoji(n.Emoji)
	case opus.RichMention:
		mid := nonDigits.ReplaceAllString(n.RID.String(), "")
		label := text
		if label == "" {
			label = "@"
		}
		return wrapStrong(anchor(profileURL+mid, escapeHTML(label), true), strong)
	case opus.RichTopic:
		topic := strings.Trim(text, "#")
		href := n.JumpURL
		if href == "" {
			href = searchURL + encodeURIComponent(topic)
		}
		return wrapStrong(anchor(href, escapeHTML("#"+topic), true), strong)
	case opus.RichWeb:
		href := text
		if !httpPrefix.MatchString(text) {
			href = defaultScheme + strings.TrimLeft(text, "/")
		}
		return wrapStrong(anchor(href, escapeHTML(text), true), strong)
	case opus.RichMail:
		return wrapStrong(anchor("mailto:"+text, escapeHTML(text), false), strong)
	case opus.RichVideoBV:
		return wrapStrong(anchor(videoURL+firstMatch(bvPattern, text), escapeHTML(text), true), strong)
	case opus.RichVideoAV:
		return wrapStrong(anchor(videoURL+"av"+firstMatch(digitsPattern, text), escapeHTML(text), true), strong)
	case opus.RichArticleCV:
		return wrapStrong(anchor(articleURL+firstMatch(digitsPattern, text), escapeHTML(text), true), strong)
	}
	if n.JumpURL != "" {
		label := text
		if label == "" {
			label = n.JumpURL
		}
		return wrapStrong(anchor(n.JumpURL, escapeHTML(label), true), strong)
	}
	return wrapStrong(textWithBreaks(text), strong)
}

// firstMatch returns the first match of re in s, or s itself.
func firstMatch(re *regexp.Regexp, s string) string {
	if m := re.FindString(s); m != "" {
		return m
	}
	return s
}

// emoji renders an inline icon sized by its size code, or just the alt
// text when no image is available.
func emoji(e *opus.Emoji) string {
	if e == nil {
		return ""
	}
	alt := escapeHTML(e.Text)
	src := e.Source()
	if src == "" {
		return alt
	}
	size := e.Size.Float()
	if size == 0 {
		size = defaultEmojiSize
	}
	em := 1.25
	switch size {
	case 1:
		em = 1.0
	case 3:
		em = 1.5
	}
	dim := formatNumber(em) + "em"
	return `<img src="` + escapeHTML(protocolRelative(src)) + `" alt="` + alt +
		`" style="width:` + dim + ";height:" + dim + `;vertical-align:middle;">`
}

func formula(n opus.FormulaNode) string {
	latex := escapeHTML(n.LatexContent)
	return `<span data-latex="` + latex + `">` + latex + `</span>`
}

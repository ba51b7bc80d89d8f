package htmlrender

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gaurav-prasanna/opuspipe/core/opus"
)

func sized(text string, size float64) opus.WordNode {
	return opus.WordNode{Words: text, FontSize: opus.Number(size)}
}

func TestTextParagraphHeadingPromotion(t *testing.T) {
	r := New(DefaultOptions())

	tests := []struct {
		name string
		size float64
		want string
	}{
		{"above h1 threshold", 30, `<h1 style="text-align:left;" data-v-2505e99a=""><strong><span data-v-2505e99a="" style="font-size:30px">x</span></strong></h1>`},
		{"h1 threshold is inclusive", 26, `<h1 style="text-align:left;" data-v-2505e99a=""><strong><span data-v-2505e99a="" style="font-size:26px">x</span></strong></h1>`},
		{"between thresholds", 24, `<h2 style="text-align:left;" data-v-2505e99a=""><strong><span data-v-2505e99a="" style="font-size:24px">x</span></strong></h2>`},
		{"h2 threshold is inclusive", 22, `<h2 style="text-align:left;" data-v-2505e99a=""><strong><span data-v-2505e99a="" style="font-size:22px">x</span></strong></h2>`},
		{"just below h2", 21.9, `<p style="text-align:left;" data-v-2505e99a=""><span data-v-2505e99a="" style="font-size:21.9px">x</span></p>`},
		{"body text", 18, `<p style="text-align:left;" data-v-2505e99a=""><span data-v-2505e99a="" style="font-size:18px">x</span></p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := opus.TextParagraph{Nodes: opus.Nodes{sized("x", tt.size)}}
			assert.Equal(t, tt.want, r.Paragraph(p))
		})
	}
}

func TestTextParagraphUsesMaximumFontSize(t *testing.T) {
	r := New(DefaultOptions())

	p := opus.TextParagraph{
		Format: opus.Format{Align: opus.AlignCenter},
		Nodes: opus.Nodes{
			sized("small", 15),
			opus.RichNode{Type: "RICH_TEXT_NODE_TYPE_MAIL", Text: "m@x.io"},
			sized("big", 24),
		},
	}
	want := `<h2 style="text-align:center;" data-v-2505e99a="">` +
		`<strong><span data-v-2505e99a="" style="font-size:15px">small</span></strong>` +
		`<strong><a href="mailto:m@x.io">m@x.io</a></strong>` +
		`<strong><span data-v-2505e99a="" style="font-size:24px">big</span></strong></h2>`
	assert.Equal(t, want, r.Paragraph(p))
	assert.Equal(t, 24.0, MaxFontSize(p.Nodes))
	assert.Equal(t, 0.0, MaxFontSize(nil))
}

func TestTextParagraphCustomThresholds(t *testing.T) {
	opts := DefaultOptions()
	opts.H1Size = 40
	opts.H2Size = 30
	opts.HeadingStrong = false
	r := New(opts)

	assert.Equal(t, `<p style="text-align:right;" data-v-2505e99a=""><span data-v-2505e99a="" style="font-size:26px">x</span></p>`,
		r.Paragraph(opus.TextParagraph{Format: opus.Format{Align: opus.AlignEnd}, Nodes: opus.Nodes{sized("x", 26)}}))
	assert.Equal(t, `<h2 style="text-align:left;" data-v-2505e99a=""><span data-v-2505e99a="" style="font-size:30px">x</span></h2>`,
		r.Paragraph(opus.TextParagraph{Nodes: opus.Nodes{sized("x", 30)}}))
}

func TestTextParagraphWithMalformedNode(t *testing.T) {
	r := New(DefaultOptions())

	p := opus.TextParagraph{Nodes: opus.Nodes{opus.UnknownNode{Type: "TEXT_NODE_TYPE_WORD"}}}
	assert.Equal(t, `<p style="text-align:left;" data-v-2505e99a=""></p>`, r.Paragraph(p))
}

func TestHeadingParagraph(t *testing.T) {
	r := New(DefaultOptions())

	tests := []struct {
		name  string
		level int
		tag   string
	}{
		{"missing level defaults to h2", 0, "h2"},
		{"level kept", 3, "h3"},
		{"clamped high", 9, "h6"},
		{"clamped low", -4, "h1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := opus.HeadingParagraph{
				Format: opus.Format{Align: opus.AlignCenter},
				Level:  tt.level,
				Nodes:  opus.Nodes{opus.WordNode{Words: "T"}},
			}
			want := `<` + tt.tag + ` style="text-align:center;" data-v-2505e99a=""><strong><span data-v-2505e99a="">T</span></strong></` + tt.tag + `>`
			assert.Equal(t, want, r.Paragraph(p))
		})
	}
}

func TestHeadingLevelOutOfRange(t *testing.T) {
	p := opus.DecodeParagraph([]byte(`{"para_type":8,"heading":{"level":1e20,"nodes":[{"type":"TEXT_NODE_TYPE_WORD","word":{"words":"T"}}]}}`))
	assert.Equal(t, `<h6 style="text-align:left;" data-v-2505e99a=""><strong><span data-v-2505e99a="">T</span></strong></h6>`,
		New(DefaultOptions()).Paragraph(p))
}

func TestScaleImage(t *testing.T) {
	r := New(DefaultOptions())

	tests := []struct {
		name       string
		pic        opus.Picture
		wantScale  float64
		wantHeight float64
	}{
		{"double width", opus.Picture{Width: 1192, Height: 600}, 0.5, 300},
		{"display width", opus.Picture{Width: 596, Height: 400}, 1, 400},
		{"no dimensions", opus.Picture{}, 1, 333.76},
		{"no height", opus.Picture{Width: 1192}, 0.5, 166.88},
		{"rounded to three places", opus.Picture{Width: 1000, Height: 333}, 0.596, 198.468},
		{"negative is absent", opus.Picture{Width: -10, Height: -1}, 1, 333.76},
		{"subnormal width overflows scale", opus.Picture{Width: 1e-320, Height: 100}, 1, 100},
		{"huge height overflows rounding", opus.Picture{Width: 1192, Height: 1e306}, 0.5, 333.76},
		{"huge height at display width", opus.Picture{Height: 1e308}, 1, 333.76},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale, height := r.scaleImage(tt.pic)
			assert.InDelta(t, tt.wantScale, scale, 1e-9)
			assert.InDelta(t, tt.wantHeight, height, 1e-9)
		})
	}
}

func TestPictureParagraph(t *testing.T) {
	r := New(DefaultOptions())

	p := opus.PictureParagraph{
		Pictures: []opus.Picture{{URL: "https://i0.hdslb.com/bfs/new_dyn/a.png?x=1", Width: 1192, Height: 600}},
	}
	want := `<div class="opus-para-pic">` +
		`<div class="bili-dyn-pic" style="width: 596px; height: 300px;">` +
		`<div class="bili-dyn-pic__img"><div class="b-img"><picture class="b-img__inner">` +
		`<source type="image/avif" srcset="//i0.hdslb.com/bfs/new_dyn/a.png@1192w.avif">` +
		`<source type="image/webp" srcset="//i0.hdslb.com/bfs/new_dyn/a.png@1192w.webp">` +
		`<img src="//i0.hdslb.com/bfs/new_dyn/a.png@1192w.webp" loading="lazy" onload="bmgOnLoad(this)" onerror="bmgOnError(this)" data-onload="bmgCmptOnload" data-onerror="bmgCmptOnerror">` +
		`</picture></div> <!----></div> <!----></div></div>`
	assert.Equal(t, want, r.Paragraph(p))
}

func TestPictureParagraphExtremeDimensions(t *testing.T) {
	for _, raw := range []string{
		`{"para_type":2,"pic":{"pics":[{"url":"//a/b.png","width":1e-320,"height":100}]}}`,
		`{"para_type":2,"pic":{"pics":[{"url":"//a/b.png","width":1192,"height":1e306}]}}`,
	} {
		t.Run(raw, func(t *testing.T) {
			out := RenderDocument(opus.Paragraphs{opus.DecodeParagraph([]byte(raw))}, DefaultOptions())
			assert.Contains(t, out, `<div class="bili-dyn-pic" style="width: 596px; height: `)
			assert.NotContains(t, out, "Inf")
			assert.NotContains(t, out, "NaN")
		})
	}
}

func TestPictureParagraphCenteredGallery(t *testing.T) {
	r := New(DefaultOptions())

	p := opus.PictureParagraph{
		Format:   opus.Format{Align: opus.AlignCenter},
		Pictures: []opus.Picture{{URL: "//a/1.jpg"}, {URL: "//a/2.jpg", Width: 298, Height: 100}},
	}
	got := r.Paragraph(p)
	assert.Equal(t, 2, strings.Count(got, `<div class="opus-para-pic center">`))
	assert.Contains(t, got, `style="width: 596px; height: 333.76px;"`)
	assert.Contains(t, got, `style="width: 596px; height: 200px;"`)
	assert.Contains(t, got, `srcset="//a/2.jpg@1192w.avif"`)
}

func TestPictureParagraphEmpty(t *testing.T) {
	r := New(DefaultOptions())
	assert.Equal(t, "", r.Paragraph(opus.PictureParagraph{}))
}

func TestLineParagraph(t *testing.T) {
	r := New(DefaultOptions())

	assert.Equal(t,
		`<figure class="opus-para-line" style="max-height:2px;"><img alt="cut-off" src="" style="max-height:2px;"></figure>`,
		r.Paragraph(opus.LineParagraph{}))
	assert.Equal(t,
		`<figure class="opus-para-line" style="max-height:2px;"><img alt="cut-off" src="" style="max-height:2px;"></figure>`,
		r.Paragraph(opus.LineParagraph{Pic: &opus.LinePicture{}}))
	assert.Equal(t,
		`<figure class="opus-para-line" style="max-height:4px;"><img alt="cut-off" src="//i0.hdslb.com/line.png" style="max-height:4px;"></figure>`,
		r.Paragraph(opus.LineParagraph{Pic: &opus.LinePicture{URL: "https://i0.hdslb.com/line.png", Height: 4}}))
}

func TestBlockquoteListLinkCardCode(t *testing.T) {
	r := New(DefaultOptions())

	tests := []struct {
		name string
		p    opus.Paragraph
		want string
	}{
		{
			name: "blockquote has no heading wrapper",
			p:    opus.BlockquoteParagraph{Nodes: opus.Nodes{sized("q", 30)}},
			want: `<blockquote style="text-align:left;" data-v-2505e99a=""><span data-v-2505e99a="" style="font-size:30px">q</span></blockquote>`,
		},
		{
			name: "ordered list",
			p: opus.ListParagraph{Ordered: true, Items: []opus.ListItem{
				{Nodes: opus.Nodes{opus.WordNode{Words: "one"}}},
				{},
			}},
			want: `<ol style="text-align:left;"><li><span data-v-2505e99a="">one</span></li><li></li></ol>`,
		},
		{
			name: "unordered list",
			p:    opus.ListParagraph{Format: opus.Format{Align: opus.AlignCenter}},
			want: `<ul style="text-align:center;"></ul>`,
		},
		{
			name: "link card defaults",
			p:    opus.LinkCardParagraph{},
			want: `<div style="text-align:left;"><a href="#" target="_blank">LINK_CARD</a></div>`,
		},
		{
			name: "link card",
			p:    opus.LinkCardParagraph{Card: &opus.LinkCard{Type: "LINK_CARD_TYPE_UGC", JumpURL: "https://b23.tv/x?a=1&b=2"}},
			want: `<div style="text-align:left;"><a href="https://b23.tv/x?a=1&amp;b=2" target="_blank">LINK_CARD_TYPE_UGC</a></div>`,
		},
		{
			name: "code keeps newlines",
			p:    opus.CodeParagraph{Lang: "go", Content: "if a < b {\n\treturn\n}"},
			want: "<pre style=\"text-align:left;\"><code data-lang=\"go\">if a &lt; b {\n\treturn\n}</code></pre>",
		},
		{
			name: "code without language",
			p:    opus.CodeParagraph{},
			want: `<pre style="text-align:left;"><code></code></pre>`,
		},
		{
			name: "unknown",
			p:    opus.UnknownParagraph{Type: 42},
			want: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Paragraph(tt.p))
		})
	}
}

func TestDocument(t *testing.T) {
	r := New(DefaultOptions())

	a := opus.TextParagraph{Nodes: opus.Nodes{opus.WordNode{Words: "a"}}}
	unknown := opus.UnknownParagraph{Type: 99}
	b := opus.LineParagraph{}

	assert.Equal(t, "", r.Document(nil))
	assert.Equal(t, "", r.Document([]opus.Paragraph{}))
	assert.Equal(t, r.Document([]opus.Paragraph{a})+r.Document([]opus.Paragraph{b}), r.Document([]opus.Paragraph{a, b}))
	assert.Equal(t, r.Document([]opus.Paragraph{a, b}), r.Document([]opus.Paragraph{a, unknown, b}))
	assert.Equal(t, r.Document([]opus.Paragraph{a, b}), RenderDocument([]opus.Paragraph{a, b}, DefaultOptions()))
}

func TestOptionsNormalized(t *testing.T) {
	r := New(Options{
		ImageDisplayWidth:  math.NaN(),
		SrcsetWidth:        -1,
		H1Size:             math.Inf(1),
		H2Size:             0,
		DefaultAspectRatio: -0.5,
		DefaultRuleHeight:  math.Inf(-1),
	})

	got := r.Options()
	assert.Equal(t, float64(DefaultImageDisplayWidth), got.ImageDisplayWidth)
	assert.Equal(t, DefaultSrcsetWidth, got.SrcsetWidth)
	assert.Equal(t, float64(DefaultH1Size), got.H1Size)
	assert.Equal(t, float64(DefaultH2Size), got.H2Size)
	assert.Equal(t, DefaultAspectRatio, got.DefaultAspectRatio)
	assert.Equal(t, float64(DefaultRuleHeight), got.DefaultRuleHeight)

	// Zero-value options disable the scoped attribute and the heading wrapper.
	got2 := New(Options{}).Paragraph(opus.TextParagraph{Nodes: opus.Nodes{sized("x", 30)}})
	assert.Equal(t, `<h1 style="text-align:left;"><span style="font-size:30px">x</span></h1>`, got2)

	defaults := New(DefaultOptions()).Paragraph(opus.TextParagraph{Nodes: opus.Nodes{sized("x", 30)}})
	assert.True(t, DefaultOptions().HeadingStrong)
	assert.Equal(t, `<h1 style="text-align:left;" data-v-2505e99a=""><strong><span data-v-2505e99a="" style="font-size:30px">x</span></strong></h1>`, defaults)
}

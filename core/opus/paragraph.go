package opus

import (
	"encoding/json"
)

// ParagraphKind is the wire discriminator (para_type) of a paragraph.
type ParagraphKind int

// Known paragraph kinds.
const (
	KindUnknown    ParagraphKind = 0
	KindText       ParagraphKind = 1
	KindPictures   ParagraphKind = 2
	KindLine       ParagraphKind = 3
	KindBlockquote ParagraphKind = 4
	KindList       ParagraphKind = 5
	KindLinkCard   ParagraphKind = 6
	KindCode       ParagraphKind = 7
	KindHeading    ParagraphKind = 8
)

// Align is the horizontal alignment of a paragraph.
type Align int

// Alignments. The zero value is AlignStart.
const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// CSS returns the text-align keyword for a.
func (a Align) CSS() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "right"
	}
	return "left"
}

func alignFromWire(n Number) Align {
	switch n {
	case 1:
		return AlignCenter
	case 2:
		return AlignEnd
	}
	return AlignStart
}

// Paragraph is one block of the content module. The set of implementations
// is closed; anything the decoder does not recognise is an UnknownParagraph.
type Paragraph interface {
	Kind() ParagraphKind
	Alignment() Align
	paragraph()
}

// Format carries the layout attributes shared by every paragraph kind.
type Format struct {
	Align Align
}

// Alignment returns the paragraph alignment.
func (f Format) Alignment() Align { return f.Align }

// TextParagraph is a run of inline nodes.
type TextParagraph struct {
	Format
	Nodes Nodes
}

// HeadingParagraph is an explicit heading. Level is stored as sent; the
// renderer clamps it.
type HeadingParagraph struct {
	Format
	Level int
	Nodes Nodes
}

// Picture is one image of a gallery.
type Picture struct {
	URL    string `json:"url"`
	Width  Number `json:"width"`
	Height Number `json:"height"`
}

// PictureParagraph is an image gallery.
type PictureParagraph struct {
	Format
	Style    int
	Pictures []Picture
}

// LinePicture is the optional divider graphic of a rule.
type LinePicture struct {
	URL    string `json:"url"`
	Height Number `json:"height"`
}

// LineParagraph is a horizontal rule.
type LineParagraph struct {
	Format
	Pic *LinePicture
}

// BlockquoteParagraph is quoted inline content.
type BlockquoteParagraph struct {
	Format
	Nodes Nodes
}

// ListItem is one entry of a list.
type ListItem struct {
	Level Number `json:"level"`
	Order Number `json:"order"`
	Nodes Nodes  `json:"nodes"`
}

// ListParagraph is an ordered or unordered list.
type ListParagraph struct {
	Format
	Ordered bool
	Items   []ListItem
}

// LinkCard is the card attached to a link-card paragraph.
type LinkCard struct {
	Type    string `json:"type"`
	JumpURL string `json:"jump_url"`
}

// LinkCardParagraph is a link preview card.
type LinkCardParagraph struct {
	Format
	Card *LinkCard
}

// CodeParagraph is a block of source code.
type CodeParagraph struct {
	Format
	Content string
	Lang    string
}

// UnknownParagraph is any paragraph the decoder could not map to a known
// kind. Type holds the raw para_type when one was readable.
type UnknownParagraph struct {
	Format
	Type int
	Raw  json.RawMessage
}

func (TextParagraph) Kind() ParagraphKind       { return KindText }
func (HeadingParagraph) Kind() ParagraphKind    { return KindHeading }
func (PictureParagraph) Kind() ParagraphKind    { return KindPictures }
func (LineParagraph) Kind() ParagraphKind       { return KindLine }
func (BlockquoteParagraph) Kind() ParagraphKind { return KindBlockquote }
func (ListParagraph) Kind() ParagraphKind       { return KindList }
func (LinkCardParagraph) Kind() ParagraphKind   { return KindLinkCard }
func (CodeParagraph) Kind() ParagraphKind       { return KindCode }
func (UnknownParagraph) Kind() ParagraphKind    { return KindUnknown }

func (TextParagraph) paragraph()       {}
func (HeadingParagraph) paragraph()    {}
func (PictureParagraph) paragraph()    {}
func (LineParagraph) paragraph()       {}
func (BlockquoteParagraph) paragraph() {}
func (ListParagraph) paragraph()       {}
func (LinkCardParagraph) paragraph()   {}
func (CodeParagraph) paragraph()       {}
func (UnknownParagraph) paragraph()    {}

type wireText struct {
	Nodes Nodes `json:"nodes"`
}

type wireParagraph struct {
	ParaType Number    `json:"para_type"`
	Align    Number    `json:"align"`
	Text     *wireText `json:"text"`
	Heading  *struct {
		Level Number `json:"level"`
		Nodes Nodes  `json:"nodes"`
	} `json:"heading"`
	Pic *struct {
		Style Number    `json:"style"`
		Pics  []Picture `json:"pics"`
	} `json:"pic"`
	Line *struct {
		Pic *LinePicture `json:"pic"`
	} `json:"line"`
	List *struct {
		Style Number     `json:"style"`
		Items []ListItem `json:"items"`
	} `json:"list"`
	LinkCard *struct {
		Card *LinkCard `json:"card"`
	} `json:"link_card"`
	Code *struct {
		Content string `json:"content"`
		Lang    string `json:"lang"`
	} `json:"code"`
}

// DecodeParagraph decodes a single paragraph. It never fails: malformed
// input, unknown kinds and known kinds missing their required payload all
// yield an UnknownParagraph.
func DecodeParagraph(data []byte) Paragraph {
	var w wireParagraph
	if err := json.Unmarshal(data, &w); err != nil {
		return UnknownParagraph{Raw: data}
	}
	f := Format{Align: alignFromWire(w.Align)}
	kind := ParagraphKind(w.ParaType.Int())

	switch kind {
	case KindText:
		if w.Text != nil {
			return TextParagraph{Format: f, Nodes: w.Text.Nodes}
		}
	case KindHeading:
		if w.Heading != nil {
			return HeadingParagraph{Format: f, Level: w.Heading.Level.Int(), Nodes: w.Heading.Nodes}
		}
	case KindPictures:
		p := PictureParagraph{Format: f}
		if w.Pic != nil {
			p.Style = w.Pic.Style.Int()
			p.Pictures = w.Pic.Pics
		}
		return p
	case KindLine:
		p := LineParagraph{Format: f}
		if w.Line != nil {
			p.Pic = w.Line.Pic
		}
		return p
	case KindBlockquote:
		if w.Text != nil {
			return BlockquoteParagraph{Format: f, Nodes: w.Text.Nodes}
		}
	case KindList:
		p := ListParagraph{Format: f}
		if w.List != nil {
			p.Ordered = w.List.Style == 1
			p.Items = w.List.Items
		}
		return p
	case KindLinkCard:
		p := LinkCardParagraph{Format: f}
		if w.LinkCard != nil {
			p.Card = w.LinkCard.Card
		}
		return p
	case KindCode:
		p := CodeParagraph{Format: f}
		if w.Code != nil {
			p.Content = w.Code.Content
			p.Lang = w.Code.Lang
		}
		return p
	}
	return UnknownParagraph{Format: f, Type: int(kind), Raw: data}
}

// Paragraphs is the ordered paragraph sequence of a content module.
type Paragraphs []Paragraph

// UnmarshalJSON decodes each paragraph independently. A value that is not
// an array decodes as nil, which Detail.Content reports as missing content.
func (ps *Paragraphs) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil || raws == nil {
		*ps = nil
		return nil
	}
	out := make(Paragraphs, 0, len(raws))
	for _, raw := range raws {
		out = append(out, DecodeParagraph(raw))
	}
	*ps = out
	return nil
}

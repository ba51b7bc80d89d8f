package opus

import (
	"encoding/json"
)

// NodeKind is the wire discriminator of an inline text node.
type NodeKind string

// Known inline node kinds.
const (
	NodeWord    NodeKind = "TEXT_NODE_TYPE_WORD"
	NodeRich    NodeKind = "TEXT_NODE_TYPE_RICH"
	NodeFormula NodeKind = "TEXT_NODE_TYPE_FORMULA"
)

// Node is one inline text node. The set of implementations is closed:
// WordNode, RichNode, FormulaNode and UnknownNode.
type Node interface {
	Kind() NodeKind
	node()
}

// StyleFlag is a set of text decorations carried by a word node.
type StyleFlag uint8

// Style flags, in the order their declarations are emitted.
const (
	Bold StyleFlag = 1 << iota
	Italic
	Underline
	Strikethrough
)

// Has reports whether all bits of flag are set in f.
func (f StyleFlag) Has(flag StyleFlag) bool { return f&flag == flag }

// WordStyle holds the style object of a word node.
type WordStyle struct {
	Flags         StyleFlag
	LineHeight    string
	LetterSpacing string
}

// UnmarshalJSON decodes the loosely typed style object. Unparseable styles
// decode as no style at all.
func (s *WordStyle) UnmarshalJSON(data []byte) error {
	*s = WordStyle{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	if truthy(fields["bold"]) {
		s.Flags |= Bold
	}
	if truthy(fields["italic"]) {
		s.Flags |= Italic
	}
	if truthy(fields["underline"]) {
		s.Flags |= Underline
	}
	if truthy(fields["strike"]) || truthy(fields["strikethrough"]) {
		s.Flags |= Strikethrough
	}
	s.LineHeight = cssValue(fields["lineHeight"])
	s.LetterSpacing = cssValue(fields["letterSpacing"])
	return nil
}

// WordNode is literal text with optional styling.
type WordNode struct {
	Words     string    `json:"words"`
	FontSize  Number    `json:"font_size"`
	FontLevel string    `json:"font_level"`
	Color     string    `json:"color"`
	Style     WordStyle `json:"style"`
}

// RichKind is the subtype of a rich reference node.
type RichKind int

// Rich reference subtypes. RichOther covers every tag not listed here.
const (
	RichOther RichKind = iota
	RichMention
	RichTopic
	RichWeb
	RichMail
	RichVideoBV
	RichVideoAV
	RichArticleCV
	RichEmoji
)

var richKinds = map[string]RichKind{
	"RICH_TEXT_NODE_TYPE_AT":    RichMention,
	"RICH_TEXT_NODE_TYPE_TOPIC": RichTopic,
	"RICH_TEXT_NODE_TYPE_WEB":   RichWeb,
	"RICH_TEXT_NODE_TYPE_MAIL":  RichMail,
	"RICH_TEXT_NODE_TYPE_BV":    RichVideoBV,
	"RICH_TEXT_NODE_TYPE_AV":    RichVideoAV,
	"RICH_TEXT_NODE_TYPE_CV":    RichArticleCV,
	"RICH_TEXT_NODE_TYPE_EMOJI": RichEmoji,
}

// ParseRichKind maps a RICH_TEXT_NODE_TYPE_* tag to its subtype.
func ParseRichKind(tag string) RichKind {
	if k, ok := richKinds[tag]; ok {
		return k
	}
	return RichOther
}

// Emoji is the icon bundle of an emoji reference.
type Emoji struct {
	Text    string `json:"text"`
	Size    Number `json:"size"`
	IconURL string `json:"icon_url"`
	WebpURL string `json:"webp_url"`
	GifURL  string `json:"gif_url"`
	Type    Number `json:"type"`
}

// Source returns the preferred image URL: webp, then static icon, then gif.
func (e *Emoji) Source() string {
	switch {
	case e.WebpURL != "":
		return e.WebpURL
	case e.IconURL != "":
		return e.IconURL
	}
	return e.GifURL
}

// RichNode is a typed reference: a mention, topic, link, video, emoji and so on.
type RichNode struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	OrigText string `json:"orig_text"`
	RID      ID     `json:"rid"`
	JumpURL  string `json:"jump_url"`
	Emoji    *Emoji `json:"emoji"`
}

// Subtype returns the reference subtype parsed from Type.
func (r RichNode) Subtype() RichKind { return ParseRichKind(r.Type) }

// Label returns the display text, falling back to the original text.
func (r RichNode) Label() string {
	if r.Text != "" {
		return r.Text
	}
	return r.OrigText
}

// FormulaNode is a LaTeX source string rendered verbatim.
type FormulaNode struct {
	LatexContent string `json:"latex_content"`
}

// UnknownNode is any node that is not one of the known kinds, or a known
// kind missing its payload. It renders as nothing.
type UnknownNode struct {
	Type string
	Raw  json.RawMessage
}

func (WordNode) Kind() NodeKind    { return NodeWord }
func (RichNode) Kind() NodeKind    { return NodeRich }
func (FormulaNode) Kind() NodeKind { return NodeFormula }
func (n UnknownNode) Kind() NodeKind {
	return NodeKind(n.Type)
}

func (WordNode) node()    {}
func (RichNode) node()    {}
func (FormulaNode) node() {}
func (UnknownNode) node() {}

type wireNode struct {
	Type    string       `json:"type"`
	Word    *WordNode    `json:"word"`
	Rich    *RichNode    `json:"rich"`
	Formula *FormulaNode `json:"formula"`
}

// DecodeNode decodes a single inline node. It never fails: malformed input
// yields an UnknownNode.
func DecodeNode(data []byte) Node {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return UnknownNode{Raw: data}
	}
	switch {
	case w.Type == string(NodeWord) && w.Word != nil:
		return *w.Word
	case w.Type == string(NodeRich) && w.Rich != nil:
		return *w.Rich
	case w.Type == string(NodeFormula) && w.Formula != nil:
		return *w.Formula
	// Untyped or mistyped nodes that still carry a usable payload.
	case w.Word != nil && w.Word.Words != "":
		return *w.Word
	case w.Rich != nil:
		return *w.Rich
	}
	return UnknownNode{Type: w.Type, Raw: data}
}

// Nodes is an ordered run of inline nodes.
type Nodes []Node

// UnmarshalJSON decodes each element independently so one bad node does not
// discard its siblings. A value that is not an array decodes as no nodes.
func (ns *Nodes) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil || raws == nil {
		*ns = nil
		return nil
	}
	out := make(Nodes, 0, len(raws))
	for _, raw := range raws {
		out = append(out, DecodeNode(raw))
	}
	*ns = out
	return nil
}

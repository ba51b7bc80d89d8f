package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/opuspipe/core"
)

const utf8Family = "opus"

var (
	imageRegex        = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRegex         = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	inlineCodeRegex   = regexp.MustCompile("`([^`]+)`")
	italicRegex       = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	numberedItemRegex = regexp.MustCompile(`^\d+\.\s`)
)

// PDFRenderer renders the Markdown form of a fragment as a PDF document.
// Images are not embedded.
type PDFRenderer struct {
	normalizer core.Normalizer
	// FontPath names a TTF font with CJK coverage. Without one the core
	// Helvetica/Courier fonts are used and text is translated to cp1252.
	FontPath string
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer(n core.Normalizer, fontPath string) *PDFRenderer {
	return &PDFRenderer{normalizer: n, FontPath: fontPath}
}

// pdfWriter bundles the document with its font choices.
type pdfWriter struct {
	pdf  *gofpdf.Fpdf
	body string
	mono string
	tr   func(string) string
}

func (w *pdfWriter) font(family, style string, size float64) {
	if family == utf8Family {
		// The UTF-8 font is registered without an italic face.
		style = strings.ReplaceAll(style, "I", "")
	}
	w.pdf.SetFont(family, style, size)
}

func (w *pdfWriter) cell(h float64, text string, fill bool) {
	w.pdf.MultiCell(0, h, w.tr(text), "", "L", fill)
}

func (r *PDFRenderer) newWriter() *pdfWriter {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	w := &pdfWriter{pdf: pdf, body: "Helvetica", mono: "Courier"}
	if r.FontPath != "" {
		pdf.AddUTF8Font(utf8Family, "", r.FontPath)
		pdf.AddUTF8Font(utf8Family, "B", r.FontPath)
		w.body, w.mono = utf8Family, utf8Family
		w.tr = func(s string) string { return s }
	} else {
		w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	return w
}

// Render converts the fragment into PDF bytes.
func (r *PDFRenderer) Render(fragment string, meta core.Metadata) ([]byte, error) {
	markdown, err := r.normalizer.Normalize(fragment)
	if err != nil {
		return nil, fmt.Errorf("normalizing fragment: %w", err)
	}

	w := r.newWriter()
	pdf := w.pdf
	pdf.AddPage()

	if meta.Title != "" {
		w.font(w.body, "B", 18)
		w.cell(8, meta.Title, false)
		pdf.Ln(4)
	}

	w.font(w.body, "I", 9)
	pdf.SetTextColor(100, 100, 100)
	source := "Source: " + meta.URL
	if meta.Author != "" {
		source = meta.Author + " | " + source
	}
	w.cell(5, source, false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	w.markdown(markdown)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// markdown writes the body line by line: fenced code, headings, list items
// and paragraphs.
func (w *pdfWriter) markdown(md string) {
	pdf := w.pdf
	inCodeBlock := false

	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}

		if inCodeBlock {
			w.font(w.mono, "", 9)
			pdf.SetFillColor(245, 245, 245)
			w.cell(4.5, line, true)
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			w.heading(strings.TrimSpace(strings.TrimLeft(trimmed, "# ")), level)
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			w.font(w.body, "", 10)
			w.cell(5, "- "+cleanInlineMarkdown(trimmed[2:]), false)
		case strings.HasPrefix(trimmed, "> "):
			w.font(w.body, "I", 10)
			pdf.SetTextColor(90, 90, 90)
			w.cell(5, cleanInlineMarkdown(strings.TrimLeft(trimmed, "> ")), false)
			pdf.SetTextColor(0, 0, 0)
		case numberedItemRegex.MatchString(trimmed):
			w.font(w.body, "", 10)
			w.cell(5, cleanInlineMarkdown(trimmed), false)
		default:
			if text := cleanInlineMarkdown(line); text != "" {
				w.font(w.body, "", 10)
				w.cell(5, text, false)
			}
		}
	}
}

// heading sets the font size based on heading level and writes text.
func (w *pdfWriter) heading(text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	w.pdf.Ln(4)
	w.font(w.body, "B", size)
	w.cell(size*0.6, cleanInlineMarkdown(text), false)
	w.pdf.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = imageRegex.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicRegex.ReplaceAllString(text, " $1 ")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = linkRegex.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

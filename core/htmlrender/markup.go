package htmlrender

import (
	"regexp"
	"strconv"
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeHTML escapes the five HTML-significant characters.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// textWithBreaks escapes s and turns newlines into <br>.
func textWithBreaks(s string) string {
	if s == "" {
		return ""
	}
	return strings.ReplaceAll(escapeHTML(s), "\n", "<br>")
}

func wrapStrong(html string, enable bool) string {
	if !enable || html == "" {
		return html
	}
	return "<strong>" + html + "</strong>"
}

// anchor builds a link. label must already be escaped.
func anchor(href, label string, newTab bool) string {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(escapeHTML(href))
	b.WriteString(`"`)
	if newTab {
		b.WriteString(` target="_blank"`)
	}
	b.WriteString(">")
	b.WriteString(label)
	b.WriteString("</a>")
	return b.String()
}

func alignStyle(css string) string {
	return ` style="text-align:` + css + `;"`
}

var httpScheme = regexp.MustCompile(`^https?:`)

// protocolRelative strips an http or https scheme, leaving //host/path.
func protocolRelative(url string) string {
	return httpScheme.ReplaceAllString(url, "")
}

// sizedImageURL asks the image CDN for a resized variant:
// //host/path.png -> //host/path.png@1192w.webp
func sizedImageURL(url string, width int, format string) string {
	u := protocolRelative(url)
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	return u + "@" + strconv.Itoa(width) + "w." + format
}

// formatNumber prints f without trailing zeros: 17 -> "17", 1.25 -> "1.25".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

const upperHex = "0123456789ABCDEF"

// encodeURIComponent percent-encodes every byte except ASCII letters,
// digits and - _ . ! ~ * ' ( ), the set browsers leave alone in query
// components. Spaces become %20, not +.
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func isURIUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

package ingest

import (
	"bytes"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
)

// HTMLExtractor extracts readable text from HTML. Complete pages go through
// readability article extraction first, which drops navigation and
// boilerplate; when that fails or comes back empty (fragments, minimal
// markup), StripHTML is the fallback.
type HTMLExtractor struct {
	// BaseURL resolves relative links during article extraction. Optional.
	BaseURL *url.URL
}

var _ Extractor = HTMLExtractor{}

func (e HTMLExtractor) Extract(content []byte) (string, error) {
	base := e.BaseURL
	if base == nil {
		base = &url.URL{}
	}
	if article, err := readability.FromReader(bytes.NewReader(content), base); err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return collapseBlankLines(text), nil
		}
	}
	return StripHTML(string(content)), nil
}

// StripHTML removes tags, drops script and style bodies, decodes common
// entities, and separates block elements with blank lines so that paragraph
// chunking sees the document's structure. It is a lossy single pass, not a
// parser.
func StripHTML(content string) string {
	var out strings.Builder
	out.Grow(len(content))

	skipUntil := "" // closing tag that ends a script or style body
	i := 0
	for i < len(content) {
		if content[i] == '<' {
			name, next := readTag(content, i)
			i = next
			switch name {
			case "script":
				skipUntil = "/script"
			case "style":
				skipUntil = "/style"
			case skipUntil:
				skipUntil = ""
			}
			if skipUntil == "" {
				out.WriteString(blockSeparator(name))
			}
			continue
		}
		if skipUntil != "" {
			i++
			continue
		}
		if content[i] == '&' {
			if decoded, n := decodeEntity(content[i:]); n > 0 {
				out.WriteString(decoded)
				i += n
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(content[i:])
		out.WriteRune(r)
		i += size
	}
	return collapseBlankLines(out.String())
}

// readTag scans a tag starting at the '<' and returns its lowercased name
// ("/p" for closing tags) and the offset just past the closing '>'.
func readTag(s string, start int) (string, int) {
	i := start + 1
	j := i
	for j < len(s) && s[j] != '>' && s[j] != ' ' && s[j] != '\t' && s[j] != '\n' && s[j] != '\r' {
		if s[j] == '/' && j > i {
			break
		}
		j++
	}
	name := strings.ToLower(s[i:j])
	for j < len(s) && s[j] != '>' {
		j++
	}
	if j < len(s) {
		j++
	}
	return name, j
}

// blockSeparator returns the whitespace a tag contributes: a blank line for
// paragraph-level elements, a newline for line breaks and table cells,
// nothing for inline markup.
func blockSeparator(tag string) string {
	switch strings.TrimPrefix(tag, "/") {
	case "br", "td", "th":
		return "\n"
	case "p", "div", "hr", "h1", "h2", "h3", "h4", "h5", "h6",
		"li", "ul", "ol", "table", "tr", "blockquote", "pre",
		"section", "article", "header", "footer", "nav", "main",
		"figure", "figcaption":
		return "\n\n"
	}
	return ""
}

// decodeEntity decodes one entity reference at the start of s and returns
// the decoded text and bytes consumed, or ("", 0) when s does not start with
// a recognizable entity.
func decodeEntity(s string) (string, int) {
	bound := min(len(s), 12)
	semi := strings.IndexByte(s[:bound], ';')
	if semi <= 1 {
		return "", 0
	}
	entity := s[:semi+1]
	if decoded, ok := namedEntities[entity]; ok {
		return decoded, semi + 1
	}
	if entity[1] == '#' && semi > 2 {
		digits := entity[2:semi]
		base := 10
		if digits[0] == 'x' || digits[0] == 'X' {
			digits, base = digits[1:], 16
		}
		if cp, err := strconv.ParseUint(digits, base, 32); err == nil && cp > 0 && cp <= 0x10FFFF && utf8.ValidRune(rune(cp)) {
			return string(rune(cp)), semi + 1
		}
	}
	return "", 0
}

var namedEntities = map[string]string{
	"&amp;":    "&",
	"&lt;":     "<",
	"&gt;":     ">",
	"&quot;":   "\"",
	"&apos;":   "'",
	"&nbsp;":   " ",
	"&mdash;":  "—",
	"&ndash;":  "–",
	"&copy;":   "©",
	"&reg;":    "®",
	"&trade;":  "™",
	"&hellip;": "…",
	"&laquo;":  "«",
	"&raquo;":  "»",
	"&bull;":   "•",
	"&middot;": "·",
	"&deg;":    "°",
	"&euro;":   "€",
	"&pound;":  "£",
	"&cent;":   "¢",
}

// collapseBlankLines trims every line, reduces blank-line runs to a single
// blank line, and drops leading and trailing whitespace.
func collapseBlankLines(text string) string {
	var out strings.Builder
	blanks := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blanks++
			continue
		}
		if out.Len() > 0 {
			if blanks > 0 {
				out.WriteString("\n\n")
			} else {
				out.WriteByte('\n')
			}
		}
		out.WriteString(line)
		blanks = 0
	}
	return out.String()
}

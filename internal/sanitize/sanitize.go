// Package sanitize neutralizes markup in user supplied text before it is
// stored or rendered. Tags on an allow-list survive with a reduced attribute
// set; everything else is HTML-escaped so it shows up as inert text.
package sanitize

import (
	"errors"
	"html"
	"io"
	"strings"

	nethtml "golang.org/x/net/html"
)

// allowed maps each permitted tag to the attributes it may keep.
var allowed = map[string][]string{
	"a":          {"href", "title", "target"},
	"abbr":       {"title"},
	"b":          nil,
	"blockquote": {"cite"},
	"br":         nil,
	"code":       nil,
	"dd":         nil,
	"del":        {"datetime"},
	"div":        nil,
	"dl":         nil,
	"dt":         nil,
	"em":         nil,
	"h1":         nil,
	"h2":         nil,
	"h3":         nil,
	"h4":         nil,
	"h5":         nil,
	"h6":         nil,
	"hr":         nil,
	"i":          nil,
	"img":        {"src", "alt", "title", "width", "height"},
	"ins":        {"datetime"},
	"kbd":        nil,
	"li":         nil,
	"mark":       nil,
	"ol":         nil,
	"p":          nil,
	"pre":        nil,
	"s":          nil,
	"small":      nil,
	"span":       nil,
	"strike":     nil,
	"strong":     nil,
	"sub":        nil,
	"sup":        nil,
	"table":      {"width", "border", "align", "valign"},
	"tbody":      nil,
	"td":         {"width", "rowspan", "colspan", "align", "valign"},
	"tfoot":      nil,
	"th":         {"width", "rowspan", "colspan", "align", "valign"},
	"thead":      nil,
	"tr":         {"rowspan", "align", "valign"},
	"u":          nil,
	"ul":         nil,
}

// void elements never take an end tag.
var void = map[string]bool{"br": true, "hr": true, "img": true}

// urlAttrs hold URLs and are subject to scheme checks.
var urlAttrs = map[string]bool{"href": true, "src": true, "cite": true}

var textEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Text returns s with disallowed markup escaped and disallowed attributes
// removed. Allowed elements come out balanced: stray end tags are dropped and
// elements still open at the end are closed. Text(Text(s)) == Text(s).
func Text(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}

	z := nethtml.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	b.Grow(len(s))
	var open []string

	for {
		tt := z.Next()
		switch tt {
		case nethtml.ErrorToken:
			// A tag left open at the end of input is returned as an error;
			// keep its bytes as text.
			if errors.Is(z.Err(), io.EOF) {
				b.WriteString(textEscaper.Replace(string(z.Raw())))
			}
			for i := len(open) - 1; i >= 0; i-- {
				b.WriteString("</" + open[i] + ">")
			}
			return b.String()
		case nethtml.TextToken:
			b.WriteString(textEscaper.Replace(string(z.Raw())))
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			// TagName lower-cases the buffer in place, so copy Raw first.
			raw := string(z.Raw())
			selfClosing := tt == nethtml.SelfClosingTagToken
			if tag, ok := writeStartTag(&b, z, raw, selfClosing); ok && !selfClosing && !void[tag] {
				open = append(open, tag)
			}
		case nethtml.EndTagToken:
			raw := string(z.Raw())
			name, _ := z.TagName()
			tag := string(name)
			if _, ok := allowed[tag]; !ok {
				b.WriteString(textEscaper.Replace(raw))
				continue
			}
			// Close everything opened after the matching start tag. An end
			// tag with no open counterpart is dropped.
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] != tag {
					continue
				}
				for j := len(open) - 1; j >= i; j-- {
					b.WriteString("</" + open[j] + ">")
				}
				open = open[:i]
				break
			}
		case nethtml.CommentToken:
			raw := string(z.Raw())
			if !strings.HasPrefix(raw, "<!--") {
				b.WriteString(textEscaper.Replace(raw))
			}
		default:
			b.WriteString(textEscaper.Replace(string(z.Raw())))
		}
	}
}

// writeStartTag re-emits an allowed start tag with its permitted attributes,
// or escapes raw. It returns the tag name and whether it was allowed.
func writeStartTag(b *strings.Builder, z *nethtml.Tokenizer, raw string, selfClosing bool) (string, bool) {
	name, hasAttr := z.TagName()
	tag := string(name)
	attrs, ok := allowed[tag]
	if !ok {
		b.WriteString(textEscaper.Replace(raw))
		return tag, false
	}

	b.WriteString("<" + tag)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		k := string(key)
		if !contains(attrs, k) {
			continue
		}
		v := string(val)
		if urlAttrs[k] && !safeURL(v) {
			continue
		}
		b.WriteString(" " + k + `="` + html.EscapeString(v) + `"`)
	}
	if selfClosing {
		b.WriteString(" />")
	} else {
		b.WriteString(">")
	}
	return tag, true
}

// safeURL accepts relative references and the http, https and mailto schemes.
func safeURL(v string) bool {
	// Browsers ignore embedded whitespace and control characters when
	// resolving a scheme ("java\tscript:").
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, v)
	cleaned = strings.ToLower(cleaned)

	colon := strings.IndexByte(cleaned, ':')
	if colon < 0 {
		return true
	}
	if i := strings.IndexAny(cleaned, "/?#"); i >= 0 && i < colon {
		return true
	}
	switch cleaned[:colon] {
	case "http", "https", "mailto":
		return true
	default:
		return false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

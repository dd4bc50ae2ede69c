// Package anchor implements the heading normalizer and anchor slugger
// (spec §4.2): turning a heading's raw bytes into visible normalized text
// and a URL-fragment-safe slug, with in-file collision disambiguation.
package anchor

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

// Normalize converts raw ATX/Setext heading text into its visible,
// decoration-stripped form: link text replaces `[text](url)`, image alt
// text replaces `![alt](url)`, emphasis/strong/code-span markers are
// unwrapped, HTML tags are dropped, and runs of whitespace collapse to a
// single space. It parses the heading bytes as an inline Markdown fragment
// with goldmark and walks the resulting AST collecting visible text,
// rather than hand-stripping each decoration with its own regex.
func Normalize(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	trimmed = strings.TrimRight(trimmed, "#")
	trimmed = strings.TrimRight(trimmed, " \t")
	if trimmed == "" {
		return ""
	}

	source := []byte(trimmed)
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var b strings.Builder
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *gmast.Text:
			b.Write(v.Segment.Value(source))
		case *gmast.String:
			b.Write(v.Value)
		case *gmast.CodeSpan:
			for c := v.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*gmast.Text); ok {
					b.Write(t.Segment.Value(source))
				}
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.AutoLink:
			b.Write(v.URL(source))
			return gmast.WalkSkipChildren, nil
		case *gmast.RawHTML:
			return gmast.WalkSkipChildren, nil
		case *gmast.HTMLBlock:
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})

	return collapseSpace(b.String())
}

func collapseSpace(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Slug derives the URL-fragment anchor from a normalized title: lowercase,
// keep ASCII letters/digits and lowercase Unicode letters, each run of
// whitespace and other characters (punctuation included) becomes a single
// '-', and leading/trailing '-' are stripped.
func Slug(normalizedTitle string) string {
	var b strings.Builder
	prevDash := true // treat string start as if a dash was just emitted
	for _, r := range normalizedTitle {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case unicode.IsSpace(r):
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Disambiguator assigns document-order-stable anchor suffixes ("-2", "-3",
// …) to repeated slugs within one file. The first occurrence of a slug is
// left unsuffixed.
type Disambiguator struct {
	seen map[string]int
}

func NewDisambiguator() *Disambiguator {
	return &Disambiguator{seen: map[string]int{}}
}

// Next returns the anchor to use for the next heading with the given slug,
// in document order.
func (d *Disambiguator) Next(slug string) string {
	n := d.seen[slug]
	d.seen[slug] = n + 1
	if n == 0 {
		return slug
	}
	return slug + "-" + strconv.Itoa(n+1)
}

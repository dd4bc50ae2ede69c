// Package mdlink implements the Link Extractor (spec §4.3): enumerating
// inline, image, reference, anchor-only, and autolink references from
// section bodies with byte-accurate ranges so the Refactor Planner can
// splice replacement bytes in place.
package mdlink

import (
	"regexp"
	"strings"
)

// Kind classifies a discovered link.
type Kind int

const (
	Inline Kind = iota
	Reference
	Image
	Autolink
	AnchorOnly
)

func (k Kind) String() string {
	switch k {
	case Reference:
		return "reference"
	case Image:
		return "image"
	case Autolink:
		return "autolink"
	case AnchorOnly:
		return "anchor-only"
	default:
		return "inline"
	}
}

// Link is one discovered reference, with a byte range covering the full
// link expression (including brackets) within the file it was found in.
type Link struct {
	SourcePath string
	ByteStart  int
	ByteEnd    int
	Kind       Kind
	Text       string
	RawTarget  string // full target before splitting at '#'
	Path       string // target split before the first unescaped '#'
	Anchor     string // target after the first unescaped '#', without the '#'
	LineNumber int

	// Label is the lowercased reference label for Kind == Reference links,
	// so the Refactor Planner can find the matching definition line to
	// rewrite instead of the (possibly far-away) usage site.
	Label string
}

var refDefRE = regexp.MustCompile(`(?m)^\[([^\]]+)\]:\s*(\S+)\s*$`)

// harvestReferenceDefs scans the whole document for "[label]: target" lines.
func harvestReferenceDefs(data []byte) map[string]string {
	defs := map[string]string{}
	for _, m := range refDefRE.FindAllSubmatch(data, -1) {
		label := strings.ToLower(string(m[1]))
		defs[label] = string(m[2])
	}
	return defs
}

// ReferenceDef is one harvested "[label]: target" definition with the byte
// range of its target, so callers (the Refactor Planner) can splice a
// rewritten target in place without touching every inline usage site.
type ReferenceDef struct {
	Label       string
	TargetStart int
	TargetEnd   int
}

// ReferenceDefs returns every reference definition in data with byte-exact
// target ranges, keyed by lowercased label for lookup from a Reference-kind
// Link.
func ReferenceDefs(data []byte) map[string]ReferenceDef {
	out := map[string]ReferenceDef{}
	for _, m := range refDefRE.FindAllSubmatchIndex(data, -1) {
		label := strings.ToLower(string(data[m[2]:m[3]]))
		out[label] = ReferenceDef{Label: label, TargetStart: m[4], TargetEnd: m[5]}
	}
	return out
}

// Extract scans data[start:end) for links and returns them with byte
// offsets relative to the start of data (not of the slice). Reference
// definitions are harvested from the full document regardless of the scan
// range, since "[label]: target" lines commonly live outside any one
// section's body.
func Extract(path string, data []byte, start, end int) []Link {
	defs := harvestReferenceDefs(data)
	var out []Link

	i := start
	for i < end {
		c := data[i]
		switch {
		case c == '!' && i+1 < end && data[i+1] == '[':
			if l, next, ok := parseBracketed(path, data, i+1, end, defs, true); ok {
				out = append(out, l)
				i = next
				continue
			}
			i++
		case c == '[':
			if l, next, ok := parseBracketed(path, data, i, end, defs, false); ok {
				out = append(out, l)
				i = next
				continue
			}
			i++
		case c == '<':
			if l, next, ok := parseAutolink(path, data, i, end); ok {
				out = append(out, l)
				i = next
				continue
			}
			i++
		default:
			i++
		}
	}
	return out
}

// parseBracketed parses a `[text](target)`, `[text][label]`, or `[text][]`
// form starting at bracketStart (the '[' of the text, already past any '!').
// isImage indicates the '!' prefix was already consumed by the caller, so
// the returned byte range starts one byte earlier.
func parseBracketed(path string, data []byte, bracketStart, end int, defs map[string]string, isImage bool) (Link, int, bool) {
	if bracketStart >= end || data[bracketStart] != '[' {
		return Link{}, 0, false
	}
	textEnd := findUnescaped(data, bracketStart+1, end, ']')
	if textEnd < 0 {
		return Link{}, 0, false
	}
	text := string(data[bracketStart+1 : textEnd])
	exprStart := bracketStart
	if isImage {
		exprStart--
	}
	lineNo := lineNumber(data, exprStart)

	pos := textEnd + 1
	if pos < end && data[pos] == '(' {
		targetEnd := findMatchingParen(data, pos, end)
		if targetEnd < 0 {
			return Link{}, 0, false
		}
		target := string(data[pos+1 : targetEnd])
		rawPath, rawAnchor := splitTarget(target)
		kind := Inline
		if isImage {
			kind = Image
		} else if rawPath == "" && rawAnchor != "" {
			kind = AnchorOnly
		}
		return Link{
			SourcePath: path, ByteStart: exprStart, ByteEnd: targetEnd + 1,
			Kind: kind, Text: text, RawTarget: target, Path: rawPath, Anchor: rawAnchor,
			LineNumber: lineNo,
		}, targetEnd + 1, true
	}

	if pos < end && data[pos] == '[' {
		labelEnd := findUnescaped(data, pos+1, end, ']')
		if labelEnd < 0 {
			return Link{}, 0, false
		}
		label := string(data[pos+1 : labelEnd])
		if label == "" {
			label = text
		}
		target := defs[strings.ToLower(label)]
		rawPath, rawAnchor := splitTarget(target)
		kind := Reference
		if isImage {
			kind = Image
		}
		return Link{
			SourcePath: path, ByteStart: exprStart, ByteEnd: labelEnd + 1,
			Kind: kind, Text: text, RawTarget: target, Path: rawPath, Anchor: rawAnchor,
			LineNumber: lineNo, Label: strings.ToLower(label),
		}, labelEnd + 1, true
	}

	return Link{}, 0, false
}

func parseAutolink(path string, data []byte, start, end int) (Link, int, bool) {
	closeIdx := -1
	for j := start + 1; j < end; j++ {
		if data[j] == '>' {
			closeIdx = j
			break
		}
		if data[j] == '<' || data[j] == ' ' && j == start+1 {
			break
		}
	}
	if closeIdx < 0 {
		return Link{}, 0, false
	}
	inner := string(data[start+1 : closeIdx])
	if !looksLikeAutolink(inner) {
		return Link{}, 0, false
	}
	return Link{
		SourcePath: path, ByteStart: start, ByteEnd: closeIdx + 1,
		Kind: Autolink, Text: inner, RawTarget: inner,
		LineNumber: lineNumber(data, start),
	}, closeIdx + 1, true
}

func looksLikeAutolink(s string) bool {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "mailto:") {
		return true
	}
	if strings.HasPrefix(s, "/") || strings.Contains(s, " ") || s == "" {
		return false
	}
	return false
}

func findUnescaped(data []byte, start, end int, target byte) int {
	for i := start; i < end; i++ {
		if data[i] == '\\' {
			i++
			continue
		}
		if data[i] == target {
			return i
		}
		if data[i] == '\n' {
			return -1
		}
	}
	return -1
}

func findMatchingParen(data []byte, openIdx, end int) int {
	depth := 0
	for i := openIdx; i < end; i++ {
		switch data[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		case '\n':
			return -1
		}
	}
	return -1
}

// splitTarget splits a link target at the first unescaped '#' into a path
// and an anchor (without the leading '#'). Whitespace inside is preserved
// verbatim per spec §4.3.
func splitTarget(target string) (path, anchor string) {
	b := []byte(target)
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' {
			i++
			continue
		}
		if b[i] == '#' {
			return target[:i], target[i+1:]
		}
	}
	return target, ""
}

func lineNumber(data []byte, offset int) int {
	return 1 + strings.Count(string(data[:offset]), "\n")
}

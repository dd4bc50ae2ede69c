// Package toc implements the TOC Engine (spec §4.9): locating
// marker-delimited table-of-contents blocks, rendering them from a
// document's headings, and supporting check/update/diff modes with an
// idempotence guarantee — a second update on already-current bytes must be
// a byte-for-byte no-op.
package toc

import (
	"fmt"
	"strings"

	"mdtool/pkg/diffutil"
	"mdtool/pkg/docindex"
	"mdtool/pkg/scan"
)

// Config controls marker text and heading depth filtering. Zero values fall
// back to the spec defaults.
type Config struct {
	StartMarker string // default "<!-- toc -->"
	EndMarker   string // default "<!-- tocstop -->"
	MaxDepth    int    // 0 means unlimited
}

func (c Config) normalized() Config {
	if c.StartMarker == "" {
		c.StartMarker = "<!-- toc -->"
	}
	if c.EndMarker == "" {
		c.EndMarker = "<!-- tocstop -->"
	}
	return c
}

// Block is one delimited TOC region with byte-exact marker and body spans.
type Block struct {
	StartMarkerStart, StartMarkerEnd int
	BodyStart, BodyEnd               int
	EndMarkerStart, EndMarkerEnd     int
}

// FindBlocks returns every marker-delimited block in data, in document
// order. The body span excludes both marker lines.
func FindBlocks(data []byte, cfg Config) []Block {
	cfg = cfg.normalized()
	var blocks []Block

	lines := splitLineSpans(data)
	i := 0
	for i < len(lines) {
		if !lineEquals(data, lines[i], cfg.StartMarker) {
			i++
			continue
		}
		startLine := lines[i]
		j := i + 1
		for j < len(lines) && !lineEquals(data, lines[j], cfg.EndMarker) {
			j++
		}
		if j >= len(lines) {
			break // unterminated block: not a valid TocBlock
		}
		endLine := lines[j]
		bodyStart := startLine.end
		bodyEnd := endLine.start
		blocks = append(blocks, Block{
			StartMarkerStart: startLine.start, StartMarkerEnd: startLine.end,
			BodyStart: bodyStart, BodyEnd: bodyEnd,
			EndMarkerStart: endLine.start, EndMarkerEnd: endLine.end,
		})
		i = j + 1
	}
	return blocks
}

type lineSpan struct{ start, end int } // end includes the trailing newline, if any

func splitLineSpans(data []byte) []lineSpan {
	var out []lineSpan
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' {
			out = append(out, lineSpan{start: start, end: i + 1})
			start = i + 1
		}
	}
	if start < len(data) {
		out = append(out, lineSpan{start: start, end: len(data)})
	}
	return out
}

func lineEquals(data []byte, l lineSpan, marker string) bool {
	text := strings.TrimRight(string(data[l.start:l.end]), "\r\n")
	return strings.TrimSpace(text) == marker
}

// Render produces the TOC body text for sections, filtered by cfg.MaxDepth
// (0 = unlimited), indented 2 spaces per depth level relative to the
// shallowest included heading.
func Render(sections []scan.SectionSpan, cfg Config) string {
	cfg = cfg.normalized()

	var included []scan.SectionSpan
	minDepth := 7
	for _, s := range sections {
		if cfg.MaxDepth > 0 && s.Depth > cfg.MaxDepth {
			continue
		}
		included = append(included, s)
		if s.Depth < minDepth {
			minDepth = s.Depth
		}
	}
	if len(included) == 0 {
		return ""
	}

	var b strings.Builder
	for i, s := range included {
		indent := strings.Repeat("  ", s.Depth-minDepth)
		fmt.Fprintf(&b, "%s- [%s](#%s)", indent, s.NormalizedTitle, s.Anchor)
		if i < len(included)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Status is the outcome of a check/update/diff run for one file.
type Status int

const (
	Unchanged Status = iota
	Changed
	NoBlock
)

func (s Status) String() string {
	switch s {
	case Changed:
		return "changed"
	case NoBlock:
		return "error"
	default:
		return "unchanged"
	}
}

// Check reports, per block, whether its body matches a fresh render.
func Check(fi *docindex.FileIndex, cfg Config) Status {
	blocks := FindBlocks(fi.Scan.Data, cfg)
	if len(blocks) == 0 {
		return NoBlock
	}
	rendered := Render(fi.Sections, cfg)
	for _, blk := range blocks {
		existing := strings.Trim(string(fi.Scan.Data[blk.BodyStart:blk.BodyEnd]), "\n")
		if existing != rendered {
			return Changed
		}
	}
	return Unchanged
}

// Update rewrites every block's body from a fresh render and returns the
// new file bytes. Applying Update twice in a row yields identical bytes on
// the second run (spec §8 idempotence).
func Update(fi *docindex.FileIndex, cfg Config) ([]byte, bool, error) {
	blocks := FindBlocks(fi.Scan.Data, cfg)
	if len(blocks) == 0 {
		return fi.Scan.Data, false, nil
	}

	rendered := Render(fi.Sections, cfg)
	data := fi.Scan.Data

	out := append([]byte(nil), data...)
	changed := false
	for i := len(blocks) - 1; i >= 0; i-- {
		blk := blocks[i]
		existing := out[blk.BodyStart:blk.BodyEnd]
		newBody := []byte(rendered + "\n")
		if strings.Trim(string(existing), "\n") == rendered {
			continue
		}
		changed = true
		next := make([]byte, 0, len(out)-(blk.BodyEnd-blk.BodyStart)+len(newBody))
		next = append(next, out[:blk.BodyStart]...)
		next = append(next, newBody...)
		next = append(next, out[blk.BodyEnd:]...)
		out = next
	}
	return out, changed, nil
}

// Diff renders a unified diff of the update that would be applied, without
// writing anything.
func Diff(fi *docindex.FileIndex, cfg Config) (string, error) {
	newData, changed, err := Update(fi, cfg)
	if err != nil {
		return "", err
	}
	if !changed {
		return "", nil
	}
	return diffutil.Unified(fi.Path, fi.Path, fi.Scan.Data, newData)
}

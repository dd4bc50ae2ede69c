// Package scan implements the streaming Markdown section parser (spec §4.1):
// a byte-indexed forward scan over raw file bytes that produces an ordered
// sequence of nested SectionSpans, robust to fenced/indented code,
// YAML front matter, and Setext headings.
package scan

// HeadingKind distinguishes how a heading was introduced.
type HeadingKind int

const (
	ATX HeadingKind = iota
	Setext
)

func (k HeadingKind) String() string {
	if k == Setext {
		return "setext"
	}
	return "atx"
}

// LineEnding is the line-ending style detected for a file. The write path
// does not consult it: newlines that edits and TOC updates add themselves
// are "\n".
type LineEnding int

const (
	LF LineEnding = iota
	CRLF
)

func (e LineEnding) String() string {
	if e == CRLF {
		return "crlf"
	}
	return "lf"
}

// SectionSpan is a byte-accurate section boundary produced by Scan.
//
// Invariants (spec §3): HeadingStart <= HeadingEnd <= BodyStart <= BodyEnd.
// BodyEnd equals the next sibling/ancestor heading's HeadingStart, or EOF.
// A section's span therefore contains its deeper subsections; sections that
// are not nested in another do not overlap and together cover
// [firstHeadingStart, EOF).
type SectionSpan struct {
	Path string

	Depth int // 1..6
	Kind  HeadingKind

	RawTitle         []byte
	NormalizedTitle  string
	Anchor           string

	HeadingStart int
	HeadingEnd   int
	BodyStart    int
	BodyEnd      int

	LineNumber int // 1-based, of HeadingStart
}

// Body returns the section's body bytes sliced out of the original buffer.
func (s SectionSpan) Body(data []byte) []byte {
	return data[s.BodyStart:s.BodyEnd]
}

// Heading returns the section's heading bytes (the ATX line, or the Setext
// paragraph+underline pair) sliced out of the original buffer.
func (s SectionSpan) Heading(data []byte) []byte {
	return data[s.HeadingStart:s.HeadingEnd]
}

// FileScan is the full result of scanning one file: its sections in document
// order, the detected line ending, the front matter block if present (decoded
// by Scan with yaml.v3 into FrontMatter), and the byte range of that front
// matter block.
type FileScan struct {
	Path       string
	Data       []byte
	LineEnding LineEnding
	Sections   []SectionSpan

	// HasFrontMatter, FrontMatterStart and FrontMatterEnd describe the raw
	// YAML front matter block (delimited by "---" lines) when present.
	// FrontMatterStart/End are byte offsets of the block's content, exclusive
	// of the delimiter lines.
	HasFrontMatter   bool
	FrontMatterStart int
	FrontMatterEnd   int

	// FrontMatter is the decoded form of the front matter block (nil when
	// HasFrontMatter is false, or when the block is not valid YAML).
	FrontMatter map[string]any

	// TrailingNewline reports whether the original file ended with a
	// newline. The Atomic Writer does not read it.
	TrailingNewline bool
}

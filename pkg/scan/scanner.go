package scan

import (
	"bytes"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"mdtool/pkg/mderr"
)

type lineInfo struct {
	start      int // first byte of the line
	contentEnd int // end of visible content, excludes \r\n or \n
	lineEnd    int // start of next line, or len(data) if no trailing newline
}

type scanState int

const (
	stTight scanState = iota
	stFenced
	stIndented
)

// Scan parses raw Markdown bytes into a FileScan. path is recorded on every
// SectionSpan for downstream components that operate on multiple files at
// once (Section Index, Link Graph).
func Scan(path string, data []byte) (*FileScan, error) {
	if !utf8.Valid(data) {
		return nil, &mderr.LocatedError{Path: path, Op: "scan", Err: mderr.ErrInvalidUTF8}
	}

	fs := &FileScan{
		Path:            path,
		Data:            data,
		LineEnding:      detectLineEnding(data),
		TrailingNewline: len(data) > 0 && data[len(data)-1] == '\n',
	}

	lines := splitLines(data)

	bodyLines := lines
	if start, fmStart, fmEnd, ok := detectFrontMatter(data, lines); ok {
		fs.HasFrontMatter = true
		fs.FrontMatterStart = fmStart
		fs.FrontMatterEnd = fmEnd
		bodyLines = lines[start:]

		var fm map[string]any
		if err := yaml.Unmarshal(data[fmStart:fmEnd], &fm); err == nil {
			fs.FrontMatter = fm
		}
	}

	fs.Sections = scanSections(path, data, bodyLines)
	return fs, nil
}

func detectLineEnding(data []byte) LineEnding {
	idx := bytes.IndexByte(data, '\n')
	if idx > 0 && data[idx-1] == '\r' {
		return CRLF
	}
	return LF
}

func splitLines(data []byte) []lineInfo {
	var lines []lineInfo
	pos := 0
	n := len(data)
	for pos < n {
		nl := bytes.IndexByte(data[pos:], '\n')
		if nl < 0 {
			lines = append(lines, lineInfo{start: pos, contentEnd: n, lineEnd: n})
			break
		}
		absNL := pos + nl
		contentEnd := absNL
		if contentEnd > pos && data[contentEnd-1] == '\r' {
			contentEnd--
		}
		lines = append(lines, lineInfo{start: pos, contentEnd: contentEnd, lineEnd: absNL + 1})
		pos = absNL + 1
	}
	return lines
}

// detectFrontMatter reports whether the file opens with a YAML front-matter
// block. Returns the body line index to resume scanning from, and the byte
// range of the block's content (exclusive of delimiter lines).
func detectFrontMatter(data []byte, lines []lineInfo) (bodyStartLine, contentStart, contentEnd int, ok bool) {
	if len(lines) == 0 {
		return 0, 0, 0, false
	}
	first := trimBOM(data[lines[0].start:lines[0].contentEnd])
	if string(first) != "---" {
		return 0, 0, 0, false
	}
	for i := 1; i < len(lines); i++ {
		text := string(bytes.TrimSpace(data[lines[i].start:lines[i].contentEnd]))
		if text == "---" || text == "..." {
			return i + 1, lines[0].lineEnd, lines[i].start, true
		}
	}
	return 0, 0, 0, false
}

func trimBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
}

func scanSections(path string, data []byte, lines []lineInfo) []SectionSpan {
	var all []*SectionSpan
	var stack []*SectionSpan

	state := stTight
	var fenceChar byte
	var fenceRun int
	pendingBlank := false
	prevPlain := -1

	closeTo := func(depth, at int) {
		for len(stack) > 0 && stack[len(stack)-1].Depth >= depth {
			stack[len(stack)-1].BodyEnd = at
			stack = stack[:len(stack)-1]
		}
	}

	lineNumberAt := func(offset int) int {
		return 1 + bytes.Count(data[:offset], []byte{'\n'})
	}

	i := 0
	for i < len(lines) {
		ln := lines[i]
		text := data[ln.start:ln.contentEnd]
		isBlank := len(bytes.TrimSpace(text)) == 0

		switch state {
		case stFenced:
			if isFenceClose(bytes.TrimSpace(text), fenceChar, fenceRun) {
				state = stTight
			}
			prevPlain = -1
			i++
			continue
		case stIndented:
			if isBlank {
				i++
				continue
			}
			if leadingSpaces(text) >= 4 {
				i++
				continue
			}
			state = stTight
			continue
		}

		// stTight
		if isBlank {
			pendingBlank = true
			prevPlain = -1
			i++
			continue
		}

		if fc, run, ok := fenceOpen(text); ok {
			state = stFenced
			fenceChar = fc
			fenceRun = run
			pendingBlank = false
			prevPlain = -1
			i++
			continue
		}

		if pendingBlank && leadingSpaces(text) >= 4 {
			state = stIndented
			pendingBlank = false
			prevPlain = -1
			i++
			continue
		}
		pendingBlank = false

		if depth, raw, ok := atxHeading(text); ok {
			headingStart := ln.start
			headingEnd := ln.lineEnd
			s := &SectionSpan{
				Path:         path,
				Depth:        depth,
				Kind:         ATX,
				RawTitle:     raw,
				HeadingStart: headingStart,
				HeadingEnd:   headingEnd,
				BodyStart:    headingEnd,
				LineNumber:   lineNumberAt(headingStart),
			}
			closeTo(depth, headingStart)
			all = append(all, s)
			stack = append(stack, s)
			prevPlain = -1
			i++
			continue
		}

		if prevPlain >= 0 {
			if depth, ok := setextUnderline(text); ok {
				paraLine := lines[prevPlain]
				headingStart := paraLine.start
				headingEnd := ln.lineEnd
				s := &SectionSpan{
					Path:         path,
					Depth:        depth,
					Kind:         Setext,
					RawTitle:     bytes.TrimSpace(data[paraLine.start:paraLine.contentEnd]),
					HeadingStart: headingStart,
					HeadingEnd:   headingEnd,
					BodyStart:    headingEnd,
					LineNumber:   lineNumberAt(headingStart),
				}
				closeTo(depth, headingStart)
				all = append(all, s)
				stack = append(stack, s)
				prevPlain = -1
				i++
				continue
			}
		}

		prevPlain = i
		i++
	}

	eof := len(data)
	for _, s := range stack {
		s.BodyEnd = eof
	}

	out := make([]SectionSpan, len(all))
	for idx, s := range all {
		out[idx] = *s
	}
	return out
}

func leadingSpaces(text []byte) int {
	n := 0
	for n < len(text) && text[n] == ' ' {
		n++
	}
	return n
}

func fenceOpen(text []byte) (char byte, run int, ok bool) {
	trimmed := bytes.TrimLeft(text, " \t")
	if len(trimmed) < 3 {
		return 0, 0, false
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return 0, 0, false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return 0, 0, false
	}
	if c == '`' {
		// backtick fences cannot have a backtick in the info string
		if bytes.IndexByte(trimmed[n:], '`') >= 0 {
			return 0, 0, false
		}
	}
	return c, n, true
}

func isFenceClose(trimmed []byte, char byte, openRun int) bool {
	if len(trimmed) == 0 {
		return false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == char {
		n++
	}
	if n < openRun || n == 0 {
		return false
	}
	rest := bytes.TrimSpace(trimmed[n:])
	return len(rest) == 0
}

func atxHeading(text []byte) (depth int, rawTitle []byte, ok bool) {
	n := 0
	for n < len(text) && text[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0, nil, false
	}
	if n == len(text) {
		return 0, nil, false
	}
	if text[n] != ' ' && text[n] != '\t' {
		return 0, nil, false
	}
	rest := bytes.TrimLeft(text[n:], " \t")
	return n, rest, true
}

func setextUnderline(text []byte) (depth int, ok bool) {
	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == 0 {
		return 0, false
	}
	c := trimmed[0]
	if c != '=' && c != '-' {
		return 0, false
	}
	for _, b := range trimmed {
		if b != c {
			return 0, false
		}
	}
	if c == '=' {
		return 1, true
	}
	return 2, true
}

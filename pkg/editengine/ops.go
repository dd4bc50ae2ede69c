package editengine

import (
	"bytes"

	"mdtool/pkg/mderr"
	"mdtool/pkg/scan"
)

func planOne(op Operation, sections []scan.SectionSpan, target scan.SectionSpan, data, payload []byte, opts Options) (edit, bool, string, error) {
	idx := -1
	for i, s := range sections {
		if s.HeadingStart == target.HeadingStart {
			idx = i
			break
		}
	}

	switch op {
	case Replace:
		return planReplace(target, data, payload, opts)
	case Delete:
		return planDelete(target, data)
	case AppendTo:
		return planAppendTo(target, data, payload, opts)
	case PrependTo:
		return planPrependTo(target, data, payload, opts)
	case InsertAfter:
		return planInsertAfter(sections, idx, target, data, payload, opts)
	case InsertBefore:
		return planInsertBefore(sections, idx, target, data, payload, opts)
	}
	return edit{}, false, "", mderr.ErrSectionNotFound
}

func planReplace(target scan.SectionSpan, data, payload []byte, opts Options) (edit, bool, string, error) {
	hasHeading, depth := payloadStartsWithHeading(payload)

	if opts.KeepHeading {
		if hasHeading {
			return edit{}, false, "", mderr.ErrPayloadHeadingMissing
		}
		return edit{start: target.BodyStart, end: target.BodyEnd, replacement: payload}, false, "", nil
	}

	if !hasHeading {
		return edit{}, false, "", mderr.ErrPayloadHeadingMissing
	}
	if depth != target.Depth {
		return edit{}, false, "", &mderr.HeadingDepthMismatchError{Pattern: target.NormalizedTitle, Want: target.Depth, Got: depth}
	}
	return edit{start: target.HeadingStart, end: target.BodyEnd, replacement: payload}, false, "", nil
}

func planDelete(target scan.SectionSpan, data []byte) (edit, bool, string, error) {
	replacement := collapsedBlankLine(data, target.HeadingStart, target.BodyEnd)
	return edit{start: target.HeadingStart, end: target.BodyEnd, replacement: replacement}, false, "", nil
}

// collapsedBlankLine computes what remains at the cut point after a delete.
// Nothing is inserted when the text before start already ends in a blank
// line, when start is the beginning of the file, or when the cut runs to
// EOF; otherwise a single newline is inserted so that one blank line
// separates the preceding text from the following heading.
func collapsedBlankLine(data []byte, start, end int) []byte {
	before := bytes.HasSuffix(data[:start], []byte("\n\n")) || start == 0
	if before || end >= len(data) {
		return nil
	}
	return []byte("\n")
}

func planAppendTo(target scan.SectionSpan, data, payload []byte, opts Options) (edit, bool, string, error) {
	body := data[target.BodyStart:target.BodyEnd]
	trimmedBody := bytes.TrimRight(body, "\n")
	trimmedPayload := bytes.Trim(payload, "\n")

	if !opts.AllowDuplicate {
		window := trailingWindow(trimmedBody, len(trimmedPayload))
		if isDuplicateWindow(trimmedPayload, window) {
			return edit{}, true, "duplicate: payload already present at end of section", nil
		}
	}

	var out []byte
	if len(trimmedBody) > 0 {
		out = append(out, trimmedBody...)
		out = append(out, '\n', '\n')
	}
	out = append(out, trimmedPayload...)
	out = append(out, '\n')
	if target.BodyEnd < len(data) {
		out = append(out, '\n')
	}
	return edit{start: target.BodyStart, end: target.BodyEnd, replacement: out}, false, "", nil
}

func planPrependTo(target scan.SectionSpan, data, payload []byte, opts Options) (edit, bool, string, error) {
	body := data[target.BodyStart:target.BodyEnd]
	trimmedBody := bytes.TrimLeft(body, "\n")
	trimmedPayload := bytes.Trim(payload, "\n")

	if !opts.AllowDuplicate {
		window := leadingWindow(trimmedBody, len(trimmedPayload))
		if isDuplicateWindow(trimmedPayload, window) {
			return edit{}, true, "duplicate: payload already present at start of section", nil
		}
	}

	var out []byte
	out = append(out, trimmedPayload...)
	out = append(out, '\n')
	if len(trimmedBody) > 0 {
		out = append(out, '\n')
		out = append(out, trimmedBody...)
	}
	return edit{start: target.BodyStart, end: target.BodyEnd, replacement: out}, false, "", nil
}

func planInsertAfter(sections []scan.SectionSpan, idx int, target scan.SectionSpan, data, payload []byte, opts Options) (edit, bool, string, error) {
	hasHeading, depth := payloadStartsWithHeading(payload)
	if !hasHeading {
		return edit{}, false, "", mderr.ErrPayloadHeadingMissing
	}
	if depth < target.Depth {
		return edit{}, false, "", &mderr.HeadingDepthMismatchError{Pattern: target.NormalizedTitle, Want: target.Depth, Got: depth}
	}

	if !opts.AllowDuplicate && idx >= 0 && idx+1 < len(sections) {
		sibling := sections[idx+1]
		if isDuplicateSibling(payload, data[sibling.HeadingStart:sibling.BodyEnd]) {
			return edit{}, true, "duplicate: payload matches the following sibling section", nil
		}
	}

	trimmed := bytes.Trim(payload, "\n")
	out := append([]byte("\n"), trimmed...)
	out = append(out, '\n')
	return edit{start: target.BodyEnd, end: target.BodyEnd, replacement: out}, false, "", nil
}

func planInsertBefore(sections []scan.SectionSpan, idx int, target scan.SectionSpan, data, payload []byte, opts Options) (edit, bool, string, error) {
	hasHeading, depth := payloadStartsWithHeading(payload)
	if !hasHeading {
		return edit{}, false, "", mderr.ErrPayloadHeadingMissing
	}
	if depth != target.Depth {
		return edit{}, false, "", &mderr.HeadingDepthMismatchError{Pattern: target.NormalizedTitle, Want: target.Depth, Got: depth}
	}

	if !opts.AllowDuplicate && idx > 0 {
		sibling := sections[idx-1]
		if isDuplicateSibling(payload, data[sibling.HeadingStart:sibling.BodyEnd]) {
			return edit{}, true, "duplicate: payload matches the preceding sibling section", nil
		}
	}

	trimmed := bytes.Trim(payload, "\n")
	out := append([]byte{}, trimmed...)
	out = append(out, '\n', '\n')
	return edit{start: target.HeadingStart, end: target.HeadingStart, replacement: out}, false, "", nil
}

func trailingWindow(data []byte, n int) []byte {
	if n > len(data) {
		n = len(data)
	}
	return data[len(data)-n:]
}

func leadingWindow(data []byte, n int) []byte {
	if n > len(data) {
		n = len(data)
	}
	return data[:n]
}

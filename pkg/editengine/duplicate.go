package editengine

import "bytes"

// isDuplicateWindow implements the duplicate guard (spec §4.5): compare the
// trimmed payload against a same-length trimmed window of the adjacent
// region. Equality means the edit would be a no-op repeat of existing
// content.
func isDuplicateWindow(payload, adjacent []byte) bool {
	p := bytes.TrimSpace(payload)
	if len(p) == 0 {
		return false
	}
	a := bytes.TrimSpace(adjacent)
	if len(a) > len(p) {
		a = a[:len(p)]
	}
	a = bytes.TrimSpace(a)
	return bytes.Equal(p, a)
}

// isDuplicateSibling compares a payload against a whole neighboring
// sibling section's bytes, for insert-after/insert-before.
func isDuplicateSibling(payload, sibling []byte) bool {
	return bytes.Equal(bytes.TrimSpace(payload), bytes.TrimSpace(sibling))
}

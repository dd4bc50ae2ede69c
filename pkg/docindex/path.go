package docindex

import (
	"path"
	"runtime"
	"strings"
)

// CanonicalPath normalizes a relative path per spec §4.4: POSIX separators,
// collapse "./", resolve ".." textually without touching the filesystem,
// lowercase only on case-insensitive filesystems.
func CanonicalPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "./")
	if caseInsensitiveFS() {
		p = strings.ToLower(p)
	}
	return p
}

// caseInsensitiveFS reports whether the host platform's filesystem is
// conventionally case-insensitive. This governs path-matching case
// sensitivity only; content/anchor matching is unaffected.
func caseInsensitiveFS() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}

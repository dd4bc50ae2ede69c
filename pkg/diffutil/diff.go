// Package diffutil generates unified diffs for edit/TOC dry-run output,
// wrapping github.com/pmezard/go-difflib the way the broader pack wraps it
// for changed-file reporting.
package diffutil

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Options controls patch generation.
type Options struct {
	// Context is the number of context lines in unified hunks. 0 defaults
	// to 3.
	Context int
}

// Unified produces a classic unified patch for a -> b under the given file
// names. An empty string means the inputs were byte-identical.
func Unified(aName, bName string, a, b []byte) (string, error) {
	return UnifiedWithOptions(aName, bName, a, b, Options{})
}

func UnifiedWithOptions(aName, bName string, a, b []byte, opt Options) (string, error) {
	if string(a) == string(b) {
		return "", nil
	}

	ctx := opt.Context
	if ctx <= 0 {
		ctx = 3
	}

	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(string(a)),
		B:        splitLinesKeepNL(string(b)),
		FromFile: aName,
		ToFile:   bName,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return "", fmt.Errorf("diffutil: generate unified diff: %w", err)
	}
	return s, nil
}

func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}

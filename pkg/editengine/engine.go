// Package editengine implements the Edit Engine (spec §4.5): the six
// heading-scoped section operations, matching rules, duplicate guards, and
// dry-run diff generation. It produces new file bytes; writing them to
// disk is the Atomic Writer's job (pkg/atomicio), invoked by the CLI layer.
package editengine

import (
	"regexp"
	"sort"

	"mdtool/pkg/diffutil"
	"mdtool/pkg/docindex"
	"mdtool/pkg/mderr"
	"mdtool/pkg/scan"
)

// Operation names one of the six section operations.
type Operation int

const (
	Replace Operation = iota
	Delete
	AppendTo
	PrependTo
	InsertAfter
	InsertBefore
)

// Options configures one Apply call.
type Options struct {
	CaseSensitive  bool
	All            bool
	MaxMatches     int // 0 means unset
	AllowDuplicate bool
	KeepHeading    bool // Replace only: body-only replacement
	DryRun         bool
}

// EditResult is the outcome of one Apply call (spec §4.5).
type EditResult struct {
	Applied     bool
	ExitCode    int
	Diff        string
	Messages    []string
	WrittenPath string // set by the caller once the write succeeds
	NewData     []byte
}

type edit struct {
	start, end  int
	replacement []byte
}

// Apply runs op against the sections of path/data matching pattern, and
// returns the resulting file bytes (in res.NewData) without writing them.
func Apply(path string, data []byte, op Operation, pattern string, payload []byte, opts Options) (*EditResult, error) {
	re, err := compilePattern(pattern, opts.CaseSensitive)
	if err != nil {
		return nil, &mderr.LocatedError{Path: path, Op: "compile pattern", Err: mderr.ErrBadRegex}
	}

	fi, err := docindex.BuildFileIndex(path, data)
	if err != nil {
		return nil, err
	}

	matches := docindex.Match(fi, re)
	if len(matches) == 0 {
		return nil, &mderr.LocatedError{Path: path, Op: "match", Err: mderr.ErrSectionNotFound}
	}

	if len(matches) > 1 {
		if opts.MaxMatches > 0 {
			if len(matches) > opts.MaxMatches {
				return nil, &mderr.LocatedError{Path: path, Op: "match", Err: mderr.ErrMaxMatchesExceeded}
			}
		} else if !opts.All {
			titles := make([]string, len(matches))
			for i, m := range matches {
				titles[i] = m.NormalizedTitle
			}
			return nil, &mderr.MultipleMatchesError{Pattern: pattern, Titles: titles}
		}
	}

	var edits []edit
	var messages []string
	applied := false

	for _, target := range matches {
		e, skipped, msg, err := planOne(op, fi.Sections, target, data, payload, opts)
		if err != nil {
			return nil, &mderr.LocatedError{Path: path, Op: "apply", Err: err}
		}
		if msg != "" {
			messages = append(messages, msg)
		}
		if skipped {
			continue
		}
		applied = true
		edits = append(edits, e)
	}

	// Apply highest-offset-first so earlier offsets stay valid (spec §3,
	// §4.5 "with all, apply in document order (highest offset first)").
	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })

	out := append([]byte(nil), data...)
	for _, e := range edits {
		out = spliceBytes(out, e.start, e.end, e.replacement)
	}

	diff := ""
	if applied {
		d, derr := diffutil.Unified(path, path, data, out)
		if derr == nil {
			diff = d
		}
	}

	res := &EditResult{
		Applied:  applied,
		ExitCode: 0,
		Diff:     diff,
		Messages: messages,
		NewData:  out,
	}
	return res, nil
}

func compilePattern(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

func spliceBytes(data []byte, start, end int, replacement []byte) []byte {
	out := make([]byte, 0, len(data)-(end-start)+len(replacement))
	out = append(out, data[:start]...)
	out = append(out, replacement...)
	out = append(out, data[end:]...)
	return out
}

func payloadStartsWithHeading(payload []byte) (bool, int) {
	fs, err := scan.Scan("<payload>", payload)
	if err != nil || len(fs.Sections) == 0 {
		return false, 0
	}
	first := fs.Sections[0]
	if first.HeadingStart != 0 {
		return false, 0
	}
	return true, first.Depth
}

package lint

import (
	"fmt"
	"strings"

	"mdtool/pkg/anchor"
	"mdtool/pkg/config"
	"mdtool/pkg/docindex"
	"mdtool/pkg/linkgraph"
	"mdtool/pkg/scan"
	"mdtool/pkg/toc"
)

func brokenLinks(fi *docindex.FileIndex, g *linkgraph.Graph) []Finding {
	var out []Finding
	for _, l := range g.Forward(fi.Path) {
		if l.Unsupported || l.Path == "" {
			continue // anchor-only links and autolinks are excluded (spec §4.10)
		}
		if l.Resolved {
			continue
		}
		out = append(out, Finding{
			RuleID:     RuleBrokenLinks,
			Path:       fi.Path,
			Line:       l.LineNumber,
			ByteOffset: l.ByteStart,
			Message:    fmt.Sprintf("link target %q does not resolve to a known file", l.RawTarget),
		})
	}
	return out
}

func brokenAnchors(fi *docindex.FileIndex, g *linkgraph.Graph, repo *docindex.RepoIndex) []Finding {
	var out []Finding
	for _, l := range g.Forward(fi.Path) {
		if l.Unsupported || l.Anchor == "" {
			continue
		}

		var target *docindex.FileIndex
		if l.Path == "" {
			target = fi
		} else if l.Resolved {
			target, _ = repo.Lookup(l.ResolvedPath)
		}
		if target == nil {
			continue // broken-links already reports the unresolved path
		}

		slug := anchor.Slug(anchor.Normalize([]byte(l.Anchor)))
		if _, ok := target.BySlug(slug); ok {
			continue
		}

		suggestion := ""
		if nearest, ok := nearestAnchor(l.Anchor, target.Sections); ok {
			suggestion = fmt.Sprintf("Did you mean %q?", nearest)
		}
		out = append(out, Finding{
			RuleID:     RuleBrokenAnchors,
			Path:       fi.Path,
			Line:       l.LineNumber,
			ByteOffset: l.ByteStart,
			Message:    fmt.Sprintf("anchor %q not found in %s", l.Anchor, displayTarget(fi.Path, l)),
			Suggestion: suggestion,
			Anchor:     l.Anchor,
		})
	}
	return out
}

func displayTarget(sourcePath string, l linkgraph.ResolvedLink) string {
	if l.Path == "" {
		return sourcePath
	}
	return l.ResolvedPath
}

func duplicateAnchors(fi *docindex.FileIndex) []Finding {
	seen := map[string]int{}
	var out []Finding
	for _, s := range fi.Sections {
		raw := anchor.Slug(s.NormalizedTitle)
		seen[raw]++
		if seen[raw] > 1 {
			out = append(out, Finding{
				RuleID:     RuleDuplicateAnchors,
				Path:       fi.Path,
				Line:       s.LineNumber,
				ByteOffset: s.HeadingStart,
				Message:    fmt.Sprintf("heading %q produces anchor slug %q already used in this file", s.NormalizedTitle, raw),
			})
		}
	}
	return out
}

func headingHierarchy(fi *docindex.FileIndex, maxDepth int) []Finding {
	var out []Finding
	prevDepth := 0
	for _, s := range fi.Sections {
		if prevDepth > 0 && s.Depth-prevDepth > 1 {
			out = append(out, Finding{
				RuleID:     RuleHeadingHierarchy,
				Path:       fi.Path,
				Line:       s.LineNumber,
				ByteOffset: s.HeadingStart,
				Message:    fmt.Sprintf("heading depth jumps from %d to %d", prevDepth, s.Depth),
			})
		}
		if maxDepth > 0 && s.Depth > maxDepth {
			out = append(out, Finding{
				RuleID:     RuleHeadingHierarchy,
				Path:       fi.Path,
				Line:       s.LineNumber,
				ByteOffset: s.HeadingStart,
				Message:    fmt.Sprintf("heading depth %d exceeds max_heading_depth %d", s.Depth, maxDepth),
			})
		}
		prevDepth = s.Depth
	}
	return out
}

func tocSync(fi *docindex.FileIndex, cfg *config.Config) []Finding {
	tcfg := toc.Config{
		StartMarker: cfg.Lint.TOCStartMarker,
		EndMarker:   cfg.Lint.TOCEndMarker,
		MaxDepth:    cfg.Lint.MaxHeadingDepth,
	}
	status := toc.Check(fi, tcfg)
	if status != toc.Changed {
		return nil
	}
	return []Finding{{
		RuleID:  RuleTOCSync,
		Path:    fi.Path,
		Message: "TOC block is out of date with the document's headings",
	}}
}

func requiredSections(fi *docindex.FileIndex, engine *schemaEngine, override string) []Finding {
	name, def := engine.Select(fi.Path, override)
	if name == "" {
		return nil
	}

	var out []Finding
	titles := make(map[string]bool, len(fi.Sections))
	var order []string
	for _, s := range fi.Sections {
		titles[strings.ToLower(s.NormalizedTitle)] = true
		order = append(order, strings.ToLower(s.NormalizedTitle))
	}

	if def.RequireTopLevelHeading {
		hasTop := false
		for _, s := range fi.Sections {
			if s.Depth == 1 {
				hasTop = true
				break
			}
		}
		if !hasTop {
			out = append(out, Finding{
				RuleID:  RuleRequiredSections,
				Path:    fi.Path,
				Message: fmt.Sprintf("schema %q requires a top-level heading", name),
			})
		}
	}

	lastIdx := -1
	for _, want := range def.RequiredSections {
		w := strings.ToLower(want)
		if !titles[w] {
			out = append(out, Finding{
				RuleID:  RuleRequiredSections,
				Path:    fi.Path,
				Message: fmt.Sprintf("schema %q requires section %q", name, want),
			})
			continue
		}
		idx := indexOf(order, w)
		if idx < lastIdx {
			out = append(out, Finding{
				RuleID:  RuleRequiredSections,
				Path:    fi.Path,
				Message: fmt.Sprintf("schema %q requires section %q before its current position", name, want),
			})
		}
		if idx > lastIdx {
			lastIdx = idx
		}
	}

	if !def.AllowAdditional {
		required := map[string]bool{}
		for _, want := range def.RequiredSections {
			required[strings.ToLower(want)] = true
		}
		for _, s := range fi.Sections {
			t := strings.ToLower(s.NormalizedTitle)
			if !required[t] {
				out = append(out, Finding{
					RuleID:     RuleRequiredSections,
					Path:       fi.Path,
					Line:       s.LineNumber,
					ByteOffset: s.HeadingStart,
					Message:    fmt.Sprintf("schema %q does not allow additional section %q", name, s.NormalizedTitle),
				})
			}
		}
	}

	if def.MaxDepth > 0 {
		for _, s := range fi.Sections {
			if s.Depth > def.MaxDepth {
				out = append(out, Finding{
					RuleID:     RuleRequiredSections,
					Path:       fi.Path,
					Line:       s.LineNumber,
					ByteOffset: s.HeadingStart,
					Message:    fmt.Sprintf("schema %q caps heading depth at %d", name, def.MaxDepth),
				})
			}
		}
	}

	if def.MinSections > 0 && len(fi.Sections) < def.MinSections {
		out = append(out, Finding{
			RuleID:  RuleRequiredSections,
			Path:    fi.Path,
			Message: fmt.Sprintf("schema %q requires at least %d sections, found %d", name, def.MinSections, len(fi.Sections)),
		})
	}

	if !def.AllowEmpty && len(fi.Sections) == 0 {
		out = append(out, Finding{
			RuleID:  RuleRequiredSections,
			Path:    fi.Path,
			Message: fmt.Sprintf("schema %q does not allow an empty document", name),
		})
	}

	return out
}

func indexOf(xs []string, v string) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}

// nearestAnchor finds the existing section whose NormalizedTitle is closest
// to the broken anchor text by Levenshtein distance (spec §4.10: "Did you
// mean" suggestion from the nearest anchor, computed on normalized titles,
// not on the hyphenated slugs), and returns that section's anchor.
func nearestAnchor(anchorText string, sections []scan.SectionSpan) (string, bool) {
	query := anchor.Normalize([]byte(anchorText))
	best := ""
	bestDist := -1
	for _, s := range sections {
		d := levenshtein(query, s.NormalizedTitle)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = s.Anchor
		}
	}
	return best, bestDist >= 0
}

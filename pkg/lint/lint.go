// Package lint implements the Lint/Validate Pipeline (spec §4.10): a fixed
// registry of rules consuming the Section Index (C4) and Link Graph (C7),
// with severity overlays, glob-based ignores, and deterministic ordering.
package lint

import (
	"sort"

	"mdtool/pkg/config"
	"mdtool/pkg/docindex"
	"mdtool/pkg/linkgraph"
)

// Severity is a finding's reported level.
type Severity int

const (
	Error Severity = iota
	Warning
	Ignore
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Ignore:
		return "ignore"
	default:
		return "error"
	}
}

// Finding is one LintFinding (spec §3).
type Finding struct {
	RuleID     string
	Severity   Severity
	Path       string
	Line       int
	ByteOffset int
	Message    string
	Suggestion string
	Anchor     string
}

// RuleID constants, the fixed registry named in spec §4.10.
const (
	RuleBrokenLinks      = "broken-links"
	RuleBrokenAnchors    = "broken-anchors"
	RuleDuplicateAnchors = "duplicate-anchors"
	RuleHeadingHierarchy = "heading-hierarchy"
	RuleTOCSync          = "toc-sync"
	RuleRequiredSections = "required-sections"
)

var defaultSeverity = map[string]Severity{
	RuleBrokenLinks:      Error,
	RuleBrokenAnchors:    Error,
	RuleDuplicateAnchors: Warning,
	RuleHeadingHierarchy: Warning,
	RuleTOCSync:          Warning,
	RuleRequiredSections: Error,
}

// allRules is the fixed registry in canonical order.
var allRules = []string{
	RuleBrokenLinks, RuleBrokenAnchors, RuleDuplicateAnchors,
	RuleHeadingHierarchy, RuleTOCSync, RuleRequiredSections,
}

// Options configures one Run.
type Options struct {
	// Rules restricts the active rule set; empty means all six.
	Rules []string
	// SchemaOverride forces a schema name for required-sections,
	// bypassing glob selection.
	SchemaOverride string
}

// Run evaluates every active rule against every file in repo and returns
// findings sorted by (path, byte_offset, rule_id), with Ignore-severity
// findings already removed (spec §8: "severity_after_overlay != Ignore").
func Run(repo *docindex.RepoIndex, graph *linkgraph.Graph, cfg *config.Config, opts Options) []Finding {
	rules := opts.Rules
	if len(rules) == 0 {
		rules = allRules
	}
	active := make(map[string]bool, len(rules))
	for _, r := range rules {
		active[r] = true
	}

	engine := newSchemaEngine(cfg.Schemas)

	var findings []Finding
	for _, p := range repo.Paths() {
		fi, ok := repo.Lookup(p)
		if !ok {
			continue
		}

		if active[RuleBrokenLinks] {
			findings = append(findings, brokenLinks(fi, graph)...)
		}
		if active[RuleBrokenAnchors] {
			findings = append(findings, brokenAnchors(fi, graph, repo)...)
		}
		if active[RuleDuplicateAnchors] {
			findings = append(findings, duplicateAnchors(fi)...)
		}
		if active[RuleHeadingHierarchy] {
			findings = append(findings, headingHierarchy(fi, cfg.Lint.MaxHeadingDepth)...)
		}
		if active[RuleTOCSync] {
			findings = append(findings, tocSync(fi, cfg)...)
		}
		if active[RuleRequiredSections] {
			findings = append(findings, requiredSections(fi, engine, opts.SchemaOverride)...)
		}
	}

	findings = applySeverity(findings, cfg)

	out := findings[:0]
	for _, f := range findings {
		if f.Severity != Ignore {
			out = append(out, f)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		if out[i].ByteOffset != out[j].ByteOffset {
			return out[i].ByteOffset < out[j].ByteOffset
		}
		return out[i].RuleID < out[j].RuleID
	})
	return out
}

// applySeverity overlays each finding's severity: rule default, then
// [lint.severity], then [[lint.ignore]] glob matches (spec §4.10).
func applySeverity(findings []Finding, cfg *config.Config) []Finding {
	for i := range findings {
		f := &findings[i]
		f.Severity = defaultSeverity[f.RuleID]

		if s, ok := cfg.Lint.Severity[f.RuleID]; ok {
			f.Severity = parseSeverity(s)
		}

		for _, ig := range cfg.Lint.Ignore {
			if !globMatch(ig.Path, f.Path) {
				continue
			}
			for _, r := range ig.Rules {
				if r == f.RuleID {
					f.Severity = Ignore
				}
			}
		}
	}
	return findings
}

func parseSeverity(s string) Severity {
	switch s {
	case "warning":
		return Warning
	case "ignore":
		return Ignore
	default:
		return Error
	}
}

// Summary aggregates finding counts for CLI output (spec §6).
type Summary struct {
	FilesScanned int
	Errors       int
	Warnings     int
}

// Summarize computes a Summary over findings, scanned against repo's file
// count.
func Summarize(findings []Finding, filesScanned int) Summary {
	s := Summary{FilesScanned: filesScanned}
	for _, f := range findings {
		switch f.Severity {
		case Error:
			s.Errors++
		case Warning:
			s.Warnings++
		}
	}
	return s
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"mdtool/pkg/lint"
)

// lintJSON is the §6 JSON output shape for lint/validate.
type lintJSON struct {
	Summary struct {
		FilesScanned int `json:"files_scanned"`
		Errors       int `json:"errors"`
		Warnings     int `json:"warnings"`
	} `json:"summary"`
	Findings []findingJSON `json:"findings"`
}

type findingJSON struct {
	Rule       string `json:"rule"`
	Severity   string `json:"severity"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func toFindingJSON(findings []lint.Finding) []findingJSON {
	out := make([]findingJSON, len(findings))
	for i, f := range findings {
		out[i] = findingJSON{
			Rule: f.RuleID, Severity: f.Severity.String(), File: f.Path,
			Line: f.Line, Message: f.Message, Suggestion: f.Suggestion,
		}
	}
	return out
}

// renderLintFindings writes findings in the requested format and returns
// the process exit code: 0 if there are no error-severity findings among
// them, 1 otherwise (spec §6 "1 ... validation failures").
func renderLintFindings(w io.Writer, findings []lint.Finding, summary lint.Summary, format string) int {
	switch format {
	case "json":
		payload := lintJSON{Findings: toFindingJSON(findings)}
		payload.Summary.FilesScanned = summary.FilesScanned
		payload.Summary.Errors = summary.Errors
		payload.Summary.Warnings = summary.Warnings
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(payload)
	case "markdown":
		fmt.Fprintf(w, "| rule | severity | file | line | message |\n")
		fmt.Fprintf(w, "|---|---|---|---|---|\n")
		for _, f := range findings {
			fmt.Fprintf(w, "| %s | %s | %s | %d | %s |\n", f.RuleID, f.Severity, f.Path, f.Line, f.Message)
		}
	case "sarif":
		writeSARIF(w, findings)
	default:
		for _, f := range findings {
			fmt.Fprintf(w, "%s:%d: %s [%s] %s", f.Path, f.Line, f.Severity, f.RuleID, f.Message)
			if f.Suggestion != "" {
				fmt.Fprintf(w, " (%s)", f.Suggestion)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%d file(s) scanned, %d error(s), %d warning(s)\n", summary.FilesScanned, summary.Errors, summary.Warnings)
	}

	if summary.Errors > 0 {
		return 1
	}
	return 0
}

// sarifLevel maps lint.Severity to SARIF's {error, warning, note} per spec
// §7.
func sarifLevel(s lint.Severity) string {
	switch s {
	case lint.Warning:
		return "warning"
	case lint.Ignore:
		return "note"
	default:
		return "error"
	}
}

func writeSARIF(w io.Writer, findings []lint.Finding) {
	type location struct {
		PhysicalLocation struct {
			ArtifactLocation struct {
				URI string `json:"uri"`
			} `json:"artifactLocation"`
			Region struct {
				StartLine int `json:"startLine"`
			} `json:"region"`
		} `json:"physicalLocation"`
	}
	type result struct {
		RuleID  string     `json:"ruleId"`
		Level   string     `json:"level"`
		Message struct {
			Text string `json:"text"`
		} `json:"message"`
		Locations []location `json:"locations"`
	}

	results := make([]result, len(findings))
	for i, f := range findings {
		r := result{RuleID: f.RuleID, Level: sarifLevel(f.Severity)}
		r.Message.Text = f.Message
		var loc location
		loc.PhysicalLocation.ArtifactLocation.URI = f.Path
		loc.PhysicalLocation.Region.StartLine = f.Line
		r.Locations = []location{loc}
		results[i] = r
	}

	doc := map[string]any{
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"version": "2.1.0",
		"runs": []map[string]any{
			{
				"tool": map[string]any{
					"driver": map[string]any{"name": "mdtool", "version": Version},
				},
				"results": results,
			},
		},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(doc)
}

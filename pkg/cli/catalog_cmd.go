package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mdtool/pkg/atomicio"
	"mdtool/pkg/docindex"
	"mdtool/pkg/mderr"
)

type catalogHeading struct {
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
}

type catalogFile struct {
	Path     string           `json:"path"`
	Headings []catalogHeading `json:"headings"`
}

type catalogDoc struct {
	LastUpdated string        `json:"last_updated"`
	FileCount   int           `json:"file_count"`
	Files       []catalogFile `json:"files"`
}

// newCatalogCmd builds `mdtool catalog`: a repo-wide listing of every file's
// heading outline (spec §4.7), optionally written to catalog.output.
func newCatalogCmd(deps *Deps) *cobra.Command {
	var f universalFlags
	var outputOverride string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "list every file's heading outline",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(ctx)
			if err != nil {
				return fail(err, deps)
			}

			paths, err := enumeratePaths(ctx, &f, cfg)
			if err != nil {
				return fail(err, deps)
			}

			doc := catalogDoc{FileCount: len(paths)}
			now := time.Now
			if deps != nil && deps.Clock != nil {
				now = deps.Clock
			}
			doc.LastUpdated = now().UTC().Format(time.RFC3339)

			for _, p := range paths {
				data, err := os.ReadFile(p)
				if err != nil {
					continue
				}
				fi, err := docindex.BuildFileIndex(p, data)
				if err != nil {
					continue
				}
				cf := catalogFile{Path: p}
				for _, s := range fi.Sections {
					cf.Headings = append(cf.Headings, catalogHeading{
						Level: s.Depth, Text: s.NormalizedTitle, Anchor: s.Anchor,
					})
				}
				doc.Files = append(doc.Files, cf)
			}

			rendered, err := renderCatalog(doc, f.format)
			if err != nil {
				return fail(err, deps)
			}

			out := cfg.Catalog.Output
			if outputOverride != "" {
				out = outputOverride
			}
			if out == "" {
				fmt.Fprint(deps.Stdout, rendered)
				return nil
			}

			if f.dryRun {
				fmt.Fprint(deps.Stdout, rendered)
				return nil
			}
			if err := atomicio.WriteFile(out, []byte(rendered), 0o644, atomicio.WriteOptions{Backup: f.backup}); err != nil {
				return fail(&mderr.LocatedError{Path: out, Op: "write catalog", Err: fmt.Errorf("%w: %v", mderr.ErrIO, err)}, deps)
			}
			if !f.quiet {
				fmt.Fprintf(deps.Stdout, "wrote %s\n", out)
			}
			return nil
		},
	}

	bindSelectionFlags(cmd, &f)
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print instead of writing catalog.output")
	cmd.Flags().BoolVar(&f.backup, "backup", true, "write a .bak file before overwriting")
	cmd.Flags().StringVar(&outputOverride, "output", "", "override catalog.output for this run")
	return cmd
}

func renderCatalog(doc catalogDoc, format string) (string, error) {
	switch format {
	case "json":
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "markdown":
		s := fmt.Sprintf("# Catalog\n\n_last updated: %s, %d file(s)_\n\n", doc.LastUpdated, doc.FileCount)
		for _, cf := range doc.Files {
			s += fmt.Sprintf("## %s\n\n", cf.Path)
			for _, h := range cf.Headings {
				s += fmt.Sprintf("%s- [%s](#%s)\n", indent(h.Level), h.Text, h.Anchor)
			}
			s += "\n"
		}
		return s, nil
	default:
		s := fmt.Sprintf("%d file(s), last updated %s\n", doc.FileCount, doc.LastUpdated)
		for _, cf := range doc.Files {
			s += fmt.Sprintf("%s\n", cf.Path)
			for _, h := range cf.Headings {
				s += fmt.Sprintf("%s- %s (#%s)\n", indent(h.Level), h.Text, h.Anchor)
			}
		}
		return s, nil
	}
}

func indent(level int) string {
	n := level - 1
	if n < 0 {
		n = 0
	}
	out := ""
	for i := 0; i < n; i++ {
		out += "  "
	}
	return out
}

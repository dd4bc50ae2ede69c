package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mdtool/pkg/atomicio"
	"mdtool/pkg/docindex"
	"mdtool/pkg/mderr"
	"mdtool/pkg/toc"
)

type tocResultJSON struct {
	Mode     string   `json:"mode"`
	Status   string   `json:"status"`
	Diff     string   `json:"diff,omitempty"`
	Messages []string `json:"messages"`
}

// newTOCCmd builds `mdtool toc`: check/update/diff a file's table-of-contents
// block against its rendered heading outline (spec §4.9).
func newTOCCmd(deps *Deps) *cobra.Command {
	var f universalFlags
	var mode string
	var startMarker, endMarker string

	cmd := &cobra.Command{
		Use:   "toc",
		Short: "check, update, or diff a TOC block",
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

			tcfg := toc.Config{
				StartMarker: firstNonEmpty(startMarker, cfg.Lint.TOCStartMarker),
				EndMarker:   firstNonEmpty(endMarker, cfg.Lint.TOCEndMarker),
				MaxDepth:    cfg.Lint.MaxHeadingDepth,
			}

			overallStatus := "unchanged"
			for _, p := range paths {
				data, err := os.ReadFile(p)
				if err != nil {
					continue
				}
				fi, err := docindex.BuildFileIndex(p, data)
				if err != nil {
					continue
				}

				result := tocResultJSON{Mode: mode}
				if (mode == "diff" || mode == "update") && len(toc.FindBlocks(fi.Scan.Data, tcfg)) == 0 {
					result.Status = tocStatusString(toc.NoBlock)
					result.Messages = append(result.Messages, "no TOC block found")
					overallStatus = "error"
					renderTOCResult(deps.Stdout, p, result, f.format, f.quiet)
					continue
				}
				switch mode {
				case "check":
					status := toc.Check(fi, tcfg)
					result.Status = tocStatusString(status)
					if status != toc.Unchanged {
						overallStatus = result.Status
					}
				case "diff":
					d, err := toc.Diff(fi, tcfg)
					if err != nil {
						result.Status = "error"
						result.Messages = append(result.Messages, err.Error())
						overallStatus = "error"
						break
					}
					result.Diff = d
					if d == "" {
						result.Status = "unchanged"
					} else {
						result.Status = "changed"
						if overallStatus != "error" {
							overallStatus = "changed"
						}
					}
				case "update":
					newData, changed, err := toc.Update(fi, tcfg)
					if err != nil {
						result.Status = "error"
						result.Messages = append(result.Messages, err.Error())
						overallStatus = "error"
						break
					}
					if !changed {
						result.Status = "unchanged"
						break
					}
					result.Status = "changed"
					if overallStatus != "error" {
						overallStatus = "changed"
					}
					if f.dryRun {
						d, _ := toc.Diff(fi, tcfg)
						result.Diff = d
						break
					}
					if err := atomicio.WriteFile(p, newData, 0o644, atomicio.WriteOptions{Backup: f.backup}); err != nil {
						return fail(&mderr.LocatedError{Path: p, Op: "write toc", Err: fmt.Errorf("%w: %v", mderr.ErrIO, err)}, deps)
					}
				default:
					return fail(&mderr.LocatedError{Op: "toc", Err: fmt.Errorf("%w: unknown mode %q", mderr.ErrBadRegex, mode)}, deps)
				}

				renderTOCResult(deps.Stdout, p, result, f.format, f.quiet)
			}

			if overallStatus == "error" {
				return failCode(1)
			}
			if mode == "check" && overallStatus == "changed" {
				return failCode(1)
			}
			return nil
		},
	}

	bindSelectionFlags(cmd, &f)
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "compute but do not write changes")
	cmd.Flags().BoolVar(&f.backup, "backup", true, "write a .bak file before overwriting")
	bindNoBackup(cmd, &f)
	cmd.Flags().StringVar(&mode, "mode", "check", "check|update|diff")
	cmd.Flags().StringVar(&startMarker, "start-marker", "", "override the TOC start marker")
	cmd.Flags().StringVar(&endMarker, "end-marker", "", "override the TOC end marker")
	return cmd
}

func tocStatusString(s toc.Status) string {
	switch s {
	case toc.Changed:
		return "changed"
	case toc.NoBlock:
		return "error"
	default:
		return "unchanged"
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func renderTOCResult(w io.Writer, path string, result tocResultJSON, format string, quiet bool) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(struct {
			Path string `json:"path"`
			tocResultJSON
		}{Path: path, tocResultJSON: result})
	default:
		if quiet && result.Status == "unchanged" {
			return
		}
		fmt.Fprintf(w, "%s: %s\n", path, result.Status)
		if result.Diff != "" {
			fmt.Fprint(w, result.Diff)
		}
		for _, m := range result.Messages {
			fmt.Fprintln(w, m)
		}
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mdtool/pkg/docindex"
	"mdtool/pkg/linkgraph"
	"mdtool/pkg/mderr"
	"mdtool/pkg/refactor"
)

type mvResultJSON struct {
	Status       string   `json:"status"`
	Original     string   `json:"original"`
	Output       string   `json:"output"`
	FilesUpdated []string `json:"files_updated"`
	Diff         string   `json:"diff,omitempty"`
}

// newMvCmd builds `mdtool mv`: move one file and rewrite every resolved
// inbound reference to it (spec §4.8).
func newMvCmd(deps *Deps) *cobra.Command {
	var f universalFlags
	var force bool

	cmd := &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "move a file, rewriting inbound links across the repository",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := args[0], args[1]
			ctx := cmd.Context()

			cfg, err := loadConfig(ctx)
			if err != nil {
				return fail(err, deps)
			}

			paths, err := enumeratePaths(ctx, &f, cfg)
			if err != nil {
				return fail(err, deps)
			}

			repo := docindex.NewRepoIndex()
			data := map[string][]byte{}
			for _, p := range paths {
				d, err := os.ReadFile(p)
				if err != nil {
					continue
				}
				fi, err := docindex.BuildFileIndex(p, d)
				if err != nil {
					continue
				}
				repo.Add(fi)
				data[docindex.CanonicalPath(p)] = d
			}

			if _, ok := repo.Lookup(from); !ok {
				return fail(&mderr.LocatedError{Path: from, Op: "move", Err: mderr.ErrPathNotFound}, deps)
			}

			graph := linkgraph.Build(repo)
			plan, err := refactor.Plan([]refactor.FileMove{{From: from, To: to}}, repo, graph, refactor.Options{Force: force})
			if err != nil {
				return fail(err, deps)
			}

			result := mvResultJSON{Status: "ok", Original: from, Output: to}
			for p := range plan.Edits {
				result.FilesUpdated = append(result.FilesUpdated, p)
			}

			if f.dryRun {
				result.Status = "dry-run"
				renderMvResult(deps.Stdout, result, f.format)
				return nil
			}

			if err := refactor.Commit(plan, data, f.backup); err != nil {
				return fail(&mderr.LocatedError{Op: "commit move", Err: fmt.Errorf("%w: %v", mderr.ErrIO, err)}, deps)
			}

			renderMvResult(deps.Stdout, result, f.format)
			return nil
		},
	}

	bindSelectionFlags(cmd, &f)
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "compute the plan but do not write or rename")
	cmd.Flags().BoolVar(&f.backup, "backup", true, "write a .bak file before overwriting edited files")
	bindNoBackup(cmd, &f)
	cmd.Flags().BoolVar(&force, "force", false, "allow moving onto an existing destination path")
	return cmd
}

func renderMvResult(w io.Writer, result mvResultJSON, format string) {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}
	fmt.Fprintf(w, "%s: %s -> %s\n", result.Status, result.Original, result.Output)
	for _, p := range result.FilesUpdated {
		fmt.Fprintf(w, "  updated %s\n", p)
	}
}

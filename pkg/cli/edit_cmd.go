package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mdtool/pkg/atomicio"
	"mdtool/pkg/editengine"
	"mdtool/pkg/mderr"
)

// newEditCmd builds `mdtool edit`, the six heading-scoped section
// operations as subcommands sharing one flag and payload-resolution path.
func newEditCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "apply a heading-scoped section operation",
	}

	cmd.AddCommand(
		newEditOpCmd(deps, "replace", editengine.Replace),
		newEditOpCmd(deps, "delete", editengine.Delete),
		newEditOpCmd(deps, "append-to", editengine.AppendTo),
		newEditOpCmd(deps, "prepend-to", editengine.PrependTo),
		newEditOpCmd(deps, "insert-after", editengine.InsertAfter),
		newEditOpCmd(deps, "insert-before", editengine.InsertBefore),
	)
	return cmd
}

func newEditOpCmd(deps *Deps, name string, op editengine.Operation) *cobra.Command {
	var f universalFlags
	var keepHeading bool

	use := name + " <file> <pattern>"
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("%s the section(s) matching a heading pattern", name),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, pattern := args[0], args[1]

			var payload []byte
			if op != editengine.Delete {
				p, err := resolvePayload(deps, &f)
				if err != nil {
					return fail(err, deps)
				}
				payload = p
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fail(&mderr.LocatedError{Path: path, Op: "read file", Err: mderr.ErrPathNotFound}, deps)
			}

			opts := editengine.Options{
				CaseSensitive:  f.caseSensitive,
				All:            f.all,
				MaxMatches:     f.maxMatches,
				AllowDuplicate: f.allowDup,
				KeepHeading:    keepHeading,
				DryRun:         f.dryRun,
			}

			res, err := editengine.Apply(path, data, op, pattern, payload, opts)
			if err != nil {
				return fail(err, deps)
			}

			for _, m := range res.Messages {
				if !f.quiet {
					fmt.Fprintln(deps.Stderr, m)
				}
			}

			if !res.Applied {
				if !f.quiet {
					fmt.Fprintln(deps.Stdout, "no change: every match was a duplicate")
				}
				return nil
			}

			if f.dryRun {
				fmt.Fprint(deps.Stdout, res.Diff)
				return nil
			}

			if err := atomicio.WriteFile(path, res.NewData, 0o644, atomicio.WriteOptions{Backup: f.backup}); err != nil {
				return fail(&mderr.LocatedError{Path: path, Op: "write file", Err: fmt.Errorf("%w: %v", mderr.ErrIO, err)}, deps)
			}
			if !f.quiet {
				fmt.Fprintf(deps.Stdout, "wrote %s\n", path)
			}
			return nil
		},
	}

	bindSelectionFlags(cmd, &f)
	bindEditFlags(cmd, &f)
	bindNoBackup(cmd, &f)
	if name == "replace" {
		cmd.Flags().BoolVar(&keepHeading, "keep-heading", false, "replace only the body, keeping the existing heading")
	}
	return cmd
}

// resolvePayload resolves --with/--with-string/stdin per spec §4.5's
// precedence: an explicit --with-string wins, then --with (file or "-" for
// stdin).
func resolvePayload(deps *Deps, f *universalFlags) ([]byte, error) {
	if f.withString != "" {
		return editengine.PayloadFromString(f.withString)
	}
	if f.with == "-" {
		return editengine.PayloadFromReader(deps.Stdin)
	}
	if f.with != "" {
		return editengine.PayloadFromFile(f.with)
	}
	return nil, &mderr.LocatedError{Op: "resolve payload", Err: mderr.ErrPayloadSource}
}

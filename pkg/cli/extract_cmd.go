package cli

import (
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"mdtool/pkg/docindex"
	"mdtool/pkg/mderr"
)

// newExtractCmd builds `mdtool extract`: print the body of every section
// matching pattern, across one or more files (spec §4.4's read surface).
func newExtractCmd(deps *Deps) *cobra.Command {
	var f universalFlags

	cmd := &cobra.Command{
		Use:   "extract <pattern>",
		Short: "print the body of sections matching a heading pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]
			ctx := cmd.Context()

			cfg, err := loadConfig(ctx)
			if err != nil {
				return fail(err, deps)
			}

			paths, err := enumeratePaths(ctx, &f, cfg)
			if err != nil {
				return fail(err, deps)
			}

			re, err := compileExtractPattern(pattern, f.caseSensitive)
			if err != nil {
				return fail(&mderr.LocatedError{Op: "compile pattern", Err: mderr.ErrBadRegex}, deps)
			}

			matched := false
			for _, p := range paths {
				data, err := os.ReadFile(p)
				if err != nil {
					continue
				}
				fi, err := docindex.BuildFileIndex(p, data)
				if err != nil {
					continue
				}
				for _, s := range docindex.Match(fi, re) {
					matched = true
					fmt.Fprintf(deps.Stdout, "## %s (%s#%s)\n\n", s.NormalizedTitle, p, s.Anchor)
					deps.Stdout.Write(s.Body(data))
					fmt.Fprintln(deps.Stdout)
				}
			}

			if !matched {
				return fail(&mderr.LocatedError{Op: "extract", Err: mderr.ErrSectionNotFound}, deps)
			}
			return nil
		},
	}

	bindSelectionFlags(cmd, &f)
	cmd.Flags().BoolVar(&f.caseSensitive, "case-sensitive", false, "match pattern case-sensitively")
	return cmd
}

func compileExtractPattern(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

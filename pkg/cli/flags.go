package cli

import (
	"context"

	"github.com/spf13/cobra"

	"mdtool/pkg/config"
	"mdtool/pkg/docindex"
	"mdtool/pkg/enumerate"
	"mdtool/pkg/mderr"
)

// universalFlags is the subset of spec §6's universal flags that apply
// across multiple commands. Each command binds only the flags it uses.
type universalFlags struct {
	paths         []string
	staged        bool
	noIgnore      bool
	format        string
	quiet         bool
	dryRun        bool
	backup        bool
	caseSensitive bool
	all           bool
	maxMatches    int
	allowDup      bool
	with          string
	withString    string
}

func bindSelectionFlags(cmd *cobra.Command, f *universalFlags) {
	cmd.Flags().StringSliceVar(&f.paths, "path", nil, "explicit file(s) to operate on")
	cmd.Flags().BoolVar(&f.staged, "staged", false, "restrict to files staged in the VCS")
	cmd.Flags().BoolVar(&f.noIgnore, "no-ignore", false, "do not apply .markdown-doc-ignore")
	cmd.Flags().StringVar(&f.format, "format", "plain", "output format: plain|json|markdown|sarif")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress non-essential output")
}

func bindEditFlags(cmd *cobra.Command, f *universalFlags) {
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "compute but do not write changes")
	cmd.Flags().BoolVar(&f.backup, "backup", true, "write a .bak file before overwriting")
	cmd.Flags().BoolVar(&f.caseSensitive, "case-sensitive", false, "match pattern case-sensitively")
	cmd.Flags().BoolVar(&f.all, "all", false, "apply to every matching section")
	cmd.Flags().IntVar(&f.maxMatches, "max-matches", 0, "fail if more than N sections match")
	cmd.Flags().BoolVar(&f.allowDup, "allow-duplicate", false, "skip the duplicate-content guard")
	cmd.Flags().StringVar(&f.with, "with", "", "payload source file, or - for stdin")
	cmd.Flags().StringVar(&f.withString, "with-string", "", "inline payload string")
}

// bindNoBackup lets --no-backup override --backup=true's default.
func bindNoBackup(cmd *cobra.Command, f *universalFlags) {
	var noBackup bool
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "never write a .bak file")
	orig := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if noBackup {
			f.backup = false
		}
		if orig != nil {
			return orig(cmd, args)
		}
		return nil
	}
}

// enumeratePaths resolves the file set for a command given universal
// selection flags, applying the precedence rules of spec §4.11.
func enumeratePaths(ctx context.Context, f *universalFlags, cfg *config.Config) ([]string, error) {
	d := depsFromContext(ctx)
	opts := enumerate.Options{
		Explicit: f.paths,
		Staged:   f.staged,
		NoIgnore: f.noIgnore,
	}
	if cfg != nil {
		opts.IncludeGlobs = cfg.Catalog.IncludePatterns
		opts.ExcludeGlobs = cfg.Catalog.ExcludePatterns
	}
	var git enumerate.GitRunner
	if d != nil {
		git = d.Git
	}
	return enumerate.Enumerate(ctx, opts, git)
}

// loadConfig loads deps.ConfigPath if it exists, returning a zero Config
// when there is no config file at all. The zero Config carries no defaults:
// its max heading depth is 0 (no depth limit) and it defines no schemas;
// empty TOC markers fall back to the toc package's own defaults.
func loadConfig(ctx context.Context) (*config.Config, error) {
	d := depsFromContext(ctx)
	if d == nil || d.ConfigPath == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.Load(d.ConfigPath)
	if err != nil {
		if mderr.IsNotFound(err) {
			return &config.Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// loadRepoIndex reads and indexes every path in paths.
func loadRepoIndex(paths []string, read func(string) ([]byte, error)) (*docindex.RepoIndex, error) {
	repo := docindex.NewRepoIndex()
	for _, p := range paths {
		data, err := read(p)
		if err != nil {
			return nil, &mderr.LocatedError{Path: p, Op: "read file", Err: mderr.ErrPathNotFound}
		}
		fi, err := docindex.BuildFileIndex(p, data)
		if err != nil {
			return nil, err
		}
		repo.Add(fi)
	}
	return repo, nil
}

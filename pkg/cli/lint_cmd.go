package cli

import (
	"os"

	"github.com/spf13/cobra"

	"mdtool/pkg/docindex"
	"mdtool/pkg/lint"
	"mdtool/pkg/linkgraph"
	"mdtool/pkg/mderr"
)

// newLintCmd builds `mdtool lint`: run the full rule registry (or a subset
// via --rules) across the selected file set and report findings (spec
// §4.10).
func newLintCmd(deps *Deps) *cobra.Command {
	var f universalFlags
	var rules []string

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "check Markdown files against the lint rule registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLintPipeline(cmd, deps, &f, lint.Options{Rules: rules}, false)
		},
	}

	bindSelectionFlags(cmd, &f)
	cmd.Flags().StringSliceVar(&rules, "rules", nil, "restrict to this subset of rule ids")
	return cmd
}

// newValidateCmd builds `mdtool validate`: required-sections-focused check
// against a named or selected schema, exiting 2 if the schema itself
// cannot be found (spec §6).
func newValidateCmd(deps *Deps) *cobra.Command {
	var f universalFlags
	var schema string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "validate Markdown files against their documentation schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLintPipeline(cmd, deps, &f, lint.Options{SchemaOverride: schema}, true)
		},
	}

	bindSelectionFlags(cmd, &f)
	cmd.Flags().StringVar(&schema, "schema", "", "force this schema name instead of glob selection")
	return cmd
}

func runLintPipeline(cmd *cobra.Command, deps *Deps, f *universalFlags, opts lint.Options, validateOnly bool) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return fail(err, deps)
	}

	if validateOnly && opts.SchemaOverride != "" {
		if _, ok := cfg.Schemas[opts.SchemaOverride]; !ok {
			return fail(&mderr.SchemaNotFoundError{Name: opts.SchemaOverride}, deps)
		}
	}

	paths, err := enumeratePaths(ctx, f, cfg)
	if err != nil {
		return fail(err, deps)
	}

	repo := docindex.NewRepoIndex()
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		fi, err := docindex.BuildFileIndex(p, data)
		if err != nil {
			continue
		}
		repo.Add(fi)
	}

	graph := linkgraph.Build(repo)
	if validateOnly {
		opts.Rules = []string{lint.RuleRequiredSections}
	}

	findings := lint.Run(repo, graph, cfg, opts)
	summary := lint.Summarize(findings, repo.Len())

	exitCode := renderLintFindings(deps.Stdout, findings, summary, f.format)
	if exitCode != 0 {
		return failCode(1)
	}
	return nil
}

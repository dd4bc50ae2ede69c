package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdtool/pkg/config"
	"mdtool/pkg/docindex"
	"mdtool/pkg/linkgraph"
)

func mustIndex(t *testing.T, path, data string) *docindex.FileIndex {
	t.Helper()
	fi, err := docindex.BuildFileIndex(path, []byte(data))
	require.NoError(t, err)
	return fi
}

func emptyConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Lint.MaxHeadingDepth = 4
	return cfg
}

func TestRun_BrokenAnchorSuggestsNearest(t *testing.T) {
	t.Parallel()

	repo := docindex.NewRepoIndex()
	repo.Add(mustIndex(t, "a.md", "# A\n\nsee [x](./b.md#instal).\n"))
	repo.Add(mustIndex(t, "b.md", "# B\n\n## Install\n\nsteps.\n"))

	g := linkgraph.Build(repo)
	findings := Run(repo, g, emptyConfig(), Options{})

	require.Len(t, findings, 1)
	assert.Equal(t, RuleBrokenAnchors, findings[0].RuleID)
	assert.Equal(t, Error, findings[0].Severity)
	assert.Contains(t, findings[0].Suggestion, "install")
}

func TestRun_BrokenLinkUnresolvedPath(t *testing.T) {
	t.Parallel()

	repo := docindex.NewRepoIndex()
	repo.Add(mustIndex(t, "a.md", "# A\n\nsee [x](./missing.md).\n"))

	g := linkgraph.Build(repo)
	findings := Run(repo, g, emptyConfig(), Options{})

	require.Len(t, findings, 1)
	assert.Equal(t, RuleBrokenLinks, findings[0].RuleID)
}

func TestRun_DuplicateAnchorsFlagsSecondOccurrence(t *testing.T) {
	t.Parallel()

	repo := docindex.NewRepoIndex()
	repo.Add(mustIndex(t, "a.md", "# A B\n\n## A B\n\nbody.\n"))

	g := linkgraph.Build(repo)
	findings := Run(repo, g, emptyConfig(), Options{})

	require.Len(t, findings, 1)
	assert.Equal(t, RuleDuplicateAnchors, findings[0].RuleID)
}

func TestRun_HeadingHierarchyDepthJump(t *testing.T) {
	t.Parallel()

	repo := docindex.NewRepoIndex()
	repo.Add(mustIndex(t, "a.md", "# A\n\n### Too Deep\n\nbody.\n"))

	g := linkgraph.Build(repo)
	findings := Run(repo, g, emptyConfig(), Options{})

	require.Len(t, findings, 1)
	assert.Equal(t, RuleHeadingHierarchy, findings[0].RuleID)
}

func TestRun_IgnoreOverlaySuppressesFinding(t *testing.T) {
	t.Parallel()

	repo := docindex.NewRepoIndex()
	repo.Add(mustIndex(t, "a.md", "# A\n\nsee [x](./missing.md).\n"))

	g := linkgraph.Build(repo)
	cfg := emptyConfig()
	cfg.Lint.Ignore = []config.LintIgnore{{Path: "a.md", Rules: []string{RuleBrokenLinks}}}

	findings := Run(repo, g, cfg, Options{})
	assert.Empty(t, findings)
}

func TestRun_FindingsSortedDeterministically(t *testing.T) {
	t.Parallel()

	repo := docindex.NewRepoIndex()
	repo.Add(mustIndex(t, "a.md", "# A\n\nsee [x](./missing.md) and [y](./missing2.md).\n"))

	g := linkgraph.Build(repo)
	findings := Run(repo, g, emptyConfig(), Options{})

	require.Len(t, findings, 2)
	assert.LessOrEqual(t, findings[0].ByteOffset, findings[1].ByteOffset)
}

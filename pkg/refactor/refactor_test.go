package refactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdtool/pkg/docindex"
	"mdtool/pkg/linkgraph"
)

func mustIndex(t *testing.T, path, data string) *docindex.FileIndex {
	t.Helper()
	fi, err := docindex.BuildFileIndex(path, []byte(data))
	require.NoError(t, err)
	return fi
}

func TestPlan_MoveRewritesInboundLinkPreservingAnchor(t *testing.T) {
	t.Parallel()

	repo := docindex.NewRepoIndex()
	repo.Add(mustIndex(t, "docs/guide.md", "# Guide\n\nsee [see](../README.md#install).\n"))
	repo.Add(mustIndex(t, "README.md", "# Project\n\n## Install\n\nsteps.\n"))

	g := linkgraph.Build(repo)
	plan, err := Plan([]FileMove{{From: "README.md", To: "docs/README.md"}}, repo, g, Options{})
	require.NoError(t, err)

	edits, ok := plan.Edits["docs/guide.md"]
	require.True(t, ok)
	require.Len(t, edits, 1)
	assert.Equal(t, "[see](README.md#install)", string(edits[0].Replacement))
}

func TestPlan_DestinationExistsFailsWithoutForce(t *testing.T) {
	t.Parallel()

	repo := docindex.NewRepoIndex()
	repo.Add(mustIndex(t, "a.md", "# A\n"))
	repo.Add(mustIndex(t, "b.md", "# B\n"))

	g := linkgraph.Build(repo)
	_, err := Plan([]FileMove{{From: "a.md", To: "b.md"}}, repo, g, Options{})
	require.Error(t, err)
}

func TestRelPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		dir, target, want string
	}{
		{".", "README.md", "README.md"},
		{"docs", "README.md", "../README.md"},
		{"docs", "docs/README.md", "README.md"},
		{"docs/sub", "README.md", "../../README.md"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, relPath(c.dir, c.target))
	}
}

package linkgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdtool/pkg/docindex"
)

func mustIndex(t *testing.T, path, data string) *docindex.FileIndex {
	t.Helper()
	fi, err := docindex.BuildFileIndex(path, []byte(data))
	require.NoError(t, err)
	return fi
}

func TestBuild_ResolvesRelativePathAndAnchor(t *testing.T) {
	t.Parallel()

	repo := docindex.NewRepoIndex()
	repo.Add(mustIndex(t, "docs/guide.md", "# Guide\n\nsee [install](../README.md#install).\n"))
	repo.Add(mustIndex(t, "README.md", "# Project\n\n## Install\n\nsteps.\n"))

	g := Build(repo)

	fwd := g.Forward("docs/guide.md")
	require.Len(t, fwd, 1)
	assert.True(t, fwd[0].Resolved)
	assert.Equal(t, docindex.CanonicalPath("README.md"), fwd[0].ResolvedPath)

	backs := g.Reverse("README.md", "install")
	require.Len(t, backs, 1)
	assert.Equal(t, "docs/guide.md", backs[0].Link.SourcePath)
}

func TestBuild_UnresolvedRelativePath(t *testing.T) {
	t.Parallel()

	repo := docindex.NewRepoIndex()
	repo.Add(mustIndex(t, "docs/guide.md", "# Guide\n\nsee [missing](./nope.md).\n"))

	g := Build(repo)
	fwd := g.Forward("docs/guide.md")
	require.Len(t, fwd, 1)
	assert.False(t, fwd[0].Resolved)
}

func TestBuild_AnchorOnlyResolvesToSourceFile(t *testing.T) {
	t.Parallel()

	repo := docindex.NewRepoIndex()
	repo.Add(mustIndex(t, "README.md", "# Project\n\n## Install\n\nsee [top](#project).\n"))

	g := Build(repo)
	fwd := g.Forward("README.md")
	require.Len(t, fwd, 1)
	assert.True(t, fwd[0].Resolved)
	assert.Equal(t, docindex.CanonicalPath("README.md"), fwd[0].ResolvedPath)
}

func TestBuild_AutolinksAreUnsupportedNotRewritten(t *testing.T) {
	t.Parallel()

	repo := docindex.NewRepoIndex()
	repo.Add(mustIndex(t, "README.md", "# Project\n\nsee <https://example.com>.\n"))

	g := Build(repo)
	fwd := g.Forward("README.md")
	require.Len(t, fwd, 1)
	assert.True(t, fwd[0].Unsupported)
}

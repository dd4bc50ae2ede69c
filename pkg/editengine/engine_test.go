package editengine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_ReplaceKeepHeading(t *testing.T) {
	t.Parallel()

	data := []byte("# Title\n\n## Install\n\nold body text.\n\n## Usage\n\nmore.\n")
	payload := []byte("new body text.\n")

	res, err := Apply("doc.md", data, Replace, "Install", payload, Options{KeepHeading: true})
	require.NoError(t, err)
	require.True(t, res.Applied)

	assert.Contains(t, string(res.NewData), "## Install\nnew body text.\n")
	assert.Contains(t, string(res.NewData), "## Usage")
	assert.NotContains(t, string(res.NewData), "old body text")
}

func TestApply_ReplaceWholeSectionRequiresMatchingDepth(t *testing.T) {
	t.Parallel()

	data := []byte("# Title\n\n## Install\n\nold body.\n")
	payload := []byte("### Install\n\nwrong depth.\n")

	_, err := Apply("doc.md", data, Replace, "Install", payload, Options{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "depth"))
}

func TestApply_InsertAfterRequiresDepthAtLeastTarget(t *testing.T) {
	t.Parallel()

	data := []byte("# Title\n\n## Install\n\nbody.\n\n## Usage\n\nmore.\n")
	payload := []byte("### Sub\n\nnested.\n")

	res, err := Apply("doc.md", data, InsertAfter, "Install", payload, Options{})
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Contains(t, string(res.NewData), "### Sub")

	shallow := []byte("# Sub\n\ntoo shallow.\n")
	_, err = Apply("doc.md", data, InsertAfter, "Install", shallow, Options{})
	require.Error(t, err)
}

func TestApply_AppendToDuplicateGuardNoOp(t *testing.T) {
	t.Parallel()

	data := []byte("# Title\n\n## Install\n\nrun `make build`.\n")
	payload := []byte("run `make build`.\n")

	res, err := Apply("doc.md", data, AppendTo, "Install", payload, Options{})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, data, res.NewData)
	require.Len(t, res.Messages, 1)
	assert.Contains(t, res.Messages[0], "duplicate")
}

func TestApply_AppendToAllowDuplicateForcesWrite(t *testing.T) {
	t.Parallel()

	data := []byte("# Title\n\n## Install\n\nrun `make build`.\n")
	payload := []byte("run `make build`.\n")

	res, err := Apply("doc.md", data, AppendTo, "Install", payload, Options{AllowDuplicate: true})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 2, strings.Count(string(res.NewData), "run `make build`."))
}

func TestApply_NoMatchReturnsNotFound(t *testing.T) {
	t.Parallel()

	data := []byte("# Title\n\nnothing here.\n")
	_, err := Apply("doc.md", data, Delete, "Missing", nil, Options{})
	require.Error(t, err)
}

func TestApply_MultipleMatchesWithoutAllFails(t *testing.T) {
	t.Parallel()

	data := []byte("# Title\n\n## Notes\n\na.\n\n## Notes\n\nb.\n")
	_, err := Apply("doc.md", data, Delete, "Notes", nil, Options{})
	require.Error(t, err)
}

func TestApply_MultipleMatchesWithAllAppliesHighestOffsetFirst(t *testing.T) {
	t.Parallel()

	data := []byte("# Title\n\n## Notes\n\na.\n\n## Notes\n\nb.\n")
	res, err := Apply("doc.md", data, Delete, "Notes", nil, Options{All: true})
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.NotContains(t, string(res.NewData), "## Notes")
}

func TestApply_DeleteCollapsesBlankLineAtEOF(t *testing.T) {
	t.Parallel()

	// "## B" is the last section in the file: the bytes before its heading
	// already end in a blank line, and its body runs to EOF, so deleting it
	// should leave exactly the preceding blank line behind rather than
	// appending a second one.
	data := []byte("# Title\n\n## A\n\nbody a.\n\n## B\n\nbody b.\n")

	res, err := Apply("doc.md", data, Delete, "^B$", nil, Options{})
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, "# Title\n\n## A\n\nbody a.\n\n", string(res.NewData))
}

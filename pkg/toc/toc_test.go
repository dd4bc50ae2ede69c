package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdtool/pkg/docindex"
)

func mustIndex(t *testing.T, data string) *docindex.FileIndex {
	t.Helper()
	fi, err := docindex.BuildFileIndex("doc.md", []byte(data))
	require.NoError(t, err)
	return fi
}

func TestUpdate_RendersNestedHeadingsWithDecorationStripped(t *testing.T) {
	t.Parallel()

	data := "<!-- toc -->\n<!-- tocstop -->\n\n# A\n\n## B\n\n## C (x!)\n"
	fi := mustIndex(t, data)

	out, changed, err := Update(fi, Config{})
	require.NoError(t, err)
	require.True(t, changed)

	want := "<!-- toc -->\n- [A](#a)\n  - [B](#b)\n  - [C (x!)](#c-x)\n<!-- tocstop -->\n\n# A\n\n## B\n\n## C (x!)\n"
	assert.Equal(t, want, string(out))
}

func TestUpdate_IsIdempotent(t *testing.T) {
	t.Parallel()

	data := "<!-- toc -->\n<!-- tocstop -->\n\n# A\n\n## B\n\n## C (x!)\n"
	fi := mustIndex(t, data)

	first, changed, err := Update(fi, Config{})
	require.NoError(t, err)
	require.True(t, changed)

	fi2 := mustIndex(t, string(first))
	second, changed2, err := Update(fi2, Config{})
	require.NoError(t, err)
	assert.False(t, changed2)
	assert.Equal(t, first, second)
}

func TestCheck_NoBlockReportsError(t *testing.T) {
	t.Parallel()

	fi := mustIndex(t, "# A\n\nno markers here.\n")
	assert.Equal(t, NoBlock, Check(fi, Config{}))
}

func TestCheck_UnchangedWhenBodyMatchesRender(t *testing.T) {
	t.Parallel()

	data := "<!-- toc -->\n- [A](#a)\n<!-- tocstop -->\n\n# A\n"
	fi := mustIndex(t, data)
	assert.Equal(t, Unchanged, Check(fi, Config{}))
}

func TestRender_MaxDepthFilter(t *testing.T) {
	t.Parallel()

	fi := mustIndex(t, "# A\n\n## B\n\n### Deep\n")
	got := Render(fi.Sections, Config{MaxDepth: 2})
	assert.NotContains(t, got, "Deep")
	assert.Contains(t, got, "[B](#b)")
}

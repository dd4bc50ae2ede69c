package enumerate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGit struct {
	files []string
	err   error
}

func (s stubGit) StagedFiles(ctx context.Context, root string) ([]string, error) {
	return s.files, s.err
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func TestEnumerate_ExplicitPathsTakePrecedence(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"a.md": "# A\n", "b.md": "# B\n"})
	paths, err := Enumerate(context.Background(), Options{Root: dir, Explicit: []string{"only.md"}}, stubGit{})
	require.NoError(t, err)
	assert.Equal(t, []string{"only.md"}, paths)
}

func TestEnumerate_WalksAndSortsMarkdownFiles(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"b.md":      "# B\n",
		"a.md":      "# A\n",
		"notes.txt": "ignore me\n",
		"docs/c.md": "# C\n",
	})
	paths, err := Enumerate(context.Background(), Options{Root: dir}, stubGit{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.md", "docs/c.md"}, paths)
}

func TestEnumerate_StagedFiltersToVCSReportedPaths(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"a.md": "# A\n", "b.md": "# B\n"})
	git := stubGit{files: []string{"a.md"}}
	paths, err := Enumerate(context.Background(), Options{Root: dir, Staged: true}, git)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md"}, paths)
}

func TestEnumerate_IgnoreFileExcludesMatches(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"a.md":                 "# A\n",
		"vendor/b.md":          "# B\n",
		".markdown-doc-ignore": "vendor/\n",
	})
	paths, err := Enumerate(context.Background(), Options{Root: dir}, stubGit{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md"}, paths)
}

func TestEnumerate_NoIgnoreDisablesIgnoreFile(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"a.md":                 "# A\n",
		"vendor/b.md":          "# B\n",
		".markdown-doc-ignore": "vendor/\n",
	})
	paths, err := Enumerate(context.Background(), Options{Root: dir, NoIgnore: true}, stubGit{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "vendor/b.md"}, paths)
}

package atomicio_test

import (
	"os"
	"path/filepath"
	"testing"

	"mdtool/pkg/atomicio"

	"github.com/stretchr/testify/require"
)

func TestWriteFile_ReplacesContentAndBacksUp(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(p, []byte("old\n"), 0o644))

	err := atomicio.WriteFile(p, []byte("new\n"), 0o644, atomicio.WriteOptions{Backup: true})
	require.NoError(t, err)

	got, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, "new\n", string(got))

	bak, err := os.ReadFile(p + ".bak")
	require.NoError(t, err)
	require.Equal(t, "old\n", string(bak))
}

func TestWriteFile_NoBackupByDefault(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(p, []byte("old\n"), 0o644))

	require.NoError(t, atomicio.WriteFile(p, []byte("new\n"), 0o644, atomicio.WriteOptions{}))

	_, err := os.Stat(p + ".bak")
	require.True(t, os.IsNotExist(err))
}

func TestFinalNewlinePolicy(t *testing.T) {
	t.Parallel()
	require.Equal(t, []byte("x\n"), atomicio.FinalNewlinePolicy(true, []byte("x")))
	require.Equal(t, []byte("x"), atomicio.FinalNewlinePolicy(false, []byte("x\n")))
	require.Equal(t, []byte("x\n"), atomicio.FinalNewlinePolicy(true, []byte("x\n")))
}

package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mdtool/pkg/cli"
	"mdtool/pkg/enumerate"
)

// fixture bundles common CLI-test setup: a temp project directory and
// buffer-backed Deps, mirroring the teacher's Fixture pattern but built on
// mdtool's own Deps/enumerate types instead of an inaccessible sandbox.
type fixture struct {
	t    *testing.T
	dir  string
	out  bytes.Buffer
	err  bytes.Buffer
	deps *cli.Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{t: t, dir: dir}
	f.deps = &cli.Deps{
		Stdout:     &f.out,
		Stderr:     &f.err,
		Stdin:      bytes.NewReader(nil),
		ConfigPath: filepath.Join(dir, ".markdown-doc.toml"),
		Git:        stubGit{},
		Clock:      func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		LogLevel:   "info",
	}
	return f
}

func (f *fixture) writeFile(name, content string) string {
	f.t.Helper()
	p := filepath.Join(f.dir, name)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(f.t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func (f *fixture) run(args ...string) int {
	f.t.Helper()
	cwd, err := os.Getwd()
	require.NoError(f.t, err)
	require.NoError(f.t, os.Chdir(f.dir))
	defer func() { _ = os.Chdir(cwd) }()
	return cli.Run(f.t.Context(), f.deps, args)
}

type stubGit struct{}

func (stubGit) StagedFiles(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

var _ enumerate.GitRunner = stubGit{}

func TestExtract_PrintsMatchingSectionBody(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.writeFile("doc.md", "# Title\n\n## Install\n\nRun `go install`.\n")

	code := f.run("extract", "Install")
	require.Equal(t, 0, code)
	require.Contains(t, f.out.String(), "Run `go install`.")
}

func TestExtract_NoMatchExitsNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.writeFile("doc.md", "# Title\n\nBody.\n")

	code := f.run("extract", "Nope")
	require.Equal(t, 1, code)
	require.NotEmpty(t, f.err.String())
}

func TestEditAppendTo_WritesAppendedBody(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	path := f.writeFile("doc.md", "# Title\n\n## Notes\n\nFirst line.\n")

	code := f.run("edit", "append-to", path, "Notes", "--with-string", "Second line.")
	require.Equal(t, 0, code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "First line.")
	require.Contains(t, string(data), "Second line.")
}

func TestEditReplace_MultipleMatchesWithoutAllExitsTwo(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	path := f.writeFile("doc.md", "# A\n\nbody\n\n# A\n\nbody\n")

	code := f.run("edit", "replace", path, "^A$", "--with-string", "# A\\nnew body")
	require.Equal(t, 2, code)
}

func TestCatalog_JSONListsHeadings(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.writeFile("doc.md", "# Title\n\n## Section\n\nBody.\n")

	code := f.run("catalog", "--format", "json")
	require.Equal(t, 0, code)
	require.Contains(t, f.out.String(), `"text": "Section"`)
	require.Contains(t, f.out.String(), `"file_count": 1`)
}

func TestLint_BrokenLinkReportsErrorAndExitsOne(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.writeFile("doc.md", "# Title\n\nSee [missing](./missing.md).\n")

	code := f.run("lint")
	require.Equal(t, 1, code)
	require.Contains(t, f.out.String(), "broken-links")
}

func TestLint_CleanRepoExitsZero(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.writeFile("doc.md", "# Title\n\nBody.\n")

	code := f.run("lint")
	require.Equal(t, 0, code)
}

func TestValidate_UnknownSchemaExitsTwo(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.writeFile("doc.md", "# Title\n\nBody.\n")

	code := f.run("validate", "--schema", "does-not-exist")
	require.Equal(t, 2, code)
}

func TestTOC_CheckReportsChangedWhenMissing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.writeFile("doc.md", "# Title\n\n<!-- toc -->\n<!-- tocstop -->\n\n## One\n\nBody.\n")

	code := f.run("toc", "--mode", "check")
	require.Equal(t, 1, code)
	require.Contains(t, f.out.String(), "changed")
}

func TestTOC_UpdateWritesRenderedList(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	path := f.writeFile("doc.md", "# Title\n\n<!-- toc -->\n<!-- tocstop -->\n\n## One\n\nBody.\n")

	code := f.run("toc", "--mode", "update")
	require.Equal(t, 0, code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "- [One](#one)")
}

func TestMv_RewritesInboundLink(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.writeFile("README.md", "# Readme\n\nInstall steps.\n")
	guide := f.writeFile("docs/guide.md", "# Guide\n\nSee [readme](../README.md).\n")
	_ = guide

	code := f.run("mv", "README.md", "docs/README.md")
	require.Equal(t, 0, code, f.err.String())

	data, err := os.ReadFile(filepath.Join(f.dir, "docs", "guide.md"))
	require.NoError(t, err)
	require.Contains(t, string(data), "(README.md)")

	_, err = os.Stat(filepath.Join(f.dir, "docs", "README.md"))
	require.NoError(t, err)
}

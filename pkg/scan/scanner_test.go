package scan_test

import (
	"testing"

	"mdtool/pkg/scan"

	"github.com/stretchr/testify/require"
)

func TestScan_BasicHeadingsNest(t *testing.T) {
	t.Parallel()
	data := []byte("# Welcome\nintro\n## Install\nsteps\n## Installed\ndone\n")

	fs, err := scan.Scan("doc.md", data)
	require.NoError(t, err)
	require.Len(t, fs.Sections, 3)

	require.Equal(t, 1, fs.Sections[0].Depth)
	require.Equal(t, "Welcome", string(fs.Sections[0].RawTitle))
	require.Equal(t, len(data), fs.Sections[0].BodyEnd)

	require.Equal(t, 2, fs.Sections[1].Depth)
	require.Equal(t, "Install", string(fs.Sections[1].RawTitle))
	require.Equal(t, fs.Sections[2].HeadingStart, fs.Sections[1].BodyEnd)

	require.Equal(t, 2, fs.Sections[2].Depth)
	require.Equal(t, "Installed", string(fs.Sections[2].RawTitle))
	require.Equal(t, len(data), fs.Sections[2].BodyEnd)
}

func TestScan_HeadingsInsideFencedCodeAreIgnored(t *testing.T) {
	t.Parallel()
	data := []byte("# A\n\n```\n# not a heading\n```\n\n## B\nbody\n")
	fs, err := scan.Scan("doc.md", data)
	require.NoError(t, err)
	require.Len(t, fs.Sections, 2)
	require.Equal(t, "B", string(fs.Sections[1].RawTitle))
}

func TestScan_HeadingsInsideTildeFenceAreIgnored(t *testing.T) {
	t.Parallel()
	data := []byte("# A\n\n~~~\n## nope\n~~~\n\nbody\n")
	fs, err := scan.Scan("doc.md", data)
	require.NoError(t, err)
	require.Len(t, fs.Sections, 1)
}

func TestScan_IndentedCodeHeadingsIgnored(t *testing.T) {
	t.Parallel()
	data := []byte("# A\n\nparagraph\n\n    # not a heading\n    still code\n\nmore text\n")
	fs, err := scan.Scan("doc.md", data)
	require.NoError(t, err)
	require.Len(t, fs.Sections, 1)
}

func TestScan_FrontMatterSkipped(t *testing.T) {
	t.Parallel()
	data := []byte("---\ntitle: x\n---\n# A\nbody\n")
	fs, err := scan.Scan("doc.md", data)
	require.NoError(t, err)
	require.True(t, fs.HasFrontMatter)
	require.Len(t, fs.Sections, 1)
	require.Equal(t, "A", string(fs.Sections[0].RawTitle))
}

func TestScan_SetextHeadings(t *testing.T) {
	t.Parallel()
	data := []byte("Title One\n=========\nbody\n\nSub\n---\nmore\n")
	fs, err := scan.Scan("doc.md", data)
	require.NoError(t, err)
	require.Len(t, fs.Sections, 2)
	require.Equal(t, scan.Setext, fs.Sections[0].Kind)
	require.Equal(t, 1, fs.Sections[0].Depth)
	require.Equal(t, "Title One", string(fs.Sections[0].RawTitle))
	require.Equal(t, 2, fs.Sections[1].Depth)
}

func TestScan_SetextUnderlineLengthOneAccepted(t *testing.T) {
	t.Parallel()
	data := []byte("T\n=\nbody\n")
	fs, err := scan.Scan("doc.md", data)
	require.NoError(t, err)
	require.Len(t, fs.Sections, 1)
}

func TestScan_NoHeadingsYieldsZeroSections(t *testing.T) {
	t.Parallel()
	fs, err := scan.Scan("doc.md", []byte("just some text\nand more\n"))
	require.NoError(t, err)
	require.Empty(t, fs.Sections)
}

func TestScan_NestedSectionsExtendToEOF(t *testing.T) {
	t.Parallel()
	data := []byte("preamble\n\n# A\nbody a\n## B\nbody b\n### C\nbody c\n")
	fs, err := scan.Scan("doc.md", data)
	require.NoError(t, err)
	require.Len(t, fs.Sections, 3)
	for i := 1; i < len(fs.Sections); i++ {
		require.Equal(t, len(data), fs.Sections[i-1].BodyEnd)
	}
	require.Equal(t, len(data), fs.Sections[len(fs.Sections)-1].BodyEnd)
}

func TestScan_InvalidUTF8Rejected(t *testing.T) {
	t.Parallel()
	_, err := scan.Scan("doc.md", []byte{0xff, 0xfe, 0x00})
	require.Error(t, err)
}

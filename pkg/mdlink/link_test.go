package mdlink_test

import (
	"testing"

	"mdtool/pkg/mdlink"

	"github.com/stretchr/testify/require"
)

func TestExtract_InlineLink(t *testing.T) {
	t.Parallel()
	data := []byte("see [install guide](./install.md#setup) for more")
	links := mdlink.Extract("doc.md", data, 0, len(data))
	require.Len(t, links, 1)
	l := links[0]
	require.Equal(t, mdlink.Inline, l.Kind)
	require.Equal(t, "install guide", l.Text)
	require.Equal(t, "./install.md", l.Path)
	require.Equal(t, "setup", l.Anchor)
	require.Equal(t, "[install guide](./install.md#setup)", string(data[l.ByteStart:l.ByteEnd]))
}

func TestExtract_Image(t *testing.T) {
	t.Parallel()
	data := []byte("![a logo](logo.png)")
	links := mdlink.Extract("doc.md", data, 0, len(data))
	require.Len(t, links, 1)
	require.Equal(t, mdlink.Image, links[0].Kind)
	require.Equal(t, "a logo", links[0].Text)
	require.Equal(t, 0, links[0].ByteStart)
	require.Equal(t, len(data), links[0].ByteEnd)
}

func TestExtract_AnchorOnly(t *testing.T) {
	t.Parallel()
	data := []byte("jump to [setup](#setup)")
	links := mdlink.Extract("doc.md", data, 0, len(data))
	require.Len(t, links, 1)
	require.Equal(t, mdlink.AnchorOnly, links[0].Kind)
	require.Equal(t, "", links[0].Path)
	require.Equal(t, "setup", links[0].Anchor)
}

func TestExtract_ReferenceLink(t *testing.T) {
	t.Parallel()
	data := []byte("see [guide][ref] please\n\n[ref]: ./other.md#x\n")
	links := mdlink.Extract("doc.md", data, 0, len(data))
	require.Len(t, links, 1)
	require.Equal(t, mdlink.Reference, links[0].Kind)
	require.Equal(t, "./other.md", links[0].Path)
	require.Equal(t, "x", links[0].Anchor)
}

func TestExtract_BalancedParens(t *testing.T) {
	t.Parallel()
	data := []byte("[text](http://example.com/(x)/y)")
	links := mdlink.Extract("doc.md", data, 0, len(data))
	require.Len(t, links, 1)
	require.Equal(t, "http://example.com/(x)/y", links[0].Path)
}

package anchor_test

import (
	"testing"

	"mdtool/pkg/anchor"

	"github.com/stretchr/testify/require"
)

func TestNormalize_StripsDecoration(t *testing.T) {
	t.Parallel()
	cases := []struct {
		raw  string
		want string
	}{
		{"Plain Title", "Plain Title"},
		{"Title with #", "Title with"},
		{"[Install Guide](./install.md)", "Install Guide"},
		{"![alt text](img.png)", "alt text"},
		{"**Bold** and _italic_", "Bold and italic"},
		{"`code span` here", "code span here"},
		{"Has <b>html</b> tags", "Has html tags"},
		{"Multiple   spaces\there", "Multiple spaces here"},
	}
	for _, c := range cases {
		got := anchor.Normalize([]byte(c.raw))
		require.Equal(t, c.want, got, "raw=%q", c.raw)
	}
}

func TestSlug_LowercasesAndHyphenates(t *testing.T) {
	t.Parallel()
	require.Equal(t, "install", anchor.Slug("Install"))
	require.Equal(t, "c-x", anchor.Slug("C (x!)"))
	require.Equal(t, "a-b", anchor.Slug("A_B"))
	require.Equal(t, "trimmed", anchor.Slug("  Trimmed  "))
}

func TestDisambiguator_SuffixesRepeats(t *testing.T) {
	t.Parallel()
	d := anchor.NewDisambiguator()
	require.Equal(t, "a-b", d.Next("a-b"))
	require.Equal(t, "a-b-2", d.Next("a-b"))
	require.Equal(t, "a-b-3", d.Next("a-b"))
	require.Equal(t, "other", d.Next("other"))
}

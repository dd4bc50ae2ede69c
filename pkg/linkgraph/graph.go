// Package linkgraph builds the cross-file Link Graph (spec §4.7): resolved
// link targets across a selected file set, with forward (source -> links)
// and reverse ((path, anchor) -> backrefs) indexes. Resolution mirrors the
// path-canonicalization rules of pkg/docindex and the anchor normalization
// of pkg/anchor, the way the teacher's pkg/keg/content.go resolves keg:
// links against its own node index before handing results to its lint
// command.
package linkgraph

import (
	"path"
	"sort"
	"strings"

	"mdtool/pkg/anchor"
	"mdtool/pkg/docindex"
	"mdtool/pkg/mdlink"
)

// ResolvedLink is a Link (spec §3) annotated with its resolution outcome.
type ResolvedLink struct {
	mdlink.Link

	// ResolvedPath is the canonicalized target path, empty for anchor-only
	// links (whose target is the source file itself) and for links this
	// graph does not attempt to resolve (autolinks).
	ResolvedPath string

	// Resolved reports whether the target path exists in the indexed file
	// set. Anchor-only links are always considered resolved at the path
	// level (their file is the source file, which exists by construction).
	Resolved bool

	// Unsupported marks autolinks and other targets the spec says to
	// recognize but not rewrite or validate (§4.3, Open Questions).
	Unsupported bool
}

// BackRef is one reverse-index entry: a link elsewhere in the repo pointing
// at (path, anchor).
type BackRef struct {
	Link ResolvedLink
}

// reverseKey is (path, anchor) with an empty anchor meaning "the file as a
// whole", per spec §4.7's `(path, Some(anchor)|None)`.
type reverseKey struct {
	path   string
	anchor string
}

// Graph is the cross-file Link Graph.
type Graph struct {
	forward map[string][]ResolvedLink
	reverse map[reverseKey][]BackRef
}

// Build resolves every link in every file of repo, scanning each file's
// sections for links via mdlink.Extract, and returns the assembled Graph.
func Build(repo *docindex.RepoIndex) *Graph {
	g := &Graph{
		forward: map[string][]ResolvedLink{},
		reverse: map[reverseKey][]BackRef{},
	}

	for _, p := range repo.Paths() {
		fi, ok := repo.Lookup(p)
		if !ok {
			continue
		}
		data := fi.Scan.Data
		var links []mdlink.Link
		for i, s := range fi.Sections {
			end := s.BodyEnd
			if i+1 < len(fi.Sections) && fi.Sections[i+1].HeadingStart < end {
				end = fi.Sections[i+1].HeadingStart
			}
			links = append(links, mdlink.Extract(fi.Path, data, s.BodyStart, end)...)
		}

		for _, l := range links {
			rl := resolve(repo, fi.Path, l)
			g.forward[p] = append(g.forward[p], rl)

			if rl.Unsupported {
				continue
			}
			key := reverseKey{path: rl.ResolvedPath, anchor: normalizedAnchorKey(rl.Anchor)}
			g.reverse[key] = append(g.reverse[key], BackRef{Link: rl})
		}
	}

	return g
}

func normalizedAnchorKey(a string) string {
	if a == "" {
		return ""
	}
	return anchor.Slug(anchor.Normalize([]byte(a)))
}

func resolve(repo *docindex.RepoIndex, sourcePath string, l mdlink.Link) ResolvedLink {
	rl := ResolvedLink{Link: l}

	if l.Kind == mdlink.Autolink {
		rl.Unsupported = true
		return rl
	}

	if l.Path == "" {
		// Anchor-only: target is (source_path, anchor).
		rl.ResolvedPath = docindex.CanonicalPath(sourcePath)
		rl.Resolved = true
		return rl
	}

	var target string
	if strings.HasPrefix(l.Path, "/") {
		target = docindex.CanonicalPath(strings.TrimPrefix(l.Path, "/"))
	} else {
		dir := path.Dir(sourcePath)
		target = docindex.CanonicalPath(path.Join(dir, l.Path))
	}
	rl.ResolvedPath = target

	_, ok := repo.Lookup(target)
	rl.Resolved = ok
	return rl
}

// Forward returns every resolved link found in path, in extraction order.
func (g *Graph) Forward(p string) []ResolvedLink {
	return g.forward[docindex.CanonicalPath(p)]
}

// ForwardPaths returns every source path with at least one link, sorted.
func (g *Graph) ForwardPaths() []string {
	out := make([]string, 0, len(g.forward))
	for p := range g.forward {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Reverse returns every backref pointing at (path, anchor). An empty anchor
// means "the file as a whole" (spec §4.7's None case).
func (g *Graph) Reverse(p, anchorFrag string) []BackRef {
	key := reverseKey{path: docindex.CanonicalPath(p), anchor: normalizedAnchorKey(anchorFrag)}
	return g.reverse[key]
}

// ReverseFile returns every backref pointing anywhere at path, regardless
// of anchor (file-level and anchor-level references combined).
func (g *Graph) ReverseFile(p string) []BackRef {
	cp := docindex.CanonicalPath(p)
	var out []BackRef
	for k, refs := range g.reverse {
		if k.path == cp {
			out = append(out, refs...)
		}
	}
	return out
}

package docindex

import "sort"

// RepoIndex is the repo-wide Section Index: a path-canonicalized map of
// per-file indexes, built once per command and treated as immutable
// thereafter (spec §5).
type RepoIndex struct {
	files map[string]*FileIndex
}

func NewRepoIndex() *RepoIndex {
	return &RepoIndex{files: map[string]*FileIndex{}}
}

// Add registers fi under its canonicalized path.
func (r *RepoIndex) Add(fi *FileIndex) {
	r.files[CanonicalPath(fi.Path)] = fi
}

// Lookup returns the FileIndex for a canonicalized path, if present.
func (r *RepoIndex) Lookup(path string) (*FileIndex, bool) {
	fi, ok := r.files[CanonicalPath(path)]
	return fi, ok
}

// Paths returns every indexed canonical path, sorted lexicographically for
// deterministic iteration.
func (r *RepoIndex) Paths() []string {
	out := make([]string, 0, len(r.files))
	for p := range r.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of indexed files.
func (r *RepoIndex) Len() int { return len(r.files) }

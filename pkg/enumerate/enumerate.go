// Package enumerate implements the File Enumerator (spec §4.11): a walk of
// the project root producing a deterministic, lexicographically sorted
// path list, filtered by CLI targets, staged-file lists, ignore-file
// syntax, and config globs in the spec's stated precedence order.
package enumerate

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"mdtool/pkg/docindex"
)

// Options controls one enumeration pass.
type Options struct {
	// Root is the project root to walk. Defaults to "." when empty.
	Root string

	// Explicit is the set of CLI-supplied paths/positional targets.
	// When non-empty, these take precedence over everything else (spec
	// §4.11): no ignore-file or glob filtering is applied to them.
	Explicit []string

	// Staged restricts the walk to paths reported staged in the VCS.
	Staged bool

	// NoIgnore disables .markdown-doc-ignore filtering.
	NoIgnore bool

	IncludeGlobs []string
	ExcludeGlobs []string
}

// GitRunner shells out to git for staged-file discovery, matching the
// exec.Command wrapper pattern used elsewhere in the pack for VCS queries.
// Tests substitute a stub to avoid depending on a real repository.
type GitRunner interface {
	StagedFiles(ctx context.Context, root string) ([]string, error)
}

type execGitRunner struct{}

func (execGitRunner) StagedFiles(ctx context.Context, root string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--name-only", "--cached")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// DefaultGitRunner is the production GitRunner.
var DefaultGitRunner GitRunner = execGitRunner{}

// Enumerate walks opts.Root and returns every Markdown file path selected
// under the precedence rules of spec §4.11, sorted lexicographically.
func Enumerate(ctx context.Context, opts Options, git GitRunner) ([]string, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	if git == nil {
		git = DefaultGitRunner
	}

	if len(opts.Explicit) > 0 {
		out := make([]string, len(opts.Explicit))
		copy(out, opts.Explicit)
		sort.Strings(out)
		return out, nil
	}

	all, err := walkMarkdown(root)
	if err != nil {
		return nil, err
	}

	if opts.Staged {
		staged, err := git.StagedFiles(ctx, root)
		if err != nil {
			return nil, err
		}
		stagedSet := make(map[string]bool, len(staged))
		for _, p := range staged {
			stagedSet[docindex.CanonicalPath(p)] = true
		}
		var filtered []string
		for _, p := range all {
			if stagedSet[docindex.CanonicalPath(p)] {
				filtered = append(filtered, p)
			}
		}
		all = filtered
	}

	if !opts.NoIgnore {
		all, err = applyIgnoreFile(root, all)
		if err != nil {
			return nil, err
		}
	}

	all = applyGlobs(all, opts.IncludeGlobs, opts.ExcludeGlobs)

	sort.Strings(all)
	return all, nil
}

func walkMarkdown(root string) ([]string, error) {
	var out []string
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(strings.ToLower(p), ".md") {
			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				rel = p
			}
			out = append(out, docindex.CanonicalPath(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyIgnoreFile(root string, paths []string) ([]string, error) {
	ignorePath := filepath.Join(root, ".markdown-doc-ignore")
	data, err := os.ReadFile(ignorePath)
	if os.IsNotExist(err) {
		return paths, nil
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	gi := ignore.CompileIgnoreLines(lines...)
	if gi == nil {
		return paths, nil
	}

	var out []string
	for _, p := range paths {
		if !gi.MatchesPath(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func applyGlobs(paths []string, include, exclude []string) []string {
	var out []string
	for _, p := range paths {
		if len(include) > 0 && !matchesAny(include, p) {
			continue
		}
		if matchesAny(exclude, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesAny(globs []string, p string) bool {
	for _, g := range globs {
		if ok, _ := filepath.Match(g, p); ok {
			return true
		}
	}
	return false
}

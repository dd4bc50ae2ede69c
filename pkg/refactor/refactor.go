// Package refactor implements the Refactor Planner (spec §4.8): given a set
// of file moves, it computes the per-file byte edits needed to keep every
// resolved inbound link pointing at the right place, then commits moves and
// edits transactionally through the Atomic Writer, following the
// stage-then-commit pattern the teacher uses for its own multi-file index
// rewrites in pkg/keg/content.go.
package refactor

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"mdtool/pkg/atomicio"
	"mdtool/pkg/docindex"
	"mdtool/pkg/linkgraph"
	"mdtool/pkg/mderr"
	"mdtool/pkg/mdlink"
)

// FileMove is one requested rename, from -> to, both repo-relative paths.
type FileMove struct {
	From string
	To   string
}

// ByteEdit is one splice to apply to a file's bytes.
type ByteEdit struct {
	Start, End  int
	Replacement []byte
}

// RewritePlan is the output of Plan: the validated moves plus, per
// referencing file, the byte edits that keep links correct.
type RewritePlan struct {
	Moves []FileMove
	Edits map[string][]ByteEdit // keyed by canonical referencing path
}

// Options controls planning.
type Options struct {
	// Force allows a move onto an existing destination path.
	Force bool
}

// Plan validates moves against repo and computes edits from graph's
// forward index. It does not touch disk.
func Plan(moves []FileMove, repo *docindex.RepoIndex, graph *linkgraph.Graph, opts Options) (*RewritePlan, error) {
	fromTo := make(map[string]string, len(moves))
	canonMoves := make([]FileMove, len(moves))
	for i, m := range moves {
		from := docindex.CanonicalPath(m.From)
		to := docindex.CanonicalPath(m.To)
		if !opts.Force {
			if _, exists := repo.Lookup(to); exists {
				return nil, &mderr.LocatedError{Path: to, Op: "move", Err: mderr.ErrDestinationExists}
			}
		}
		fromTo[from] = to
		canonMoves[i] = FileMove{From: from, To: to}
	}

	plan := &RewritePlan{Moves: canonMoves, Edits: map[string][]ByteEdit{}}

	for _, srcPath := range graph.ForwardPaths() {
		fi, ok := repo.Lookup(srcPath)
		if !ok {
			continue
		}
		referencingPath := srcPath
		if to, moved := fromTo[srcPath]; moved {
			referencingPath = to
		}

		defs := mdlink.ReferenceDefs(fi.Scan.Data)

		for _, l := range graph.Forward(srcPath) {
			if l.Unsupported || l.Path == "" {
				continue // autolinks and anchor-only links are never rewritten
			}
			to, matched := fromTo[l.ResolvedPath]
			if !matched {
				continue
			}

			newTarget := relPath(path.Dir(referencingPath), to)
			if l.Anchor != "" {
				newTarget += "#" + l.Anchor
			}

			edit, ok := reconstructEdit(l, newTarget, defs)
			if !ok {
				continue
			}
			plan.Edits[srcPath] = append(plan.Edits[srcPath], edit)
		}
	}

	for p := range plan.Edits {
		edits := plan.Edits[p]
		sort.Slice(edits, func(i, j int) bool { return edits[i].Start > edits[j].Start })
		plan.Edits[p] = edits
	}

	return plan, nil
}

// reconstructEdit builds the byte edit for one resolved link given its new
// target string. Reference-kind links rewrite the definition's target range
// instead of the usage site, since multiple usages may share one definition.
func reconstructEdit(l linkgraph.ResolvedLink, newTarget string, defs map[string]mdlink.ReferenceDef) (ByteEdit, bool) {
	switch l.Kind {
	case mdlink.Inline:
		return ByteEdit{
			Start:       l.ByteStart,
			End:         l.ByteEnd,
			Replacement: []byte("[" + l.Text + "](" + newTarget + ")"),
		}, true
	case mdlink.Image:
		return ByteEdit{
			Start:       l.ByteStart,
			End:         l.ByteEnd,
			Replacement: []byte("![" + l.Text + "](" + newTarget + ")"),
		}, true
	case mdlink.Reference:
		def, ok := defs[l.Label]
		if !ok {
			return ByteEdit{}, false
		}
		return ByteEdit{
			Start:       def.TargetStart,
			End:         def.TargetEnd,
			Replacement: []byte(newTarget),
		}, true
	default:
		return ByteEdit{}, false
	}
}

// relPath computes the shortest POSIX-style relative path from dir to
// target, both already canonical ("/"-separated, no leading "./").
func relPath(dir, target string) string {
	if dir == "." || dir == "" {
		return target
	}
	dirParts := strings.Split(dir, "/")
	targetParts := strings.Split(target, "/")

	common := 0
	for common < len(dirParts) && common < len(targetParts)-1 && dirParts[common] == targetParts[common] {
		common++
	}

	ups := len(dirParts) - common
	rel := make([]string, 0, ups+len(targetParts)-common)
	for i := 0; i < ups; i++ {
		rel = append(rel, "..")
	}
	rel = append(rel, targetParts[common:]...)
	if len(rel) == 0 {
		return "."
	}
	return strings.Join(rel, "/")
}

// Commit applies a RewritePlan transactionally: every edited file is staged
// to its new bytes and fsynced via a temp file at its *original* path
// first; only once every staged write has succeeded are the move renames
// performed. data must provide each canonical path's current bytes (e.g.
// from a RepoIndex's underlying FileScan). On any staging failure, already
// staged files are rolled back from their backups and no renames occur.
func Commit(plan *RewritePlan, data map[string][]byte, backup bool) (err error) {
	type staged struct {
		path   string
		hadBak bool
	}
	var committed []staged

	defer func() {
		if err == nil {
			return
		}
		for _, s := range committed {
			if s.hadBak {
				_ = os.Rename(s.path+".bak", s.path)
			}
		}
	}()

	for _, p := range sortedEditPaths(plan.Edits) {
		original, ok := data[p]
		if !ok {
			return &mderr.LocatedError{Path: p, Op: "move commit", Err: mderr.ErrPathNotFound}
		}
		newBytes := applyEdits(original, plan.Edits[p])

		hadBak := backup

		if werr := atomicio.WriteFile(p, newBytes, 0o644, atomicio.WriteOptions{Backup: backup}); werr != nil {
			return fmt.Errorf("refactor: stage edit for %s: %w", p, werr)
		}
		committed = append(committed, staged{path: p, hadBak: hadBak})
	}

	for _, m := range plan.Moves {
		if renameErr := os.Rename(m.From, m.To); renameErr != nil {
			err = fmt.Errorf("refactor: commit move %s -> %s: %w", m.From, m.To, renameErr)
			return err
		}
	}

	return nil
}

func sortedEditPaths(edits map[string][]ByteEdit) []string {
	out := make([]string, 0, len(edits))
	for p := range edits {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func applyEdits(data []byte, edits []ByteEdit) []byte {
	out := append([]byte(nil), data...)
	for _, e := range edits { // already sorted highest-offset-first by Plan
		next := make([]byte, 0, len(out)-(e.End-e.Start)+len(e.Replacement))
		next = append(next, out[:e.Start]...)
		next = append(next, e.Replacement...)
		next = append(next, out[e.End:]...)
		out = next
	}
	return out
}

// Package cli assembles the mdtool command tree (spec §6): extract, edit
// {replace|delete|append-to|prepend-to|insert-after|insert-before},
// catalog, lint, validate, toc, and mv, all sharing one set of universal
// flags. Command construction follows the teacher's pkg/cli/root.go shape:
// a Deps bundle threaded through command factories instead of package
// globals, and a PersistentPreRunE that installs a logger into the command
// context only if one isn't already there (so tests can inject their own).
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"mdtool/pkg/enumerate"
)

// Version is set at build time via -ldflags, matching the teacher's
// convention of a package-level Version string consumed by the logger.
var Version = "dev"

// Deps bundles the external collaborators a command needs, so tests can
// substitute fakes instead of touching the real filesystem/stdio/VCS.
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// ConfigPath is the .markdown-doc.toml path to load, if it exists.
	ConfigPath string

	Git enumerate.GitRunner

	// Clock returns the current time for catalog's last_updated field,
	// injected so tests and reproducible output don't depend on
	// time.Now() directly (SPEC_FULL "catalog output file writing").
	Clock func() time.Time

	// LogLevel is the resolved --log-level value, consulted by
	// renderUserError to decide whether to include extra detail.
	LogLevel string
}

// NewDeps builds production Deps wired to real stdio and the OS.
func NewDeps() *Deps {
	return &Deps{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Stdin:      os.Stdin,
		ConfigPath: ".markdown-doc.toml",
		Git:        enumerate.DefaultGitRunner,
		Clock:      time.Now,
		LogLevel:   "info",
	}
}

// ctxKeyType avoids collisions with other packages' context keys.
type ctxKeyType struct{}

var depsKey ctxKeyType

func withDeps(ctx context.Context, d *Deps) context.Context {
	return context.WithValue(ctx, depsKey, d)
}

func depsFromContext(ctx context.Context) *Deps {
	if v, ok := ctx.Value(depsKey).(*Deps); ok {
		return v
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"strings"

	"mdtool/pkg/mderr"
)

// renderUserError maps err to a human-readable message and the §6 exit
// code. Commands never print a raw Go error string directly; they go
// through this one place, mirroring the teacher's renderUserError.
func renderUserError(err error, deps *Deps) (int, string) {
	if err == nil {
		return 0, ""
	}

	var multi *mderr.MultipleMatchesError
	if errors.As(err, &multi) {
		if isDebugLogLevel(deps) && len(multi.Titles) > 0 {
			return mderr.ExitCode(err), fmt.Sprintf("pattern %q matched %d sections (candidates: %s)",
				multi.Pattern, len(multi.Titles), strings.Join(multi.Titles, ", "))
		}
		return mderr.ExitCode(err), fmt.Sprintf("pattern %q matched %d sections, use --all or narrow the pattern", multi.Pattern, len(multi.Titles))
	}

	return mderr.ExitCode(err), err.Error()
}

func isDebugLogLevel(deps *Deps) bool {
	if deps == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(deps.LogLevel), "debug")
}

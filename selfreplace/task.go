// Package selfreplace implements the staged replacement protocol that lets
// the application update its own executable. A running image cannot
// overwrite itself, so the update travels across three process
// generations: the original stages a copy of the new binary beside itself
// and hands off to it, the staged process renames itself onto the
// canonical name once the original has exited, and the relaunched
// canonical process deletes the staged leftover. The only state carried
// between generations is the argument vector and the files on disk.
package selfreplace

import "time"

const (
	flagSelfReplace = "--self-replace"
	flagCleanup     = "--cleanup"

	// The previous process usually releases its image within well under a
	// second of being asked to exit; the budgets below accumulate to a few
	// seconds of fixed-delay polling.
	swapAttempts    = 60
	cleanupAttempts = 50
)

// Task is the replacement state reconstructed from the argument vector at
// each stage. StagedExe always lives in the same directory as TargetName,
// which is what makes the final rename a same-volume atomic operation.
type Task struct {
	StagedExe   string
	TargetName  string
	CleanupPath string
}

var (
	swapDelay    = 100 * time.Millisecond
	cleanupDelay = 100 * time.Millisecond
)

// hasFlag reports whether flag appears in argv.
func hasFlag(argv []string, flag string) bool {
	for _, arg := range argv {
		if arg == flag {
			return true
		}
	}
	return false
}

// argValue returns the token following the first occurrence of flag.
func argValue(argv []string, flag string) (string, bool) {
	for i, arg := range argv {
		if arg == flag && i+1 < len(argv) {
			return argv[i+1], true
		}
	}
	return "", false
}

// stripFlag returns argv without flag and its value token.
func stripFlag(argv []string, flag string) []string {
	out := make([]string, 0, len(argv))
	skip := false
	for _, arg := range argv {
		switch {
		case skip:
			skip = false
		case arg == flag:
			skip = true
		default:
			out = append(out, arg)
		}
	}
	return out
}

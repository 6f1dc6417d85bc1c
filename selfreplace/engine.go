package selfreplace

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"

	"healthform/shortcut"
)

var (
	// ErrStageCopy means the new binary could not be copied next to the
	// running one; the update attempt is over and nothing was changed.
	ErrStageCopy = errors.New("failed to stage update")

	// ErrSwapExhausted means the canonical path stayed locked for the
	// whole retry budget; the staged copy was launched as a fallback.
	ErrSwapExhausted = errors.New("swap retries exhausted")

	// ErrLaunchFailed means a process spawn in the handoff chain failed.
	ErrLaunchFailed = errors.New("failed to launch process")
)

// Test seams, as package-level function variables.
var (
	osExecutable = os.Executable
	renameFile   = os.Rename
	startProcess = defaultStartProcess
)

// Apply drives the running process's side of an update: refresh the launch
// shortcut, stage the artifact beside the running executable, and hand off
// to the staged process. On a nil return the caller must exit promptly so
// the staged process can take the canonical path.
func Apply(artifactPath string, maintainer shortcut.Maintainer) error {
	exe, err := osExecutable()
	if err != nil {
		return fmt.Errorf("failed to locate running executable: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return fmt.Errorf("failed to resolve running executable %s: %w", exe, err)
	}

	// The shortcut keeps pointing at the canonical name through the swap.
	// Refreshing it is cosmetic and must never block the update.
	if maintainer != nil {
		if err := maintainer.Ensure(exe, ""); err != nil {
			log.Debug("shortcut refresh failed", "err", err)
		}
	}

	staged, err := Stage(artifactPath, exe)
	if err != nil {
		return err
	}
	log.Debug("update staged", "path", staged)

	// The staged process is told to become our name and, once relaunched
	// under that name, to delete the staged file it ran from.
	return Handoff(staged, filepath.Base(exe), staged)
}

// defaultStartProcess spawns path detached; the child must outlive us.
func defaultStartProcess(path string, args ...string) error {
	cmd := exec.Command(path, args...)
	cmd.Dir = filepath.Dir(path)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

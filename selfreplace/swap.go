package selfreplace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// RunIfRequested handles the staged generation of the protocol. When argv
// carries the self-replace directive it performs the swap (or the degraded
// fallback) and reports true; the caller must then exit without doing
// anything else. It must run before any other startup work.
func RunIfRequested(argv []string) bool {
	if !hasFlag(argv, flagSelfReplace) {
		return false
	}

	staged, err := osExecutable()
	if err != nil {
		log.Error("cannot resolve staged executable", "err", err)
		return true
	}

	task := Task{StagedExe: staged}
	task.TargetName, _ = argValue(argv, flagSelfReplace)
	if task.TargetName == "" {
		task.TargetName = filepath.Base(staged)
	}
	task.CleanupPath, _ = argValue(argv, flagCleanup)

	target := filepath.Join(filepath.Dir(staged), task.TargetName)

	if err := swapWithRetries(staged, target); err != nil {
		// Degraded but safe: the user still ends up with a running
		// application, just not at the canonical path.
		log.Warn("swap did not complete, launching staged copy instead", "err", err)
		if launchErr := startProcess(staged); launchErr != nil {
			log.Error("failed to launch staged copy", "err", launchErr)
		}
		return true
	}

	// Relaunch under the canonical name and ask the new process to delete
	// the staged file this one is still running from.
	cleanup := task.CleanupPath
	if cleanup == "" {
		cleanup = staged
	}
	args := []string{}
	if _, statErr := os.Stat(cleanup); statErr == nil {
		args = append(args, flagCleanup, cleanup)
	}
	if err := startProcess(target, args...); err != nil {
		log.Error("failed to relaunch updated executable", "path", target, "err", err)
	}
	return true
}

// swapWithRetries repeatedly copies the staged binary to a temporary
// sibling and atomically renames it onto the canonical path. The previous
// process may hold the target open for a short window after being asked to
// exit, so lock-style failures are retried on a fixed delay; permission
// and disk errors abort immediately. The rename either fully succeeds or
// leaves the target untouched, so the canonical path never holds a
// partial file.
func swapWithRetries(staged, target string) error {
	tmp := target + ".tmp"

	var lastErr error
	for attempt := 0; attempt < swapAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(swapDelay)
		}

		if err := copyFile(staged, tmp); err != nil {
			lastErr = err
			if !isRetryable(err) {
				return fmt.Errorf("swap aborted: %w", err)
			}
			continue
		}

		if err := renameFile(tmp, target); err != nil {
			_ = os.Remove(tmp)
			lastErr = err
			if !isRetryable(err) {
				return fmt.Errorf("swap aborted: %w", err)
			}
			continue
		}

		return nil
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrSwapExhausted, swapAttempts, lastErr)
}

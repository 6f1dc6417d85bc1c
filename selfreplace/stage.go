package selfreplace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// StagedName returns the sibling name used for a staged binary: the ".new"
// marker goes before the extension, so "HealthForm.exe" becomes
// "HealthForm.new.exe" and "healthform" becomes "healthform.new".
func StagedName(exeName string) string {
	ext := filepath.Ext(exeName)
	return strings.TrimSuffix(exeName, ext) + ".new" + ext
}

// Stage copies a verified artifact into the running executable's directory
// under the staged name. Staging into the same directory keeps the later
// rename on one volume; staging failure leaves the running process
// untouched.
func Stage(artifactPath, runningExe string) (string, error) {
	staged := filepath.Join(filepath.Dir(runningExe), StagedName(filepath.Base(runningExe)))
	if err := copyFile(artifactPath, staged); err != nil {
		return "", fmt.Errorf("%w: copying %s to %s: %w", ErrStageCopy, artifactPath, staged, err)
	}
	return staged, nil
}

// Handoff launches the staged binary with the self-replace directive and
// returns. The caller must exit immediately afterwards: the swap can only
// succeed once no process holds the running executable image open.
func Handoff(stagedPath, targetName, cleanupPath string) error {
	args := []string{flagSelfReplace, targetName}
	if cleanupPath != "" {
		args = append(args, flagCleanup, cleanupPath)
	}
	if err := startProcess(stagedPath, args...); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLaunchFailed, stagedPath, err)
	}
	return nil
}

// copyFile copies src to dst with executable permissions. Downloaded
// artifacts are created without the executable bit, so it is forced here.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(out, in)
	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	return copyErr
}

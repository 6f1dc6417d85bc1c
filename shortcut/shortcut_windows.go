//go:build windows

package shortcut

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

//go:embed shortcut.ps1
var shortcutScript string

// New returns the Windows launch-point maintainer. It (re)creates a
// desktop .lnk named after the application via WScript.Shell.
func New(appName string) Maintainer {
	return &windowsMaintainer{appName: appName}
}

type windowsMaintainer struct {
	appName string
}

func (m *windowsMaintainer) Ensure(targetExe, iconPath string) error {
	desktop, err := desktopDir()
	if err != nil {
		return fmt.Errorf("failed to resolve desktop directory: %w", err)
	}
	if err := os.MkdirAll(desktop, 0o755); err != nil {
		return fmt.Errorf("failed to create desktop directory: %w", err)
	}

	script := strings.NewReplacer(
		"__LINK__", filepath.Join(desktop, m.appName+".lnk"),
		"__TARGET__", targetExe,
		"__WORKDIR__", filepath.Dir(targetExe),
		"__ICON__", iconPath,
	).Replace(shortcutScript)

	cmd := exec.Command("powershell", "-NoProfile", "-ExecutionPolicy", "Bypass", "-Command", script)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to create shortcut: %w", err)
	}
	return nil
}

func desktopDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Desktop"), nil
}

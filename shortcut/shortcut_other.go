//go:build !windows

package shortcut

// New returns the launch-point maintainer for this platform. There is no
// shortcut concept to maintain off Windows, so it is a no-op.
func New(appName string) Maintainer {
	return noopMaintainer{}
}

type noopMaintainer struct{}

func (noopMaintainer) Ensure(targetExe, iconPath string) error { return nil }

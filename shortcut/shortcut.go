// Package shortcut keeps a user-visible launch point (a desktop shortcut)
// pointing at the canonical executable name across binary swaps. This is
// purely cosmetic: every implementation is best-effort and callers swallow
// failures.
package shortcut

// Maintainer refreshes the launch point for the canonical executable.
// A failure never blocks an update.
type Maintainer interface {
	Ensure(targetExe, iconPath string) error
}

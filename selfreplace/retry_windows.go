//go:build windows

package selfreplace

import (
	"errors"
	"syscall"
)

const (
	errSharingViolation syscall.Errno = 32
	errLockViolation    syscall.Errno = 33
)

// isRetryable reports whether a copy or rename failure may clear once the
// previous process has fully released the target. Windows reports
// ACCESS_DENIED while the old process's image section is still mapped, so
// it counts as contention here rather than as a permissions problem.
func isRetryable(err error) bool {
	return errors.Is(err, errSharingViolation) ||
		errors.Is(err, errLockViolation) ||
		errors.Is(err, syscall.ERROR_ACCESS_DENIED) ||
		errors.Is(err, syscall.EBUSY)
}

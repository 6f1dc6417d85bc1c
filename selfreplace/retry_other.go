//go:build !windows

package selfreplace

import (
	"errors"
	"syscall"
)

// isRetryable reports whether a copy or rename failure may clear once the
// previous process has fully released the target. Busy-image errors are
// the contention signature; anything else (permissions, read-only or full
// disk) will not improve with waiting.
func isRetryable(err error) bool {
	return errors.Is(err, syscall.ETXTBSY) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.EAGAIN)
}

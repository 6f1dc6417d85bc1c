package selfreplace

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// CleanupIfRequested handles the final generation of the protocol: a
// freshly relaunched canonical process deletes the staged file named by a
// --cleanup argument. The staged process may still be exiting, so deletion
// is retried on a fixed delay; a leftover staged file is cosmetic, so all
// failures are swallowed. The returned argv has the protocol arguments
// stripped so command parsing never sees them.
func CleanupIfRequested(argv []string) []string {
	path, ok := argValue(argv, flagCleanup)
	if !ok {
		return argv
	}

	if path != "" {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			if attempt > 0 {
				time.Sleep(cleanupDelay)
			}
			err := os.Remove(path)
			if err == nil || os.IsNotExist(err) {
				break
			}
			if attempt == cleanupAttempts-1 {
				log.Debug("staged file left behind", "path", path, "err", err)
			}
		}
	}

	return stripFlag(argv, flagCleanup)
}

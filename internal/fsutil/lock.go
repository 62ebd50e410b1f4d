package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockFile is the advisory lock file created inside locked directories.
const LockFile = ".dexkit.lock"

// DefaultLockTimeout bounds how long writers wait for another writer.
const DefaultLockTimeout = 10 * time.Second

// LockDir obtains an exclusive advisory lock on dir, creating dir when
// needed. The returned func releases it.
func LockDir(dir string, timeout time.Duration) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return func() {}, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	lockPath := filepath.Join(dir, LockFile)
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire lock %s: %w", lockPath, err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("%w: %s", ErrLocked, lockPath)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

//go:build !windows

package fsutil

import "os"

// replaceFile moves src over dst. rename(2) replaces atomically.
func replaceFile(src, dst string) error {
	return os.Rename(src, dst)
}

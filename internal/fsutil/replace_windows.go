//go:build windows

package fsutil

import (
	"time"

	"golang.org/x/sys/windows"
)

// replaceFile moves src over dst.
//
// Antivirus and indexers can briefly hold dst open; we retry for a short
// period before giving up.
func replaceFile(src, dst string) error {
	from, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return err
	}
	to, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 15; i++ {
		lastErr = windows.MoveFileEx(from, to, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
		if lastErr == nil {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return lastErr
}

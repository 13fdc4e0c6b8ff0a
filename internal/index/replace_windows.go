//go:build windows

package index

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// Antivirus scanners and the search indexer can briefly hold a handle on a
// freshly written file, so both operations retry for a few seconds.
const (
	retryAttempts = 15
	retryDelay    = 200 * time.Millisecond
)

// replaceFile moves src over dst, replacing an existing dst.
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
	for i := 0; i < retryAttempts; i++ {
		lastErr = windows.MoveFileEx(from, to, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
		if lastErr == nil {
			return nil
		}
		time.Sleep(retryDelay)
	}
	return &os.LinkError{Op: "rename", Old: src, New: dst, Err: lastErr}
}

// removeFile removes path; a missing file is not an error.
func removeFile(path string) error {
	var lastErr error
	for i := 0; i < retryAttempts; i++ {
		err := os.Remove(path)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		lastErr = err
		time.Sleep(retryDelay)
	}
	return lastErr
}

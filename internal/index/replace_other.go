//go:build !windows

package index

import (
	"errors"
	"os"
)

// replaceFile atomically renames src over dst.
func replaceFile(src, dst string) error {
	return os.Rename(src, dst)
}

// removeFile removes path; a missing file is not an error.
func removeFile(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

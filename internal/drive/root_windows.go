//go:build windows

package drive

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// DefaultRoot returns the root of the volume holding Windows, usually `C:\`.
func DefaultRoot() string {
	if dir, err := windows.GetWindowsDirectory(); err == nil {
		if vol := filepath.VolumeName(dir); vol != "" {
			return vol + `\`
		}
	}
	if d := os.Getenv("SystemDrive"); d != "" {
		return d + `\`
	}
	return `C:\`
}

//go:build !windows

package reveal

import "syscall"

// detached puts the child in its own session so terminal signals sent to
// zearch do not reach the file manager.
func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

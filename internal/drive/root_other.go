//go:build !windows

package drive

// DefaultRoot returns the primary volume anchor, "/" outside Windows.
func DefaultRoot() string {
	return "/"
}

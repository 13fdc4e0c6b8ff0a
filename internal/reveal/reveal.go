// Package reveal shows a file in the platform's file manager.
package reveal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNotFound is returned when the path to reveal does not exist.
var ErrNotFound = errors.New("path not found")

// Launcher starts a command without waiting for it.
type Launcher func(name string, args ...string) error

// Option configures a Revealer.
type Option func(*Revealer)

// WithGOOS overrides the platform used to choose the command.
func WithGOOS(goos string) Option {
	return func(r *Revealer) { r.goos = goos }
}

// WithLauncher replaces the process launcher.
func WithLauncher(l Launcher) Option {
	return func(r *Revealer) { r.launch = l }
}

// WithCommand sets a custom command line, e.g. "nautilus --select {path}".
// Without a {path} placeholder the path is appended.
func WithCommand(cmdline string) Option {
	return func(r *Revealer) { r.custom = strings.TrimSpace(cmdline) }
}

// Revealer dispatches one-way "show this file" requests.
type Revealer struct {
	goos   string
	custom string
	launch Launcher
}

// New returns a Revealer for the running platform.
func New(opts ...Option) *Revealer {
	r := &Revealer{goos: runtime.GOOS, launch: Start}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reveal resolves path and asks the file manager to show it. It returns once
// the process is started; the file manager's exit status is never observed.
func (r *Revealer) Reveal(path string) error {
	abs, err := resolve(path)
	if err != nil {
		return err
	}
	name, args := r.Command(abs)
	if err := r.launch(name, args...); err != nil {
		return fmt.Errorf("cannot start %s: %w", name, err)
	}
	return nil
}

// Command returns the program and arguments used to reveal abs.
func (r *Revealer) Command(abs string) (string, []string) {
	if r.custom != "" {
		fields := strings.Fields(r.custom)
		replaced := false
		for i, f := range fields {
			if strings.Contains(f, "{path}") {
				fields[i] = strings.ReplaceAll(f, "{path}", abs)
				replaced = true
			}
		}
		if !replaced {
			fields = append(fields, abs)
		}
		return fields[0], fields[1:]
	}

	switch r.goos {
	case "windows":
		return "explorer", []string{"/select," + abs}
	case "darwin":
		return "open", []string{"-R", abs}
	default:
		// xdg-open cannot select a file, so open its folder.
		return "xdg-open", []string{filepath.Dir(abs)}
	}
}

func resolve(path string) (string, error) {
	p := strings.TrimSpace(path)
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, abs)
		}
		return "", fmt.Errorf("cannot stat %s: %w", abs, err)
	}
	return abs, nil
}

// Start launches name detached from the current process and reaps it in the
// background.
func Start(name string, args ...string) error {
	c := exec.Command(name, args...)
	c.SysProcAttr = detached()
	if err := c.Start(); err != nil {
		return err
	}
	go func() { _ = c.Wait() }()
	return nil
}

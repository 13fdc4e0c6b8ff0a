// Package walk streams the absolute paths of every regular file below a root
// directory.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotADirectory is returned when the traversal root is missing or is not a
// directory.
var ErrNotADirectory = errors.New("not a directory")

// ErrBadPattern is returned by New for an exclude pattern doublestar cannot parse.
var ErrBadPattern = errors.New("invalid exclude pattern")

// Options controls what a Walker records.
type Options struct {
	// Excludes are doublestar globs. A pattern ending in "/" only matches
	// directories, a pattern without "/" matches the base name, anything else
	// matches the slash-separated path relative to the root.
	Excludes []string
}

// Entry is one traversal event. Exactly one of the three shapes is used:
// a recorded file (Path), an unreadable subtree (Path + Skipped) or a
// terminal error (Err).
type Entry struct {
	Path    string
	Skipped bool
	Err     error
}

// Walker enumerates regular files. It holds no per-walk state and can be
// reused.
type Walker struct {
	excludes []string
	logger   *slog.Logger
}

// New validates opts and returns a Walker. A nil logger discards output.
func New(opts Options, logger *slog.Logger) (*Walker, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var excludes []string
	for _, p := range opts.Excludes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(strings.TrimSuffix(p, "/")) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
		excludes = append(excludes, p)
	}
	return &Walker{excludes: excludes, logger: logger}, nil
}

// Walk validates root and then streams entries from a background goroutine in
// the order the filesystem lists them. The channel is closed when the walk is
// over. Callers that stop reading early must cancel ctx so the goroutine can
// exit.
func (w *Walker) Walk(ctx context.Context, root string) (<-chan Entry, error) {
	absRoot, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	out := make(chan Entry, 64)
	go func() {
		defer close(out)
		w.walk(ctx, absRoot, out)
	}()
	return out, nil
}

// Count walks root and returns how many files would be recorded.
func (w *Walker) Count(ctx context.Context, root string) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries, err := w.Walk(ctx, root)
	if err != nil {
		return 0, err
	}
	n := 0
	for e := range entries {
		switch {
		case e.Err != nil:
			return n, e.Err
		case e.Skipped:
		default:
			n++
		}
	}
	if err := ctx.Err(); err != nil {
		return n, err
	}
	return n, nil
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("%w: empty path", ErrNotADirectory)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}
	// WalkDir does not descend into a symlinked root.
	if li, err := os.Lstat(abs); err == nil && li.Mode()&fs.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
	}
	return abs, nil
}

func (w *Walker) walk(ctx context.Context, absRoot string, out chan<- Entry) {
	emit := func(e Entry) error {
		select {
		case out <- e:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	err := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			// Unreadable subtrees are skipped, never fatal.
			w.logger.Debug("skipping unreadable path",
				slog.String("path", path),
				slog.String("error", err.Error()))
			if emitErr := emit(Entry{Path: path, Skipped: true}); emitErr != nil {
				return emitErr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == absRoot {
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if w.excluded(rel, d.Name(), true) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.excluded(rel, d.Name(), false) {
			return nil
		}
		if !isRegular(path, d) {
			return nil
		}
		return emit(Entry{Path: path})
	})

	if err != nil {
		// The receiver may already be gone; consumers also check ctx.Err()
		// once the channel is closed.
		select {
		case out <- Entry{Err: err}:
		default:
		}
	}
}

// isRegular reports whether d is a regular file, or a symlink to one.
func isRegular(path string, d fs.DirEntry) bool {
	t := d.Type()
	if t.IsRegular() {
		return true
	}
	if t&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (w *Walker) excluded(rel, name string, isDir bool) bool {
	for _, p := range w.excludes {
		dirOnly := strings.HasSuffix(p, "/")
		if dirOnly {
			if !isDir {
				continue
			}
			p = strings.TrimSuffix(p, "/")
		}
		target := rel
		if !strings.Contains(p, "/") {
			target = name
		}
		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}
	return false
}

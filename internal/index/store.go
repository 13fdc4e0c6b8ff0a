// Package index owns the named path indexes: plain text artifacts holding one
// absolute file path per line.
package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kamusis/zearch/internal/walk"
)

// Store maps sanitized names to artifacts under a single directory. It is the
// only writer of that directory.
type Store struct {
	dir    string
	walker *walk.Walker
	logger *slog.Logger
}

// New returns a Store rooted at dir, creating the directory if needed.
func New(dir string, walker *walk.Walker, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("index dir is required")
	}
	if walker == nil {
		return nil, fmt.Errorf("walker is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create index dir %s: %w", dir, err)
	}
	return &Store{dir: dir, walker: walker, logger: logger}, nil
}

// Dir returns the directory holding the artifacts.
func (s *Store) Dir() string { return s.dir }

// PathFor returns the artifact path for name. It never touches the disk.
func (s *Store) PathFor(name string) string {
	return filepath.Join(s.dir, Sanitize(name)+Ext)
}

// Exists reports whether an artifact exists for name.
func (s *Store) Exists(name string) bool {
	if Sanitize(name) == "" {
		return false
	}
	info, err := os.Stat(s.PathFor(name))
	return err == nil && info.Mode().IsRegular()
}

// Create indexes directory into a new artifact called name and returns its
// path.
func (s *Store) Create(ctx context.Context, directory, name string) (string, error) {
	return s.build(ctx, directory, name, false)
}

// Update rescans directory and replaces the existing artifact for name.
func (s *Store) Update(ctx context.Context, directory, name string) (string, error) {
	return s.build(ctx, directory, name, true)
}

func (s *Store) build(ctx context.Context, directory, name string, replace bool) (string, error) {
	key := Sanitize(name)
	if key == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := s.PathFor(name)

	release, err := s.lock(ctx, key)
	if err != nil {
		return "", err
	}
	defer release()

	exists := s.Exists(name)
	switch {
	case replace && !exists:
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	case !replace && exists:
		return "", fmt.Errorf("%w: %q (%s)", ErrAlreadyExists, name, path)
	}

	stats, err := WriteArtifact(ctx, s.walker, directory, path)
	if err != nil {
		return "", err
	}
	s.logger.Info("index written",
		slog.String("name", key),
		slog.String("root", directory),
		slog.Int("files", stats.Files),
		slog.Int("skipped", stats.Skipped))
	return path, nil
}

// List returns the names of all artifacts, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("cannot read index dir %s: %w", s.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		n := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(n, ".") || filepath.Ext(n) != Ext {
			continue
		}
		names = append(names, strings.TrimSuffix(n, Ext))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the artifact for name.
func (s *Store) Delete(ctx context.Context, name string) error {
	key := Sanitize(name)
	if key == "" {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	release, err := s.lock(ctx, key)
	if err != nil {
		return err
	}
	defer release()

	if !s.Exists(name) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err := removeFile(s.PathFor(name)); err != nil {
		return fmt.Errorf("cannot delete index %q: %w", name, err)
	}
	s.logger.Info("index deleted", slog.String("name", key))
	return nil
}

func (s *Store) lock(ctx context.Context, key string) (func(), error) {
	return Lock(ctx, filepath.Join(s.dir, ".locks", key+".lock"))
}

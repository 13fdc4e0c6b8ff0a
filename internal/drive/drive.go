// Package drive is the single-index variant: one fixed artifact describing a
// whole drive, plus a metadata sidecar that always changes with it.
package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kamusis/zearch/internal/index"
	"github.com/kamusis/zearch/internal/search"
	"github.com/kamusis/zearch/internal/walk"
)

const (
	// ArtifactName is the fixed file name of the drive index.
	ArtifactName = "zdrivecontents.txt"
	// MetadataName is the sidecar describing the last build.
	MetadataName = "index_metadata.json"
)

// ErrNoIndex is returned by Search and Metadata before the first Build.
var ErrNoIndex = errors.New("index not found")

// Metadata is the sidecar content.
type Metadata struct {
	Drive string `json:"drive"`
	Files int    `json:"files"`
}

// Index is the drive index stored in one data directory.
type Index struct {
	dir    string
	walker *walk.Walker
	logger *slog.Logger
}

// New returns the drive index kept under dataDir.
func New(dataDir string, walker *walk.Walker, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Index{dir: dataDir, walker: walker, logger: logger}
}

// ArtifactPath returns the location of the path list.
func (x *Index) ArtifactPath() string { return filepath.Join(x.dir, ArtifactName) }

// MetadataPath returns the location of the sidecar.
func (x *Index) MetadataPath() string { return filepath.Join(x.dir, MetadataName) }

// Build walks root and rewrites both the artifact and the sidecar. Both are
// written under one lock; if the walk or either install fails neither
// changes.
func (x *Index) Build(ctx context.Context, root string) (*Metadata, error) {
	if err := os.MkdirAll(x.dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data dir %s: %w", x.dir, err)
	}
	release, err := index.Lock(ctx, filepath.Join(x.dir, ".build.lock"))
	if err != nil {
		return nil, err
	}
	defer release()

	art, err := index.StageArtifact(ctx, x.walker, root, x.ArtifactPath())
	if err != nil {
		return nil, err
	}
	defer art.Discard()
	stats := art.Stats

	meta := &Metadata{Drive: root, Files: stats.Files}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, err
	}
	side, err := index.StageFile(x.MetadataPath(), b)
	if err != nil {
		return nil, err
	}
	defer side.Discard()

	// The sidecar must never describe another scan than the artifact: if it
	// cannot be installed the previous artifact is put back.
	installed, err := art.Install()
	if err != nil {
		return nil, err
	}
	defer installed.Done()
	if err := side.Commit(); err != nil {
		if undoErr := installed.Undo(); undoErr != nil {
			return nil, errors.Join(err, undoErr)
		}
		return nil, err
	}
	x.logger.Info("drive index built",
		slog.String("drive", root),
		slog.Int("files", stats.Files),
		slog.Int("skipped", stats.Skipped))
	return meta, nil
}

// Search runs the fixed case-insensitive substring search over the artifact.
func (x *Index) Search(ctx context.Context, pattern string) (*search.Result, error) {
	res, err := search.SearchFixed(ctx, x.ArtifactPath(), pattern)
	if errors.Is(err, search.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNoIndex, x.ArtifactPath())
	}
	return res, err
}

// Metadata reads the sidecar of the last build.
func (x *Index) Metadata() (*Metadata, error) {
	b, err := os.ReadFile(x.MetadataPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoIndex, x.MetadataPath())
		}
		return nil, fmt.Errorf("cannot read %s: %w", x.MetadataPath(), err)
	}
	var m Metadata
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("invalid metadata JSON %s: %w", x.MetadataPath(), err)
	}
	return &m, nil
}

package index

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamusis/zearch/internal/walk"
)

// BuildStats summarizes one artifact build.
type BuildStats struct {
	Files   int
	Skipped int
}

// Staged is a file written next to its destination but not yet installed.
type Staged struct {
	tmp   string
	dest  string
	Stats BuildStats
}

// StageArtifact walks root into a temp file in dest's directory. Nothing
// visible changes until Commit or Install; Discard removes the temp file.
func StageArtifact(ctx context.Context, w *walk.Walker, root, dest string) (*Staged, error) {
	var stats BuildStats

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries, err := w.Walk(ctx, root)
	if err != nil {
		return nil, err
	}

	tmp, err := createTemp(dest)
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriterSize(tmp, 256*1024)
	for e := range entries {
		switch {
		case e.Err != nil:
			return nil, fmt.Errorf("walk %s: %w", root, e.Err)
		case e.Skipped:
			stats.Skipped++
			continue
		case strings.ContainsAny(e.Path, "\r\n"):
			// A line break inside a name would split it across two lines.
			stats.Skipped++
			continue
		}
		if _, err := bw.WriteString(e.Path); err != nil {
			return nil, fmt.Errorf("cannot write %s: %w", tmpPath, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return nil, fmt.Errorf("cannot write %s: %w", tmpPath, err)
		}
		stats.Files++
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("cannot write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("cannot sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("cannot close %s: %w", tmpPath, err)
	}
	ok = true
	return &Staged{tmp: tmpPath, dest: dest, Stats: stats}, nil
}

// StageFile writes data to a temp file next to path.
func StageFile(path string, data []byte) (*Staged, error) {
	tmp, err := createTemp(path)
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("cannot write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("cannot close %s: %w", tmpPath, err)
	}
	return &Staged{tmp: tmpPath, dest: path}, nil
}

// Commit renames the staged file over its destination.
func (s *Staged) Commit() error {
	if err := replaceFile(s.tmp, s.dest); err != nil {
		_ = os.Remove(s.tmp)
		return fmt.Errorf("cannot install %s: %w", s.dest, err)
	}
	return nil
}

// Discard removes the temp file. It is a no-op after a successful Commit.
func (s *Staged) Discard() {
	_ = os.Remove(s.tmp)
}

// Install commits s and keeps the previous content of the destination (a
// hard link, no copy) so the caller can roll back with Undo. Done drops the
// kept copy.
func (s *Staged) Install() (*Installed, error) {
	in := &Installed{dest: s.dest}
	if _, err := os.Lstat(s.dest); err == nil {
		in.prev = s.tmp + ".prev"
		if err := os.Link(s.dest, in.prev); err != nil {
			s.Discard()
			return nil, fmt.Errorf("cannot keep previous %s: %w", s.dest, err)
		}
	}
	if err := s.Commit(); err != nil {
		in.Done()
		return nil, err
	}
	return in, nil
}

// Installed is a committed file whose previous version can still be restored.
type Installed struct {
	dest string
	prev string
}

// Undo puts the previous content back, or removes the destination when there
// was none.
func (in *Installed) Undo() error {
	if in.prev == "" {
		return removeFile(in.dest)
	}
	if err := replaceFile(in.prev, in.dest); err != nil {
		return fmt.Errorf("cannot restore %s: %w", in.dest, err)
	}
	in.prev = ""
	return nil
}

// Done removes the kept previous version.
func (in *Installed) Done() {
	if in.prev != "" {
		_ = os.Remove(in.prev)
		in.prev = ""
	}
}

// WriteArtifact walks root and replaces dest with one path per line. The new
// content goes to a temp file in dest's directory and is renamed over dest
// only once the walk completed, so dest is either the old or the new
// artifact, never a mix. Callers serialize writers with Lock.
func WriteArtifact(ctx context.Context, w *walk.Walker, root, dest string) (BuildStats, error) {
	st, err := StageArtifact(ctx, w, root, dest)
	if err != nil {
		return BuildStats{}, err
	}
	if err := st.Commit(); err != nil {
		return st.Stats, err
	}
	return st.Stats, nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it into
// place.
func WriteFileAtomic(path string, data []byte) error {
	st, err := StageFile(path, data)
	if err != nil {
		return err
	}
	return st.Commit()
}

func createTemp(dest string) (*os.File, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("cannot create temp file: %w", err)
	}
	return tmp, nil
}

package index

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Info describes one artifact on disk.
type Info struct {
	Name    string    `yaml:"name"`
	Path    string    `yaml:"path"`
	Files   int       `yaml:"files"`
	Size    int64     `yaml:"size_bytes"`
	ModTime time.Time `yaml:"modified"`
	// Digest is the xxhash64 of the artifact content, hex encoded. Two
	// builds of an unchanged directory produce the same digest.
	Digest string `yaml:"digest"`
}

// Info returns metadata for the artifact called name.
func (s *Store) Info(name string) (*Info, error) {
	if Sanitize(name) == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := s.PathFor(name)
	info, err := Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, err
	}
	info.Name = Sanitize(name)
	return info, nil
}

// Stat reads the artifact at path and returns its line count and digest.
func Stat(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat %s: %w", path, err)
	}

	h := xxhash.New()
	lines := 0
	buf := make([]byte, 64*1024)
	var last byte
	for {
		n, err := f.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			_, _ = h.Write(chunk)
			lines += bytes.Count(chunk, []byte{'\n'})
			last = chunk[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
	}
	if st.Size() > 0 && last != '\n' {
		lines++
	}

	return &Info{
		Path:    path,
		Files:   lines,
		Size:    st.Size(),
		ModTime: st.ModTime(),
		Digest:  fmt.Sprintf("%016x", h.Sum64()),
	}, nil
}

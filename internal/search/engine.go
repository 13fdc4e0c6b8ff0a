// Package search scans path index artifacts line by line for a substring or a
// regular expression.
package search

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ctxCheckEvery is how many lines are scanned between context checks.
const ctxCheckEvery = 4096

// Search returns every line of the artifact at path matching q, in file order.
func Search(ctx context.Context, path string, q Query) (*Result, error) {
	res := &Result{Matches: []string{}}
	stats, err := Scan(ctx, path, q, func(m Match) error {
		res.Matches = append(res.Matches, m.Line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Lines = stats.Lines
	res.Degraded = stats.Degraded
	return res, nil
}

// SearchFixed is the drive tool's entry point: a case-insensitive substring
// search. It behaves exactly like Search with ModeSubstring.
func SearchFixed(ctx context.Context, path, term string) (*Result, error) {
	return Search(ctx, path, Query{Term: term, Mode: ModeSubstring})
}

// Stats counts what a Scan has read.
type Stats struct {
	Lines    int
	Degraded int
}

// Scan calls fn for each matching line of the artifact at path. The artifact
// must exist (ErrNotFound) and q must compile (ErrInvalidPattern) before any
// line is read. An error from fn stops the scan and is returned as is.
func Scan(ctx context.Context, path string, q Query, fn func(Match) error) (Stats, error) {
	var stats Stats

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return stats, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Compile(q)
	if err != nil {
		return stats, err
	}

	r := bufio.NewReaderSize(f, 64*1024)
	for {
		raw, readErr := r.ReadBytes('\n')
		if len(raw) > 0 {
			stats.Lines++
			if stats.Lines%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return stats, err
				}
			}
			line, degraded := Decode(raw)
			if degraded {
				stats.Degraded++
			}
			if m.Match(line) {
				if err := fn(Match{Line: line, LineNo: stats.Lines, Degraded: degraded}); err != nil {
					return stats, err
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return stats, fmt.Errorf("cannot read %s: %w", path, readErr)
		}
	}
	return stats, ctx.Err()
}

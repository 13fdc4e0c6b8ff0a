package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockRetryDelay = 100 * time.Millisecond
	// lockWait bounds how long a writer waits for another process updating
	// the same artifact.
	lockWait = 30 * time.Second
)

// Lock takes the advisory cross-process lock at path, waiting up to 30s for a
// concurrent holder. The returned func releases it.
func Lock(ctx context.Context, path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create lock directory: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	fl := flock.New(path)
	locked, err := fl.TryLockContext(waitCtx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w (lock: %s)", ErrLocked, path)
		}
		return nil, fmt.Errorf("cannot acquire lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock: %s)", ErrLocked, path)
	}
	return func() { _ = fl.Unlock() }, nil
}

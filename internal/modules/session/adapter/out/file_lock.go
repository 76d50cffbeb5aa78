package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"oryx/internal/platform/tx"
)

// FileLockManager serialises read-modify-write cycles on the history log
// across processes with an advisory flock(2) on a sibling lock file.
type FileLockManager struct {
	path string
}

func NewFileLockManager(historyPath string) tx.Manager {
	return &FileLockManager{path: historyPath + ".lock"}
}

func (m *FileLockManager) Within(ctx context.Context, fn func(context.Context) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close lock file: %w", closeErr)
		}
	}()
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("flock: %w", err)
	}
	defer func() {
		if unlockErr := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); unlockErr != nil {
			err = errors.Join(err, fmt.Errorf("funlock: %w", unlockErr))
		}
	}()
	return fn(ctx)
}

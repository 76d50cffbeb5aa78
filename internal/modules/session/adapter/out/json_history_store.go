package out

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"oryx/internal/modules/session/domain"
	sessionout "oryx/internal/modules/session/port/out"
	apperrors "oryx/internal/platform/errors"
)

// JSONHistoryStore keeps the session log as a single JSON array, newest
// session first.
type JSONHistoryStore struct {
	path string
}

func NewJSONHistoryStore(path string) sessionout.HistoryStore {
	return &JSONHistoryStore{path: path}
}

func (s *JSONHistoryStore) Path() string {
	return s.path
}

func (s *JSONHistoryStore) Init(_ context.Context) error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %w", apperrors.ErrStorage, s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create history dir: %w", apperrors.ErrStorage, err)
	}
	// O_EXCL keeps a concurrently created log intact.
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("%w: create %s: %w", apperrors.ErrStorage, s.path, err)
	}
	if _, err := f.WriteString("[]"); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write empty history: %w", apperrors.ErrStorage, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", apperrors.ErrStorage, s.path, err)
	}
	return nil
}

func (s *JSONHistoryStore) Read(_ context.Context) ([]domain.Session, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: history %s", apperrors.ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("%w: read %s: %w", apperrors.ErrStorage, s.path, err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", apperrors.ErrDecode, s.path)
	}
	sessions := []domain.Session{}
	if err := json.Unmarshal(payload, &sessions); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrDecode, s.path, err)
	}
	if sessions == nil {
		// a literal null decodes to nil
		sessions = []domain.Session{}
	}
	for idx := range sessions {
		if sessions[idx].Labels == nil {
			sessions[idx].Labels = []string{}
		}
	}
	return sessions, nil
}

// Write replaces the log. The payload goes to a temp file in the same
// directory first and is renamed over the log, so readers never observe a
// partially written array.
func (s *JSONHistoryStore) Write(_ context.Context, sessions []domain.Session) error {
	if sessions == nil {
		sessions = []domain.Session{}
	}
	payload, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("%w: marshal history: %w", apperrors.ErrStorage, err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", apperrors.ErrStorage, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: write temp file: %w", apperrors.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: close temp file: %w", apperrors.ErrStorage, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: chmod temp file: %w", apperrors.ErrStorage, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: replace %s: %w", apperrors.ErrStorage, s.path, err)
	}
	return nil
}

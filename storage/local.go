package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var _ Sweeper = (*Local)(nil)

type Local struct {
	BaseDir string
}

func NewLocal(baseDir string) *Local {
	return &Local{BaseDir: baseDir}
}

func (l *Local) Put(_ context.Context, r io.Reader, in PutInput) (PutResult, error) {
	if err := os.MkdirAll(l.BaseDir, 0o755); err != nil {
		return PutResult{}, err
	}

	key := uuid.NewString() + safeExt(in.Filename)
	path := filepath.Join(l.BaseDir, key)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return PutResult{}, err
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return PutResult{}, fmt.Errorf("write %s: %w", key, err)
	}
	return PutResult{Key: key, Size: n}, nil
}

func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	err := os.Remove(l.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Sweep removes files modified before the cutoff
func (l *Local) Sweep(_ context.Context, before time.Time) (int, error) {
	entries, err := os.ReadDir(l.BaseDir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(before) {
			continue
		}
		if err := os.Remove(filepath.Join(l.BaseDir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return deleted, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		deleted++
	}
	return deleted, nil
}

// path keeps keys inside BaseDir
func (l *Local) path(key string) string {
	return filepath.Join(l.BaseDir, filepath.Base(key))
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }

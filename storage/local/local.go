// Package local implements storage.Storage on the local filesystem with
// atomic replace-on-write semantics.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(_ context.Context, cfg storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return NewStorage(cfg.Local.BasePath)
	})
}

// Storage implements storage.Storage rooted at a base directory.
type Storage struct {
	basePath string
}

var (
	_ storage.Storage     = (*Storage)(nil)
	_ storage.LocalPather = (*Storage)(nil)
)

// NewStorage creates the base directory if needed.
func NewStorage(basePath string) (*Storage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &Storage{basePath: abs}, nil
}

// BasePath returns the absolute root directory.
func (s *Storage) BasePath() string { return s.basePath }

// Path returns the absolute filesystem path of an object. Keys cannot
// escape the base directory.
func (s *Storage) Path(path string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("storage: empty object path")
	}
	return filepath.Join(s.basePath, clean), nil
}

// Upload writes to a temporary file in the target directory, syncs it and
// renames it over the destination.
func (s *Storage) Upload(_ context.Context, path string, reader io.Reader) (err error) {
	fullPath, err := s.Path(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, reader); err != nil {
		return fmt.Errorf("storage: write file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("storage: sync file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("storage: close file: %w", err)
	}
	if err = os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("storage: rename file: %w", err)
	}
	syncDir(dir)
	return nil
}

// Download opens the object for reading.
func (s *Storage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	fullPath, err := s.Path(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
		}
		return nil, fmt.Errorf("storage: open file: %w", err)
	}
	return f, nil
}

// Delete removes the object. Missing objects are ignored.
func (s *Storage) Delete(_ context.Context, path string) error {
	fullPath, err := s.Path(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

// Exists reports whether a regular file exists at path.
func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	fullPath, err := s.Path(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat file: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// syncDir flushes the directory entry after a rename. Not every platform
// supports fsync on directories, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	d.Sync()
	d.Close()
}

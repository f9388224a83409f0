// Package storage defines a small object-storage contract with local
// filesystem and S3 backends.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned (wrapped) when an object does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Storage defines object storage operations keyed by slash-separated paths.
type Storage interface {
	// Upload writes reader to path. A reader observing path sees either the
	// previous object or the complete new one.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Download returns a reader for the object at path. The caller closes it.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path. Missing objects are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether an object exists at path.
	Exists(ctx context.Context, path string) (bool, error)
}

// LocalPather is implemented by backends whose objects live on the local
// filesystem and can be handed to other processes by path.
type LocalPather interface {
	Path(path string) (string, error)
}

// ReadAll downloads the object at path into memory.
func ReadAll(ctx context.Context, s Storage, path string) ([]byte, error) {
	rc, err := s.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

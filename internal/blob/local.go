package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/avolkovs/paintrack/internal/common"
	"github.com/avolkovs/paintrack/internal/filex"
)

// LocalStore keeps every photo as one uniquely named file in a dedicated
// directory. The storage key is the file name; no lookup table exists beyond
// the key stored on the photo row.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the photos directory if needed and returns a store
// rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, &common.StorageError{Op: "init", Err: err}
	}
	return &LocalStore{dir: abs}, nil
}

// Put writes data to a new uniquely named file. The bytes land in a
// temporary file first and are renamed into place, so a crash mid-write
// never leaves a partial blob under a resolvable key. keyHint is ignored for
// naming; collisions cannot overwrite existing blobs.
func (s *LocalStore) Put(ctx context.Context, keyHint string, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &common.StorageError{Op: "put", Err: err}
	}

	name, err := newObjectName(mimeType)
	if err != nil {
		return "", &common.StorageError{Op: "put", Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", &common.StorageError{Op: "put", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", &common.StorageError{Op: "put", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", &common.StorageError{Op: "put", Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", &common.StorageError{Op: "put", Err: err}
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return "", &common.StorageError{Op: "put", Err: err}
	}

	return name, nil
}

// Get returns the blob bytes for key.
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &common.StorageError{Op: "get", Key: key, Err: err}
	}

	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &common.StorageError{Op: "get", Key: key, Err: err}
	}
	return data, nil
}

// Delete removes the blob. A missing key is treated as success.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &common.StorageError{Op: "delete", Key: key, Err: err}
	}

	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &common.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Exists reports whether a blob is stored under key.
func (s *LocalStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, &common.StorageError{Op: "exists", Key: key, Err: err}
	}

	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &common.StorageError{Op: "exists", Key: key, Err: err}
	}
	return true, nil
}

// resolve rejects keys that would escape the photos directory.
func (s *LocalStore) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, string(os.PathSeparator)) || key != filepath.Base(key) {
		return "", &common.StorageError{Op: "resolve", Key: key, Err: fmt.Errorf("malformed storage key")}
	}
	return filepath.Join(s.dir, key), nil
}

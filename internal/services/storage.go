package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned by ObjectStore.Get for unknown keys.
var ErrObjectNotFound = errors.New("object not found")

type StoredObject struct {
	Key  string
	Size int64
}

// ObjectStore is the durable home for uploaded resume files. Keys are
// generated on Put and recorded on the candidate and the processing log.
type ObjectStore interface {
	Put(ctx context.Context, content []byte, filename string) (*StoredObject, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type diskObjectStore struct {
	rootPath string
}

// NewDiskObjectStore stores objects under rootPath. Used for development and
// single-node deployments; production uses the GCS-backed store.
func NewDiskObjectStore(rootPath string) (ObjectStore, error) {
	if err := os.MkdirAll(filepath.Join(rootPath, "resumes"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &diskObjectStore{rootPath: rootPath}, nil
}

func objectKey(filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("resumes/%s%s", uuid.New().String(), ext)
}

func (s *diskObjectStore) Put(ctx context.Context, content []byte, filename string) (*StoredObject, error) {
	key := objectKey(filename)
	path := filepath.Join(s.rootPath, filepath.FromSlash(key))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return nil, fmt.Errorf("failed to write object: %w", err)
	}
	return &StoredObject{Key: key, Size: int64(len(content))}, nil
}

func (s *diskObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	content, err := os.ReadFile(filepath.Join(s.rootPath, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return content, nil
}

func (s *diskObjectStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(filepath.Join(s.rootPath, filepath.FromSlash(key))); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", key, ErrObjectNotFound)
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Presign on the disk store returns a file URL. Local files need no
// signature; the TTL is ignored.
func (s *diskObjectStore) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	path, err := filepath.Abs(filepath.Join(s.rootPath, filepath.FromSlash(key)))
	if err != nil {
		return "", fmt.Errorf("failed to resolve object path: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return "file://" + path, nil
}

package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalFS stores blobs under a base directory, one file per key. Content
// types are not persisted; the filesystem backend exists for development and
// single-node deployments.
type LocalFS struct {
	basePath string
}

func NewLocalFS(basePath string) (*LocalFS, error) {
	if basePath == "" {
		basePath = "./data/documents"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalFS{basePath: basePath}, nil
}

func (s *LocalFS) Put(_ context.Context, key string, data []byte, _ string) error {
	path := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	return nil
}

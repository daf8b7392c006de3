package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type LocalStore struct {
	basePath string
}

func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) Upload(ctx context.Context, fileID, filename string, data io.Reader) (string, error) {
	storagePath := storagePathFor(fileID, filename)
	fullPath := filepath.Join(s.basePath, storagePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("write file: %w", err)
	}

	return storagePath, nil
}

func (s *LocalStore) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.basePath, storagePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", storagePath)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return file, nil
}

func (s *LocalStore) Delete(ctx context.Context, storagePath string) error {
	err := os.Remove(filepath.Join(s.basePath, storagePath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

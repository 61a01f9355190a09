package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps uploads under a local directory served at baseURL + "/uploads".
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Upload(_ context.Context, data []byte, contentType, folder string) (string, error) {
	name := objectName(folder, contentType)
	path := filepath.Join(s.dir, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.baseURL + "/uploads/" + name, nil
}

func (s *DiskStore) Delete(_ context.Context, fileURL string) error {
	prefix := s.baseURL + "/uploads/"
	if !strings.HasPrefix(fileURL, prefix) {
		return fmt.Errorf("file %q is not managed by this store", fileURL)
	}

	name := strings.TrimPrefix(fileURL, prefix)
	path := filepath.Join(s.dir, filepath.FromSlash(name))
	if rel, err := filepath.Rel(s.dir, path); err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid file path %q", name)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (s *DiskStore) Dir() string {
	return s.dir
}

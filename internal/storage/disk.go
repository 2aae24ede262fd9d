package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	errMissingRoot = errors.New("storage: root directory is required")
	errEmptyName   = errors.New("storage: object name is required")
)

// DiskStore writes images under a local root and serves them from a base URL.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore constructs a DiskStore, creating the root directory if needed.
func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errMissingRoot
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes the image buffer and returns its public URL.
func (s *DiskStore) Put(_ context.Context, name, _ string, data []byte) (StoredImage, error) {
	cleaned := filepath.Base(strings.TrimSpace(name))
	if cleaned == "" || cleaned == "." {
		return StoredImage{}, errEmptyName
	}
	path := filepath.Join(s.root, cleaned)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return StoredImage{}, fmt.Errorf("storage: write object: %w", err)
	}
	return StoredImage{
		Name: cleaned,
		URL:  s.baseURL + "/" + cleaned,
		Size: int64(len(data)),
	}, nil
}

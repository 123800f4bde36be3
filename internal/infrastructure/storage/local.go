// Package storage holds the filesystem upload backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
)

const BackendLocal = "local"

// LocalStorage writes uploads into a flat directory.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Backend() string { return BackendLocal }

// Save writes through a temp file and renames it into place so readers never
// see a partial upload.
func (s *LocalStorage) Save(_ context.Context, name, _ string, content io.Reader) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.basePath, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return name, nil
}

func (s *LocalStorage) Open(_ context.Context, name string) (*ports.StoredFile, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, domain.ErrFileNotFound
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("open upload: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, domain.ErrFileNotFound
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &ports.StoredFile{Content: f, ContentType: contentType, Size: info.Size()}, nil
}

// path rejects anything that is not a plain file name inside basePath.
func (s *LocalStorage) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || name[0] == '.' {
		return "", fmt.Errorf("%w: bad file name %q", domain.ErrInvalidInput, name)
	}
	return filepath.Join(s.basePath, name), nil
}

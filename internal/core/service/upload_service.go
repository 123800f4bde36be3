package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alquilercordoba/rental-system/internal/pkg/metrics"
	"github.com/alquilercordoba/rental-system/internal/core/domain"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
)

const DefaultMaxUploadBytes int64 = 20 << 20

var (
	allowedImageExt = map[string]struct{}{
		".jpeg": {}, ".jpg": {}, ".png": {}, ".gif": {}, ".webp": {},
	}
	allowedImageMIME = map[string]struct{}{
		"image/jpeg": {}, "image/png": {}, "image/gif": {}, "image/webp": {},
	}
)

type UploadService struct {
	storage  ports.FileStorage
	baseURL  string
	maxBytes int64
	logger   zerolog.Logger
}

// NewUploadService returns a service that stores images in storage and builds
// public URLs as baseURL + "/uploads/" + name.
func NewUploadService(storage ports.FileStorage, baseURL string, maxBytes int64, logger zerolog.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadService{
		storage:  storage,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Upload validates an image by extension and by sniffed content, stores it under
// a random name and returns its public URL.
func (s *UploadService) Upload(ctx context.Context, input ports.UploadInput) (string, error) {
	backend := s.storage.Backend()

	ext := strings.ToLower(filepath.Ext(input.Filename))
	if _, ok := allowedImageExt[ext]; !ok {
		metrics.UploadsTotal.WithLabelValues(backend, "rejected").Inc()
		return "", fmt.Errorf("%w: only jpeg, jpg, png, gif and webp images are allowed", domain.ErrInvalidInput)
	}
	if input.Size > s.maxBytes {
		metrics.UploadsTotal.WithLabelValues(backend, "rejected").Inc()
		return "", fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, s.maxBytes)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(input.Content, s.maxBytes+1))
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(backend, "error").Inc()
		return "", fmt.Errorf("read upload: %w", err)
	}
	if n > s.maxBytes {
		metrics.UploadsTotal.WithLabelValues(backend, "rejected").Inc()
		return "", fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, s.maxBytes)
	}
	if n == 0 {
		metrics.UploadsTotal.WithLabelValues(backend, "rejected").Inc()
		return "", fmt.Errorf("%w: file is empty", domain.ErrInvalidInput)
	}

	mt := mimetype.Detect(buf.Bytes())
	if _, ok := allowedImageMIME[mt.String()]; !ok {
		metrics.UploadsTotal.WithLabelValues(backend, "rejected").Inc()
		s.logger.Warn().Str("filename", input.Filename).Str("detected", mt.String()).Msg("upload rejected")
		return "", fmt.Errorf("%w: content is not a supported image", domain.ErrInvalidInput)
	}

	name, err := s.storage.Save(ctx, uuid.NewString()+ext, mt.String(), &buf)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(backend, "error").Inc()
		return "", fmt.Errorf("store upload: %w", err)
	}

	metrics.UploadsTotal.WithLabelValues(backend, "ok").Inc()
	metrics.UploadSizeBytes.Observe(float64(n))
	s.logger.Info().Str("name", name).Int64("bytes", n).Str("backend", backend).Msg("file uploaded")
	return s.baseURL + "/uploads/" + name, nil
}

func (s *UploadService) Open(ctx context.Context, name string) (*ports.StoredFile, error) {
	return s.storage.Open(ctx, name)
}

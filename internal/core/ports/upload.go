package ports

import (
	"context"
	"io"
)

// StoredFile is a file read back from a FileStorage backend.
type StoredFile struct {
	Content     io.ReadCloser
	ContentType string
	Size        int64
}

// FileStorage persists uploaded files under a generated name.
type FileStorage interface {
	// Save stores content under name and returns the name clients use to fetch it.
	Save(ctx context.Context, name, contentType string, content io.Reader) (string, error)
	// Open returns domain.ErrFileNotFound when name is unknown.
	Open(ctx context.Context, name string) (*StoredFile, error)
	Backend() string
}

// UploadInput is one multipart file as received by the transport layer.
type UploadInput struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type UploadService interface {
	Upload(ctx context.Context, input UploadInput) (string, error)
	Open(ctx context.Context, name string) (*StoredFile, error)
}

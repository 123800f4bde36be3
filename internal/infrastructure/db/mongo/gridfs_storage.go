package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
)

const (
	BackendGridFS     = "gridfs"
	defaultBucketName = "uploads"
	contentTypeKey    = "content_type"
)

// GridFSStorage keeps uploaded images in a GridFS bucket, addressed by file name.
type GridFSStorage struct {
	db     *mongo.Database
	bucket string
	// client is set when OpenGridFS dialled it.
	client *mongo.Client
}

func NewGridFSStorage(db *mongo.Database, bucket string) *GridFSStorage {
	if bucket == "" {
		bucket = defaultBucketName
	}
	return &GridFSStorage{db: db, bucket: bucket}
}

func (s *GridFSStorage) Backend() string { return BackendGridFS }

// Ping checks the server behind the bucket.
func (s *GridFSStorage) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// Close disconnects the client opened by OpenGridFS. It is a no-op for
// storage built around a caller-owned database.
func (s *GridFSStorage) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// open returns a bucket whose deadlines follow ctx. Buckets are not shared
// between calls because deadlines are per-bucket state.
func (s *GridFSStorage) open(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucket))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	if dl, ok := ctx.Deadline(); ok {
		if err := b.SetReadDeadline(dl); err != nil {
			return nil, err
		}
		if err := b.SetWriteDeadline(dl); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (s *GridFSStorage) Save(ctx context.Context, name, contentType string, content io.Reader) (string, error) {
	b, err := s.open(ctx)
	if err != nil {
		return "", err
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: contentTypeKey, Value: contentType}})
	if _, err := b.UploadFromStream(name, content, opts); err != nil {
		return "", fmt.Errorf("gridfs upload %s: %w", name, err)
	}
	return name, nil
}

func (s *GridFSStorage) Open(ctx context.Context, name string) (*ports.StoredFile, error) {
	b, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	stream, err := b.OpenDownloadStreamByName(name)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("gridfs open %s: %w", name, err)
	}

	file := stream.GetFile()
	contentType := "application/octet-stream"
	if file.Metadata != nil {
		if v, ok := file.Metadata.Lookup(contentTypeKey).StringValueOK(); ok && v != "" {
			contentType = v
		}
	}

	return &ports.StoredFile{
		Content:     stream,
		ContentType: contentType,
		Size:        file.Length,
	}, nil
}

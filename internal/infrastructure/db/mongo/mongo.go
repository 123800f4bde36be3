// Package mongo stores uploaded images in MongoDB GridFS when
// UPLOAD_BACKEND=gridfs.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	appName               = "rental-api"
	defaultConnectTimeout = 10 * time.Second
)

// Config is the MONGO_* group of the process configuration.
type Config struct {
	URI      string
	Database string
	// Bucket is the GridFS bucket name; empty means "uploads".
	Bucket         string
	ConnectTimeout time.Duration
}

// connect dials the server and waits for a primary to answer.
func connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}
	return client, nil
}

// OpenGridFS connects to MongoDB and returns upload storage backed by the
// configured bucket. The storage owns the client; release it with Close.
func OpenGridFS(ctx context.Context, cfg Config) (*GridFSStorage, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo: database name is required for gridfs uploads")
	}
	client, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := NewGridFSStorage(client.Database(cfg.Database), cfg.Bucket)
	s.client = client
	return s, nil
}

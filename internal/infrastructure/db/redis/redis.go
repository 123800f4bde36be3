// Package redis backs the property cache. Redis is the shared tier; every
// instance also keeps a short-lived in-process tier in front of it.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	clientName         = "rental-api"
	defaultDialTimeout = 5 * time.Second
)

// Config is the CACHE_* group of the process configuration.
type Config struct {
	// Addr of the shared tier. Empty keeps the cache in-process only.
	Addr string
	DB   int
	// TTL bounds how long a property may be served from the shared tier.
	TTL         time.Duration
	DialTimeout time.Duration
}

func (c Config) shared() bool { return c.Addr != "" }

// Connect dials the shared tier and pings it once.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		ClientName:  clientName,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// OpenPropertyCache builds the property cache described by cfg. With a shared
// address it connects to Redis and the returned cache owns the client;
// otherwise only the in-process tier is used.
func OpenPropertyCache(ctx context.Context, cfg Config, logger zerolog.Logger) (*PropertyCache, error) {
	if !cfg.shared() {
		return NewPropertyCache(nil, cfg.TTL, logger), nil
	}

	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cache := NewPropertyCache(client, cfg.TTL, logger)
	cache.ownsClient = true
	return cache, nil
}

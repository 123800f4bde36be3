package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

const (
	defaultCacheTTL = 5 * time.Minute
	// Local entries are not invalidated by other instances, so they live briefly.
	maxLocalTTL = 30 * time.Second
	// A read that started before a write can re-populate the old row after the
	// write's delete; a second delete after this delay removes it.
	defaultRedeleteDelay = 500 * time.Millisecond
	redeleteTimeout      = 2 * time.Second
)

// PropertyCache is a two-tier read-through cache for single properties: an
// in-process ccache tier in front of Redis. With a nil client only the local
// tier is used. Cache failures are logged and reported as misses.
//
// Key format: property:<id>
type PropertyCache struct {
	local    *ccache.Cache[*domain.Property]
	client   *redis.Client
	ttl      time.Duration
	localTTL time.Duration
	logger   zerolog.Logger

	redeleteDelay time.Duration
	ownsClient    bool
	done          chan struct{}
	closeOnce     sync.Once
}

func NewPropertyCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *PropertyCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	localTTL := ttl
	if localTTL > maxLocalTTL {
		localTTL = maxLocalTTL
	}
	return &PropertyCache{
		local:    ccache.New(ccache.Configure[*domain.Property]().MaxSize(1000)),
		client:   client,
		ttl:      ttl,
		localTTL: localTTL,
		logger:   logger,

		redeleteDelay: defaultRedeleteDelay,
		done:          make(chan struct{}),
	}
}

func (c *PropertyCache) Get(ctx context.Context, id int64) (*domain.Property, bool) {
	key := c.key(id)

	if item := c.local.Get(key); item != nil && !item.Expired() {
		return clone(item.Value()), true
	}
	if c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("property cache get failed")
		}
		return nil, false
	}

	var p domain.Property
	if err := json.Unmarshal(raw, &p); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("property cache entry unreadable")
		return nil, false
	}

	c.local.Set(key, clone(&p), c.localTTL)
	return &p, true
}

func (c *PropertyCache) Set(ctx context.Context, p *domain.Property) {
	if p == nil {
		return
	}
	key := c.key(p.ID)
	c.local.Set(key, clone(p), c.localTTL)

	if c.client == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("property cache encode failed")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("property cache set failed")
	}
}

// Invalidate drops id from both tiers now and once more after redeleteDelay,
// so a concurrent read-through cannot keep a stale row alive for the full TTL.
func (c *PropertyCache) Invalidate(ctx context.Context, id int64) {
	key := c.key(id)
	c.evict(ctx, key)

	time.AfterFunc(c.redeleteDelay, func() {
		select {
		case <-c.done:
			return
		default:
		}
		delCtx, cancel := context.WithTimeout(context.Background(), redeleteTimeout)
		defer cancel()
		c.evict(delCtx, key)
	})
}

func (c *PropertyCache) evict(ctx context.Context, key string) {
	c.local.Delete(key)

	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("property cache invalidate failed")
	}
}

// Ping reports the health of the shared tier. A local-only cache is always healthy.
func (c *PropertyCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Shared reports whether a Redis tier is attached.
func (c *PropertyCache) Shared() bool { return c.client != nil }

// Stop releases the local tier's worker and, when the cache opened it, the
// Redis client.
func (c *PropertyCache) Stop() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.local.Stop()
		if c.ownsClient {
			if err := c.client.Close(); err != nil {
				c.logger.Warn().Err(err).Msg("property cache close failed")
			}
		}
	})
}

func (c *PropertyCache) key(id int64) string {
	return "property:" + strconv.FormatInt(id, 10)
}

// clone keeps callers from mutating cached slices.
func clone(p *domain.Property) *domain.Property {
	if p == nil {
		return nil
	}
	out := *p
	out.Images = append([]string{}, p.Images...)
	out.Amenities = append([]string{}, p.Amenities...)
	return &out
}

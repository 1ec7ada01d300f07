package record

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"mintguard/internal/registry/models"
	"mintguard/pkg/domain"
)

const cacheKeyPrefix = "mintguard:record:"

// Cache is a read-through layer over a Store. Records are immutable between
// transitions, so writes simply refresh the entry; a cache miss or a redis
// failure falls back to the inner store.
type Cache struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(inner Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *Cache) Get(ctx context.Context, anchor domain.Anchor) (*models.RegistryRecord, error) {
	key := cacheKeyPrefix + string(anchor)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var rec models.RegistryRecord
		if err := json.Unmarshal(raw, &rec); err == nil {
			return &rec, nil
		}
		// Undecodable entry: drop it and fall through.
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("record cache read failed", "anchor", anchor, "error", err)
	}

	rec, err := c.inner.Get(ctx, anchor)
	if err != nil {
		return nil, err
	}
	c.set(ctx, anchor, rec)
	return rec, nil
}

func (c *Cache) Create(ctx context.Context, anchor domain.Anchor, rec *models.RegistryRecord) error {
	if err := c.inner.Create(ctx, anchor, rec); err != nil {
		return err
	}
	c.set(ctx, anchor, rec)
	return nil
}

func (c *Cache) Swap(ctx context.Context, anchor domain.Anchor, priorSupply uint64, rec *models.RegistryRecord) error {
	if err := c.inner.Swap(ctx, anchor, priorSupply, rec); err != nil {
		// A failed swap means our cached view may be stale.
		c.client.Del(ctx, cacheKeyPrefix+string(anchor))
		return err
	}
	c.set(ctx, anchor, rec)
	return nil
}

func (c *Cache) set(ctx context.Context, anchor domain.Anchor, rec *models.RegistryRecord) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+string(anchor), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("record cache write failed", "anchor", anchor, "error", err)
	}
}

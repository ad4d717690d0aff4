package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	catalogapp "github.com/commerce/backend/internal/application/catalog"
	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Ensure RedisCatalogCache implements ProductCache
var _ catalogapp.ProductCache = (*RedisCatalogCache)(nil)

const (
	// DefaultProductTTL bounds how stale a cached product can get
	DefaultProductTTL = 5 * time.Minute

	scanBatchSize = 100
)

// RedisCatalogCache caches catalog read models in Redis. Writes to the
// catalog invalidate the affected entries so readers never see a product
// long after it changed.
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// RedisCatalogCacheOption is a functional option for configuring the cache
type RedisCatalogCacheOption func(*RedisCatalogCache)

// WithProductTTL sets the product entry lifetime
func WithProductTTL(ttl time.Duration) RedisCatalogCacheOption {
	return func(c *RedisCatalogCache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisCatalogCacheOption {
	return func(c *RedisCatalogCache) {
		c.logger = logger
	}
}

// NewRedisCatalogCache creates a cache on an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisCatalogCache(client *redis.Client, opts ...RedisCatalogCacheOption) *RedisCatalogCache {
	cache := &RedisCatalogCache{
		client: client,
		ttl:    DefaultProductTTL,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func (c *RedisCatalogCache) productKey(slug string) string {
	return fmt.Sprintf("catalog:product:%s", slug)
}

// GetProduct retrieves a product from cache. A miss returns nil without error.
func (c *RedisCatalogCache) GetProduct(ctx context.Context, slug string) (*catalog.Product, error) {
	key := c.productKey(slug)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product from cache: %w", err)
	}

	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		// Corrupted entry, drop it and treat as a miss
		_ = c.client.Del(ctx, key)
		c.logger.Warn("dropped corrupted cache entry",
			zap.String("slug", slug),
			zap.Error(err))
		return nil, nil
	}

	return &product, nil
}

// SetProduct stores a product in cache
func (c *RedisCatalogCache) SetProduct(ctx context.Context, product *catalog.Product) error {
	if product == nil {
		return nil
	}

	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	if err := c.client.Set(ctx, c.productKey(product.Slug), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set product in cache: %w", err)
	}

	return nil
}

// DeleteProduct removes a product from cache
func (c *RedisCatalogCache) DeleteProduct(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, c.productKey(slug)).Err(); err != nil {
		return fmt.Errorf("failed to delete product from cache: %w", err)
	}
	return nil
}

// InvalidateAll removes every catalog entry. SCAN keeps Redis responsive
// where KEYS would block.
func (c *RedisCatalogCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	var deleted int64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, "catalog:*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deleted += n
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("invalidated catalog cache", zap.Int64("deleted", deleted))
	return nil
}

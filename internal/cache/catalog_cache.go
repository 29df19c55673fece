package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mstavrou/epresent-backend/config"
	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	categoryTreeKey = "catalog:category-tree"
	categoryTreeTTL = 10 * time.Minute
)

// CatalogCache caches the built category tree in Redis. All operations are
// best-effort: a nil client or a Redis failure degrades to a cache miss so
// the catalog keeps serving from the database.
type CatalogCache struct {
	client *redis.Client
}

// Connect opens a Redis connection and verifies it with a ping. Callers that
// can run without caching should treat an error as non-fatal.
func Connect(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})
	return client, nil
}

// NewCatalogCache wraps a Redis client. A nil client yields a no-op cache.
func NewCatalogCache(client *redis.Client) *CatalogCache {
	return &CatalogCache{client: client}
}

// GetCategoryTree returns the cached tree, or (nil, false) on a miss.
func (c *CatalogCache) GetCategoryTree(ctx context.Context) ([]*model.CategoryNode, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, categoryTreeKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug("Category tree cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}

	var tree []*model.CategoryNode
	if err := json.Unmarshal(payload, &tree); err != nil {
		logger.Warn("Discarding malformed category tree cache entry", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}
	return tree, true
}

// SetCategoryTree stores the tree with a short TTL.
func (c *CatalogCache) SetCategoryTree(ctx context.Context, tree []*model.CategoryNode) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(tree)
	if err != nil {
		logger.Debug("Category tree cache encode failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := c.client.Set(ctx, categoryTreeKey, payload, categoryTreeTTL).Err(); err != nil {
		logger.Debug("Category tree cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// InvalidateCategoryTree drops the cached tree after category mutations.
func (c *CatalogCache) InvalidateCategoryTree(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, categoryTreeKey).Err(); err != nil {
		logger.Debug("Category tree cache invalidation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"labstore/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

const catalogKey = "catalog:products"

// Catalog caching

func (c *Client) SetCatalog(products []models.Product, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	return c.rdb.Set(ctx, catalogKey, jsonData, ttl).Err()
}

func (c *Client) GetCatalog() ([]models.Product, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, catalogKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("catalog not cached")
		}
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(val), &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	return products, nil
}

func (c *Client) InvalidateCatalog() error {
	ctx := context.Background()
	return c.rdb.Del(ctx, catalogKey).Err()
}

// Job locking. AcquireLock returns true when this process holds the lease;
// a second scheduler sees false and skips the run.

func (c *Client) AcquireLock(name string, ttl time.Duration) (bool, error) {
	ctx := context.Background()
	ok, err := c.rdb.SetNX(ctx, "lock:"+name, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	return ok, nil
}

func (c *Client) ReleaseLock(name string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "lock:"+name).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

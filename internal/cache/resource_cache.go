package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"opencivics/internal/model"
)

// ResourceCache caches resource-search results keyed by the search
// filters. Upstream lookups are slow and results change rarely, so a
// short TTL cuts most of the repeat traffic.
type ResourceCache interface {
	Set(ctx context.Context, filters model.SearchFilters, resources []model.Resource) error
	Get(ctx context.Context, filters model.SearchFilters) ([]model.Resource, bool, error)
}

type resourceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResourceCache(client *redis.Client) ResourceCache {
	return &resourceCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

// key hashes the marshaled filters so arbitrary query text stays a valid
// redis key
func (c *resourceCache) key(filters model.SearchFilters) string {
	data, _ := json.Marshal(filters)
	sum := sha1.Sum(data)
	return fmt.Sprintf("resources:%s", hex.EncodeToString(sum[:]))
}

func (c *resourceCache) Set(ctx context.Context, filters model.SearchFilters, resources []model.Resource) error {
	data, err := json.Marshal(resources)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(filters), data, c.ttl).Err()
}

func (c *resourceCache) Get(ctx context.Context, filters model.SearchFilters) ([]model.Resource, bool, error) {
	data, err := c.client.Get(ctx, c.key(filters)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resources []model.Resource
	if err := json.Unmarshal([]byte(data), &resources); err != nil {
		return nil, false, err
	}
	return resources, true, nil
}

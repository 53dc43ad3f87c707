package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"opencivics/internal/model"
)

// ProfileCache is a read-through cache in front of the profile repository.
// The durable store stays the source of truth; entries are invalidated on
// every profile write.
type ProfileCache interface {
	Set(ctx context.Context, profile *model.Profile) error
	Get(ctx context.Context, profileID string) (*model.Profile, error)
	Invalidate(ctx context.Context, profileID string) error
}

type profileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProfileCache(client *redis.Client) ProfileCache {
	return &profileCache{
		client: client,
		ttl:    15 * time.Minute,
	}
}

func (c *profileCache) key(profileID string) string {
	return fmt.Sprintf("profile:%s", profileID)
}

func (c *profileCache) Set(ctx context.Context, profile *model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(profile.ID), data, c.ttl).Err()
}

func (c *profileCache) Get(ctx context.Context, profileID string) (*model.Profile, error) {
	data, err := c.client.Get(ctx, c.key(profileID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var profile model.Profile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *profileCache) Invalidate(ctx context.Context, profileID string) error {
	return c.client.Del(ctx, c.key(profileID)).Err()
}

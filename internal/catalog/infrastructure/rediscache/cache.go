package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"restaurant-pos/internal/catalog/domain"
)

// Cache keeps one serialized menu bundle per version. Old versions
// age out via TTL; a version bump simply misses and repopulates.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func key(version int64) string {
	return fmt.Sprintf("menu:v%d", version)
}

func (c *Cache) Get(ctx context.Context, version int64) (domain.Menu, bool, error) {
	raw, err := c.rdb.Get(ctx, key(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Menu{}, false, nil
	}
	if err != nil {
		return domain.Menu{}, false, err
	}
	var menu domain.Menu
	if err := json.Unmarshal(raw, &menu); err != nil {
		// Treat a corrupt entry as a miss; the read path rebuilds it.
		return domain.Menu{}, false, nil
	}
	return menu, true, nil
}

func (c *Cache) Set(ctx context.Context, menu domain.Menu) error {
	raw, err := json.Marshal(menu)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(menu.Version), raw, c.ttl).Err()
}

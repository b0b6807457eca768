package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store remembers which request keys have already been handled.
// Backed by redis SetNX with a TTL so keys age out on their own.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// SubmitKey namespaces an order-submission idempotency key.
func SubmitKey(requestID string) string {
	return fmt.Sprintf("idem:submit:%s", requestID)
}

// PrintKey namespaces a print-job idempotency key.
func PrintKey(jobID string) string {
	return fmt.Sprintf("idem:print:%s", jobID)
}

// Seen marks the key and reports whether it had been seen before.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

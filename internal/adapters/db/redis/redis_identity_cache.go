package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/model"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ident:"

// RedisIdentityCache stores resolved identities as JSON, keyed by email.
// Entries expire on their own TTL and are purged explicitly on every user
// mutation.
type RedisIdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIdentityCache(client *redis.Client, ttl time.Duration) *RedisIdentityCache {
	return &RedisIdentityCache{client: client, ttl: ttl}
}

func (r *RedisIdentityCache) Get(ctx context.Context, email string) (model.CachedIdentity, bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+email).Bytes()
	switch {
	case err == redis.Nil:
		return model.CachedIdentity{}, false, nil
	case err != nil:
		return model.CachedIdentity{}, false, err
	}

	var ident model.CachedIdentity
	if err := json.Unmarshal(data, &ident); err != nil {
		// corrupt entry: drop it and treat as a miss
		_ = r.client.Del(ctx, keyPrefix+email).Err()
		return model.CachedIdentity{}, false, nil
	}
	return ident, true, nil
}

func (r *RedisIdentityCache) Set(ctx context.Context, ident model.CachedIdentity) error {
	data, err := json.Marshal(ident)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefix+ident.Email, data, r.ttl).Err()
}

func (r *RedisIdentityCache) Purge(ctx context.Context, email string) error {
	return r.client.Del(ctx, keyPrefix+email).Err()
}

package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const presenceKeyPrefix = "chat:presence:"

// RedisPresenceRegistry implements chat.PresenceRegistry with expiring
// Redis keys. A participant is online while their key exists; missed
// heartbeats let the key lapse without any cleanup pass.
type RedisPresenceRegistry struct {
	client *redis.Client
}

// NewRedisPresenceRegistry creates a presence registry on the client
func NewRedisPresenceRegistry(client *redis.Client) *RedisPresenceRegistry {
	return &RedisPresenceRegistry{client: client}
}

// SetOnline marks the user online for the TTL, refreshing any prior mark
func (r *RedisPresenceRegistry) SetOnline(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	return r.client.Set(ctx, presenceKeyPrefix+userID.String(), "1", ttl).Err()
}

// SetOffline removes the user's presence mark immediately
func (r *RedisPresenceRegistry) SetOffline(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, presenceKeyPrefix+userID.String()).Err()
}

// IsOnline reports whether the user's presence mark exists
func (r *RedisPresenceRegistry) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := r.client.Exists(ctx, presenceKeyPrefix+userID.String()).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

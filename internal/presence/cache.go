// Package presence caches user display metadata in Redis.
package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/metrics"
)

// Cache is a read-through chat.Directory. Found users are cached for ttl;
// unknown users and lookup errors are never cached, and Redis failures fall
// back to the wrapped directory.
type Cache struct {
	client *redis.Client
	next   chat.Directory
	ttl    time.Duration
	log    zerolog.Logger
}

var _ chat.Directory = (*Cache)(nil)

// NewCache wraps next with a Redis cache.
func NewCache(client *redis.Client, next chat.Directory, ttl time.Duration, log zerolog.Logger) *Cache {
	return &Cache{client: client, next: next, ttl: ttl, log: log}
}

// Connect parses redisURL and checks the connection.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// userKey returns the key for a user's cached display info.
func userKey(userID string) string {
	return fmt.Sprintf("presence:user:%s", userID)
}

// DisplayInfo returns the cached display info of userID, loading it from the
// wrapped directory on a miss.
func (c *Cache) DisplayInfo(ctx context.Context, userID string) (chat.UserInfo, error) {
	key := userKey(userID)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var info chat.UserInfo
		if err := json.Unmarshal(data, &info); err == nil {
			metrics.PresenceCacheLookups.WithLabelValues("hit").Inc()
			return info, nil
		}
		c.log.Warn().Str("user_id", userID).Msg("dropping undecodable presence cache entry")
		_ = c.client.Del(ctx, key).Err()
		metrics.PresenceCacheLookups.WithLabelValues("miss").Inc()
	case errors.Is(err, redis.Nil):
		metrics.PresenceCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.PresenceCacheLookups.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Str("user_id", userID).Msg("presence cache read failed")
	}

	info, err := c.next.DisplayInfo(ctx, userID)
	if err != nil {
		return chat.UserInfo{}, err
	}

	if data, err := json.Marshal(info); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("user_id", userID).Msg("presence cache write failed")
		}
	}
	return info, nil
}

// Invalidate drops the cached entry of userID.
func (c *Cache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, userKey(userID)).Err()
}

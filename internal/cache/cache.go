package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"media-board-backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Client is a Redis-backed side cache for post reads. A nil *Client is
// valid and disables caching, so callers never branch on configuration.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a cache client and verifies the connection
func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close releases the underlying connection
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func postKey(id uuid.UUID) string {
	return "post:" + id.String()
}

// GetPost returns the cached post and whether it was present. Cache errors
// count as a miss; the database remains the source of truth.
func (c *Client) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, postKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Debug().Err(err).Str("post_id", id.String()).Msg("cache read failed")
		}
		return nil, false
	}
	var post models.Post
	if err := json.Unmarshal(data, &post); err != nil {
		log.Debug().Err(err).Str("post_id", id.String()).Msg("cache entry corrupt")
		return nil, false
	}
	return &post, true
}

// SetPost stores a post with the configured TTL
func (c *Client) SetPost(ctx context.Context, post *models.Post) {
	if c == nil {
		return
	}
	data, err := json.Marshal(post)
	if err != nil {
		log.Debug().Err(err).Str("post_id", post.ID.String()).Msg("cache marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, postKey(post.ID), data, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("post_id", post.ID.String()).Msg("cache write failed")
	}
}

// InvalidatePost drops the cached entries for the given post ids
func (c *Client) InvalidatePost(ctx context.Context, ids ...uuid.UUID) {
	if c == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = postKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Debug().Err(err).Int("keys", len(keys)).Msg("cache invalidation failed")
	}
}

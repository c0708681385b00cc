package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"voidchat/internal/model"
)

// SessionCache holds the per-user backend session list so the sidebar does
// not hit the backend on every page load.
type SessionCache interface {
	Set(ctx context.Context, userID string, sessions *model.SessionListResponse) error
	Get(ctx context.Context, userID string) (*model.SessionListResponse, error)
	Invalidate(ctx context.Context, userID string) error
}

type sessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a Redis-backed session list cache.
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
	}
}

func (c *sessionCache) Set(ctx context.Context, userID string, sessions *model.SessionListResponse) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "sessions:"+userID, data, 2*time.Minute).Err()
}

func (c *sessionCache) Get(ctx context.Context, userID string) (*model.SessionListResponse, error) {
	data, err := c.client.Get(ctx, "sessions:"+userID).Result()
	if err != nil {
		return nil, err
	}
	var sessions model.SessionListResponse
	err = json.Unmarshal([]byte(data), &sessions)
	return &sessions, err
}

func (c *sessionCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, "sessions:"+userID).Err()
}

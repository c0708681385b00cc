package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"voidchat/internal/model"
)

// HistoryCache holds session transcripts fetched from the backend. Entries
// are invalidated whenever a send completes for the session.
type HistoryCache interface {
	Set(ctx context.Context, sessionID string, history *model.SessionHistoryResponse) error
	Get(ctx context.Context, sessionID string) (*model.SessionHistoryResponse, error)
	Invalidate(ctx context.Context, sessionID string) error
}

type historyCache struct {
	client *redis.Client
}

// NewHistoryCache creates a Redis-backed history cache.
func NewHistoryCache(client *redis.Client) HistoryCache {
	return &historyCache{
		client: client,
	}
}

func (c *historyCache) Set(ctx context.Context, sessionID string, history *model.SessionHistoryResponse) error {
	data, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "history:"+sessionID, data, 5*time.Minute).Err()
}

func (c *historyCache) Get(ctx context.Context, sessionID string) (*model.SessionHistoryResponse, error) {
	data, err := c.client.Get(ctx, "history:"+sessionID).Result()
	if err != nil {
		return nil, err
	}
	var history model.SessionHistoryResponse
	err = json.Unmarshal([]byte(data), &history)
	return &history, err
}

func (c *historyCache) Invalidate(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, "history:"+sessionID).Err()
}

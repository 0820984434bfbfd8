package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eaglebank/internal/model"

	"github.com/go-redis/redis/v8"
)

// AccountCache keeps a short-lived projection of account rows in Redis so
// read-heavy endpoints avoid the database. The transaction commit path never
// reads from it; every balance mutation invalidates the entry.
type AccountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAccountCache(client *redis.Client, ttl time.Duration) *AccountCache {
	return &AccountCache{client: client, ttl: ttl}
}

func accountKey(accountNumber string) string {
	return fmt.Sprintf("account:%s", accountNumber)
}

// Get returns the cached account, or nil on a miss. Cache errors are
// returned so callers can decide to fall through to the database.
func (c *AccountCache) Get(ctx context.Context, accountNumber string) (*model.Account, error) {
	data, err := c.client.Get(ctx, accountKey(accountNumber)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account from cache: %w", err)
	}

	var account model.Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("unmarshal cached account: %w", err)
	}
	return &account, nil
}

func (c *AccountCache) Set(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	if err := c.client.Set(ctx, accountKey(account.AccountNumber), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache account: %w", err)
	}
	return nil
}

func (c *AccountCache) Invalidate(ctx context.Context, accountNumber string) error {
	return c.client.Del(ctx, accountKey(accountNumber)).Err()
}

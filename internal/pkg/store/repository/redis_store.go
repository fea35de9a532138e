package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sahakari/bachatgat_ledger/internal/pkg/models"

	"github.com/redis/go-redis/v9"
)

const walletSummaryKeyPrefix = "gatledger:wallet-summary:"

// WalletSummaryCache keeps the per-group wallet summary view in Redis so the
// read path can skip the aggregate queries between mutations.
type WalletSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewWalletSummaryCache(client *redis.Client, ttl time.Duration) *WalletSummaryCache {
	return &WalletSummaryCache{client: client, ttl: ttl}
}

func walletSummaryKey(groupID string) string {
	return walletSummaryKeyPrefix + groupID
}

// Get returns the cached summary, or (nil, nil) on a cache miss.
func (c *WalletSummaryCache) Get(ctx context.Context, groupID string) (*models.WalletSummary, error) {
	payload, err := c.client.Get(ctx, walletSummaryKey(groupID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summary models.WalletSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *WalletSummaryCache) Set(ctx context.Context, groupID string, summary models.WalletSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, walletSummaryKey(groupID), payload, c.ttl).Err()
}

// Invalidate drops the cached summary after any wallet mutation.
func (c *WalletSummaryCache) Invalidate(ctx context.Context, groupID string) error {
	return c.client.Del(ctx, walletSummaryKey(groupID)).Err()
}

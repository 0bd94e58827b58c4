package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	"github.com/go-redis/redis/v8"
)

const defaultPrefix = "auction:"

// RankCache stores rank tables in one hash per exchange generation:
//
//	<prefix>rankgen:<exchange>          INCR counter, no TTL
//	<prefix>rank:<exchange>:<gen>       hash of target key -> JSON rank table, with TTL
type RankCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ portsrepo.RankCache = (*RankCache)(nil)

// NewRankCache parses a redis:// URL and returns a cache whose tables expire after ttl.
func NewRankCache(redisURL string, ttl time.Duration) (*RankCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRankCacheFromClient(redis.NewClient(opts), ttl), nil
}

// NewRankCacheFromClient wraps an existing client.
func NewRankCacheFromClient(client *redis.Client, ttl time.Duration) *RankCache {
	return &RankCache{client: client, prefix: defaultPrefix, ttl: ttl}
}

// Ping checks connectivity.
func (c *RankCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *RankCache) Close() error {
	return c.client.Close()
}

func (c *RankCache) generationKey(exchangeID string) string {
	return c.prefix + "rankgen:" + exchangeID
}

func (c *RankCache) tableKey(exchangeID string, generation int64) string {
	return fmt.Sprintf("%srank:%s:%d", c.prefix, exchangeID, generation)
}

func (c *RankCache) Generation(ctx context.Context, exchangeID string) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(exchangeID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read rank generation of %s: %w", exchangeID, err)
	}
	return gen, nil
}

func (c *RankCache) GetRankTable(ctx context.Context, exchangeID string, generation int64, target domain.TargetRef) (*domain.RankTable, bool, error) {
	data, err := c.client.HGet(ctx, c.tableKey(exchangeID, generation), target.Key()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read rank table %s: %w", target.Key(), err)
	}
	var table domain.RankTable
	if err := json.Unmarshal([]byte(data), &table); err != nil {
		return nil, false, fmt.Errorf("failed to decode rank table %s: %w", target.Key(), err)
	}
	return &table, true, nil
}

func (c *RankCache) SetRankTable(ctx context.Context, generation int64, table domain.RankTable) error {
	data, err := json.Marshal(table)
	if err != nil {
		return err
	}
	key := c.tableKey(table.ExchangeID, generation)

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, table.Target.Key(), data)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store rank table %s: %w", table.Target.Key(), err)
	}
	return nil
}

// InvalidateExchange bumps the generation. Tables of the old generation are left to expire.
func (c *RankCache) InvalidateExchange(ctx context.Context, exchangeID string) error {
	if err := c.client.Incr(ctx, c.generationKey(exchangeID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate rankings of %s: %w", exchangeID, err)
	}
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/medstock/backend-go/internal/config"
	"github.com/medstock/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	healthSnapshotKey       = "stock_health:snapshot"
	healthSnapshotKeyPrefix = "stock_health:"
	healthScanBatchSize     = 100
)

// HealthCache stores the derived stock-health snapshot. The snapshot is
// cheap to recompute, so every implementation treats misses as normal and
// writes are best-effort.
type HealthCache interface {
	GetSnapshot(ctx context.Context) ([]domain.StockHealthRecord, bool, error)
	SetSnapshot(ctx context.Context, records []domain.StockHealthRecord) error
	InvalidateAll(ctx context.Context) error
}

type redisHealthCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopHealthCache struct{}

func NewHealthCache(cfg config.CacheConfig) (HealthCache, error) {
	if !cfg.Enabled {
		return &noopHealthCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisHealthCache{client: client, ttl: ttl}, nil
}

func NewNoopHealthCache() HealthCache {
	return &noopHealthCache{}
}

func (c *redisHealthCache) GetSnapshot(ctx context.Context) ([]domain.StockHealthRecord, bool, error) {
	payload, err := c.client.Get(ctx, healthSnapshotKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var records []domain.StockHealthRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, false, fmt.Errorf("decode stock health snapshot cache: %w", err)
	}
	return records, true, nil
}

func (c *redisHealthCache) SetSnapshot(ctx context.Context, records []domain.StockHealthRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode stock health snapshot cache: %w", err)
	}

	if err := c.client.Set(ctx, healthSnapshotKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisHealthCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, healthSnapshotKeyPrefix, healthScanBatchSize)
}

func (n *noopHealthCache) GetSnapshot(ctx context.Context) ([]domain.StockHealthRecord, bool, error) {
	return nil, false, nil
}

func (n *noopHealthCache) SetSnapshot(ctx context.Context, records []domain.StockHealthRecord) error {
	return nil
}

func (n *noopHealthCache) InvalidateAll(ctx context.Context) error {
	return nil
}

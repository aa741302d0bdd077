package cache

import (
	"context"
	"encoding/json"
	"time"

	"MCPCatalog/pkg/redis"
)

// PreviewCache 解析预览结果缓存；Redis 不可用时总是未命中
type PreviewCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

type redisPreviewCache struct {
	prefix string
	ttl    time.Duration
}

func NewRedisPreviewCache(prefix string, ttl time.Duration) PreviewCache {
	return &redisPreviewCache{prefix: prefix, ttl: ttl}
}

func (c *redisPreviewCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	if !redis.IsConnected() {
		return false, nil
	}
	raw, err := redis.Get(ctx, c.prefix+key)
	if redis.IsNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisPreviewCache) Set(ctx context.Context, key string, value interface{}) error {
	if !redis.IsConnected() {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return redis.Set(ctx, c.prefix+key, b, c.ttl)
}

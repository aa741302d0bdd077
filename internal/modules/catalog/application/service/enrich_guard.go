package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"MCPCatalog/pkg/redis"
	"MCPCatalog/pkg/zlog"

	"go.uber.org/zap"
)

// ErrEnrichmentRunning 同一时间只允许一个写入任务
var ErrEnrichmentRunning = errors.New("enrichment already running")

const (
	enrichLockKey = "catalog:enrich"
	enrichLockTTL = 2 * time.Hour
)

// writerGuard 进程内互斥；Redis 可用时再加一把跨进程锁
type writerGuard struct {
	mu      sync.Mutex
	running bool
}

var enrichGuard = &writerGuard{}

// IsEnrichmentRunning 定时任务据此跳过本轮
func IsEnrichmentRunning() bool {
	return enrichGuard.isRunning()
}

func (g *writerGuard) isRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

func (g *writerGuard) acquire(ctx context.Context) (func(), error) {
	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return nil, ErrEnrichmentRunning
	}
	g.running = true
	g.mu.Unlock()

	var token string
	if redis.IsConnected() {
		t, ok, err := redis.Lock(ctx, enrichLockKey, enrichLockTTL)
		switch {
		case err != nil:
			zlog.Warn("enrich lock unavailable, fall back to process lock", zap.Error(err))
		case !ok:
			g.release()
			return nil, ErrEnrichmentRunning
		default:
			token = t
		}
	}

	return func() {
		if token != "" {
			released, err := redis.Unlock(context.Background(), enrichLockKey, token)
			switch {
			case err != nil:
				zlog.Warn("enrich unlock failed", zap.Error(err))
			case !released:
				zlog.Warn("enrich lock expired before the run finished", zap.Duration("ttl", enrichLockTTL))
			}
		}
		g.release()
	}, nil
}

func (g *writerGuard) release() {
	g.mu.Lock()
	g.running = false
	g.mu.Unlock()
}

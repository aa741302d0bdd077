package redis

import (
	"context"
	"fmt"
	"time"

	"MCPCatalog/pkg/util"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// SetClient 设置 Redis 客户端（由 internal/initial 调用）
func SetClient(c *redis.Client) {
	client = c
}

// Close 关闭 Redis 连接
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// IsConnected 检查 Redis 是否已连接
func IsConnected() bool {
	return client != nil
}

// GetClient 获取原始 Redis 客户端（高级用法）
func GetClient() *redis.Client {
	return client
}

func checkClient() error {
	if client == nil {
		return fmt.Errorf("redis not connected")
	}
	return nil
}

// IsNil 判断是否为 key 不存在
func IsNil(err error) bool {
	return err == redis.Nil
}

// Get 获取字符串值
func Get(ctx context.Context, key string) (string, error) {
	if err := checkClient(); err != nil {
		return "", err
	}
	return client.Get(ctx, key).Result()
}

// Set 设置字符串值
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := checkClient(); err != nil {
		return err
	}
	return client.Set(ctx, key, value, expiration).Err()
}

// Del 删除 key
func Del(ctx context.Context, keys ...string) (int64, error) {
	if err := checkClient(); err != nil {
		return 0, err
	}
	return client.Del(ctx, keys...).Result()
}

// unlockScript 只删除自己持有的锁，锁过期后被别人拿到时不误删
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock 分布式锁（SET NX + 过期时间），成功时返回持有者 token，释放时需要原样带回
func Lock(ctx context.Context, key string, expiration time.Duration) (string, bool, error) {
	if err := checkClient(); err != nil {
		return "", false, err
	}
	token := util.GenerateShortUUID()
	ok, err := client.SetNX(ctx, "lock:"+key, token, expiration).Result()
	if err != nil || !ok {
		return "", ok, err
	}
	return token, true, nil
}

// Unlock 释放锁；token 不匹配（锁已过期或被他人持有）时返回 false
func Unlock(ctx context.Context, key, token string) (bool, error) {
	if err := checkClient(); err != nil {
		return false, err
	}
	n, err := unlockScript.Run(ctx, client, []string{"lock:" + key}, token).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

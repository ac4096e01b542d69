package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// TokenBlacklist JWT黑名单
// 设计说明：
// 1. JWT是无状态的，服务端无法主动让Token失效
// 2. 登出时把Token放进黑名单，过期时间=Token剩余有效期
// 3. Key设计：blacklist:{token}，过期后自动删除，无需手动清理
type TokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist 创建黑名单
func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

// Add 将Token加入黑名单
// ttl<=0说明Token已经过期,不需要再记录
func (b *TokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	return nil
}

// Contains 检查Token是否在黑名单中
func (b *TokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	exists, err := b.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.ErrRedisError.WithErr(err)
	}
	return exists > 0, nil
}

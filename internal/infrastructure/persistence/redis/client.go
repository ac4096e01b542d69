package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/electromart/internal/infrastructure/config"
)

// defaultPingTimeout 未配置dial_timeout时启动探活的等待上限
const defaultPingTimeout = 3 * time.Second

// NewClient 创建Redis客户端
// Redis只承载商品快照缓存和Token黑名单，启动时不可用直接失败，
// 运行期的缓存故障由调用方降级为直接读库
func NewClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	rc := cfg.Redis
	client := redis.NewClient(&redis.Options{
		Addr:         rc.Addr(),
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	})

	pingTimeout := rc.DialTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接Redis %s (db=%d) 失败: %w", rc.Addr(), rc.DB, err)
	}

	log.Info("Redis就绪",
		zap.String("addr", rc.Addr()),
		zap.Int("db", rc.DB),
		zap.Int("pool_size", rc.PoolSize),
		zap.Duration("product_ttl", cfg.Cache.ProductTTL),
	)
	return client, nil
}

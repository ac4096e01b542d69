package redis

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/internal/infrastructure/config"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestProductCache(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewProductCache(client, time.Minute)
	ctx := context.Background()

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got, "未命中返回nil")

	p := product.NewProduct("TV-55", "55 inch TV", "Acme", 49900, 30000)
	p.ID = 1
	p.StockQuantity = 7
	require.NoError(t, cache.Set(ctx, p))
	assert.True(t, mr.Exists("product:1"))

	got, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "TV-55", got.SKU)
	assert.Equal(t, 7, got.StockQuantity)

	mr.FastForward(2 * time.Minute)
	got, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got, "过期后未命中")

	require.NoError(t, cache.Set(ctx, p))
	require.NoError(t, cache.Delete(ctx, 1, 2))
	assert.False(t, mr.Exists("product:1"))
	require.NoError(t, cache.Delete(ctx))
}

func TestProductCache_BadPayload(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewProductCache(client, time.Minute)

	require.NoError(t, mr.Set("product:3", "not-json"))
	got, err := cache.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductCache_RedisDown(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewProductCache(client, time.Minute)
	mr.Close()

	_, err := cache.Get(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrRedisError)
}

func TestTokenBlacklist(t *testing.T) {
	mr, client := newTestClient(t)
	bl := NewTokenBlacklist(client)
	ctx := context.Background()

	ok, err := bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bl.Add(ctx, "tok", time.Minute))
	ok, err = bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(time.Minute + time.Second)
	ok, err = bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bl.Add(ctx, "expired", 0))
	assert.False(t, mr.Exists("blacklist:expired"))
}

func redisConfig(t *testing.T, addr string) *config.Config {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return &config.Config{
		Redis: config.RedisConfig{Host: host, Port: port, DB: 2, PoolSize: 4, DialTimeout: time.Second},
		Cache: config.CacheConfig{ProductTTL: time.Minute},
	}
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr.Addr())

	client, err := NewClient(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	mr.Select(2)
	assert.True(t, mr.Exists("k"), "使用配置的db")
}

func TestNewClient_Unavailable(t *testing.T) {
	// 取一个空闲端口后立即关闭,保证没有服务监听
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg := redisConfig(t, ln.Addr().String())
	require.NoError(t, ln.Close())

	client, err := NewClient(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "db=2")
}

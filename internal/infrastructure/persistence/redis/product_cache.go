package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/electromart/internal/domain/product"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// ProductCache 商品快照缓存
// 设计说明:
// 1. Key设计: product:{id},值为JSON
// 2. 只缓存展示用的快照,下单时一律读数据库
// 3. 库存/价格变更的事务提交后删除对应Key
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache 创建商品缓存
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

// Get 读取缓存,未命中返回(nil, nil)
func (c *ProductCache) Get(ctx context.Context, id uint) (*product.Product, error) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.ErrRedisError.WithErr(err)
	}

	var p product.Product
	if err := json.Unmarshal(data, &p); err != nil {
		// 脏数据直接当作未命中,下次回填覆盖
		return nil, nil
	}
	return &p, nil
}

// Set 写入缓存
func (c *ProductCache) Set(ctx context.Context, p *product.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return apperrors.Wrap(err, "序列化商品失败")
	}
	if err := c.client.Set(ctx, productKey(p.ID), data, c.ttl).Err(); err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	return nil
}

// Delete 批量删除
func (c *ProductCache) Delete(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	return nil
}

var _ product.Cache = (*ProductCache)(nil)

package product

import (
	"context"

	"go.uber.org/zap"
)

// CachedReader 带缓存的商品读取(Cache-Aside)
// 只用于购物车的提示性库存检查;下单时必须直接读数据库
type CachedReader struct {
	repo   Repository
	cache  Cache
	logger *zap.Logger
}

// NewCachedReader 创建读取器,cache为nil时直接读库
func NewCachedReader(repo Repository, cache Cache, logger *zap.Logger) *CachedReader {
	return &CachedReader{repo: repo, cache: cache, logger: logger}
}

// FindByID 先查缓存,未命中再查库并回填
// 缓存故障只记日志,降级为读库
func (r *CachedReader) FindByID(ctx context.Context, id uint) (*Product, error) {
	if r.cache != nil {
		p, err := r.cache.Get(ctx, id)
		if err != nil {
			r.logger.Warn("读取商品缓存失败", zap.Uint("product_id", id), zap.Error(err))
		} else if p != nil {
			return p, nil
		}
	}

	p, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, p); err != nil {
			r.logger.Warn("写入商品缓存失败", zap.Uint("product_id", id), zap.Error(err))
		}
	}
	return p, nil
}

// Invalidate 删除缓存(在事务提交后调用)
func (r *CachedReader) Invalidate(ctx context.Context, ids ...uint) {
	if r.cache == nil || len(ids) == 0 {
		return
	}
	if err := r.cache.Delete(ctx, ids...); err != nil {
		r.logger.Warn("删除商品缓存失败", zap.Uints("product_ids", ids), zap.Error(err))
	}
}

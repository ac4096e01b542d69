package product

import (
	"context"
)

// Repository 商品仓储接口
// 注意:没有修改库存的方法,库存写入只在inventory.Repository中
type Repository interface {
	// Create 创建商品
	Create(ctx context.Context, p *Product) error

	// FindByID 根据ID查找商品(包括已下架商品)
	FindByID(ctx context.Context, id uint) (*Product, error)

	// FindByIDs 批量查询,返回ID→商品
	FindByIDs(ctx context.Context, ids []uint) (map[uint]*Product, error)

	// Update 按白名单字段更新
	Update(ctx context.Context, id uint, changes map[string]interface{}) error

	// ListLowStock 查询低库存的在售商品,按缺口从大到小排序
	ListLowStock(ctx context.Context) ([]*Product, error)
}

// Cache 商品快照缓存
// Get未命中时返回(nil, nil)
type Cache interface {
	Get(ctx context.Context, id uint) (*Product, error)
	Set(ctx context.Context, p *Product) error
	Delete(ctx context.Context, ids ...uint) error
}

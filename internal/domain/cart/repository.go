package cart

import (
	"context"
)

// Repository 购物车仓储接口
type Repository interface {
	// FindByID 根据ID查找条目
	FindByID(ctx context.Context, id uint) (*Line, error)

	// FindByCustomerAndProduct 查找客户某商品的条目,不存在返回ErrLineNotFound
	FindByCustomerAndProduct(ctx context.Context, customerID, productID uint) (*Line, error)

	// AddQuantity 插入条目,已存在则数量累加(原子upsert),返回合并后的条目
	AddQuantity(ctx context.Context, customerID, productID uint, quantity int) (*Line, error)

	// UpdateQuantity 修改数量
	UpdateQuantity(ctx context.Context, id uint, quantity int) error

	// Delete 删除条目
	Delete(ctx context.Context, id uint) error

	// ListByCustomer 客户的购物车(按加入顺序)
	ListByCustomer(ctx context.Context, customerID uint) ([]*Line, error)

	// ClearByCustomer 清空购物车,返回删除条数
	ClearByCustomer(ctx context.Context, customerID uint) (int64, error)
}

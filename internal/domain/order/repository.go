package order

import (
	"context"
)

// ListParams 订单查询参数
type ListParams struct {
	CustomerID *uint
	Status     *Status
	Page       int
	PageSize   int
}

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建订单(包含订单明细),订单和明细在同一事务中写入
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含订单明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNumber 根据订单号查找订单
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// CompareAndSetStatus 条件更新状态
	//   UPDATE orders SET status = to WHERE id = ? AND status = from
	// 返回false表示状态已被并发修改
	CompareAndSetStatus(ctx context.Context, id uint, from, to Status) (bool, error)

	// List 分页查询订单(新的在前)
	List(ctx context.Context, params ListParams) ([]*Order, int64, error)
}

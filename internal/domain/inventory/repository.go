package inventory

import (
	"context"
)

// Repository 库存仓储接口
// 整个系统中只有这里写products.stock_quantity
type Repository interface {
	// ApplyDelta 条件更新库存
	//   UPDATE products SET stock_quantity = stock_quantity + ?
	//   WHERE id = ? AND stock_quantity + ? >= 0 [AND 不超过上限]
	// 影响0行时重新查询区分:商品不存在 / 库存不足 / 超过上限
	ApplyDelta(ctx context.Context, productID uint, delta int, enforceMax bool) (*StockLevel, error)

	// AppendLog 追加台账
	AppendLog(ctx context.Context, entry *LogEntry) error

	// ListLogs 按商品分页查询台账(新的在前)
	ListLogs(ctx context.Context, productID uint, page, pageSize int) ([]*LogEntry, int64, error)

	// ListLogsByReference 查询某个订单产生的台账
	ListLogsByReference(ctx context.Context, referenceID uint) ([]*LogEntry, error)
}

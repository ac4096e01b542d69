package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/electromart/internal/domain/inventory"
	"github.com/xiebiao/electromart/internal/domain/product"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// inventoryRepository 库存仓储实现
// 教学要点:
// 1. 系统中唯一写products.stock_quantity的地方
// 2. 条件UPDATE是并发安全的关键:判断和扣减在同一条SQL里完成,不会超卖
// 3. 必须使用getDB(ctx)参与调用方的事务
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &inventoryRepository{db: db}
}

// ApplyDelta 条件更新库存
//
//	UPDATE products SET stock_quantity = stock_quantity + ?
//	WHERE id = ? AND stock_quantity + ? >= 0
//	  [AND (max_stock_level <= 0 OR stock_quantity + ? <= max_stock_level)]
//
// 更新成功后行锁一直持有到事务结束,再读一次得到的就是本事务写入的值,
// previous = new - delta
func (r *inventoryRepository) ApplyDelta(ctx context.Context, productID uint, delta int, enforceMax bool) (*inventory.StockLevel, error) {
	db := r.getDB(ctx)

	query := db.Model(&ProductModel{}).
		Where("id = ?", productID).
		Where("stock_quantity + ? >= 0", delta) // 防止库存为负
	if enforceMax && delta > 0 {
		query = query.Where("(max_stock_level <= 0 OR stock_quantity + ? <= max_stock_level)", delta)
	}
	result := query.Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if result.Error != nil {
		return nil, apperrors.Persistence(result.Error, "更新库存失败")
	}

	var model ProductModel
	if err := db.Select("id", "stock_quantity", "min_stock_level", "max_stock_level").First(&model, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound.WithField("product_id", productID)
		}
		return nil, apperrors.Persistence(err, "查询库存失败")
	}

	if result.RowsAffected == 0 {
		// 商品存在但条件不满足,由delta的方向判定原因
		// 这里的普通SELECT在可重复读下读到的是事务快照,库存值可能已过期,不能用来判断
		if delta < 0 {
			return nil, inventory.InsufficientStock(productID)
		}
		return nil, inventory.ErrExceedsMaxStock.
			WithField("product_id", productID).
			WithField("max_stock_level", model.MaxStockLevel)
	}

	return &inventory.StockLevel{
		ProductID:     productID,
		Previous:      model.StockQuantity - delta,
		New:           model.StockQuantity,
		MinStockLevel: model.MinStockLevel,
	}, nil
}

// AppendLog 追加台账
func (r *inventoryRepository) AppendLog(ctx context.Context, e *inventory.LogEntry) error {
	model := &InventoryLogModel{
		ProductID:        e.ProductID,
		TransactionType:  string(e.Type),
		QuantityChange:   e.QuantityChange,
		PreviousQuantity: e.PreviousQuantity,
		NewQuantity:      e.NewQuantity,
		Reason:           e.Reason,
		ReferenceID:      e.ReferenceID,
		ActorID:          e.ActorID,
		ActorRole:        e.ActorRole,
	}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Persistence(err, "写入库存台账失败")
	}
	e.ID = model.ID
	e.CreatedAt = model.CreatedAt
	return nil
}

// ListLogs 按商品分页查询台账
func (r *inventoryRepository) ListLogs(ctx context.Context, productID uint, page, pageSize int) ([]*inventory.LogEntry, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	var total int64
	query := r.getDB(ctx).Model(&InventoryLogModel{}).Where("product_id = ?", productID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Persistence(err, "查询库存台账总数失败")
	}

	var models []InventoryLogModel
	err := query.Order("id DESC").Limit(pageSize).Offset((page - 1) * pageSize).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Persistence(err, "查询库存台账失败")
	}
	return toLogEntries(models), total, nil
}

// ListLogsByReference 查询某个订单产生的台账
func (r *inventoryRepository) ListLogsByReference(ctx context.Context, referenceID uint) ([]*inventory.LogEntry, error) {
	var models []InventoryLogModel
	err := r.getDB(ctx).Where("reference_id = ?", referenceID).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Persistence(err, "查询库存台账失败")
	}
	return toLogEntries(models), nil
}

func toLogEntries(models []InventoryLogModel) []*inventory.LogEntry {
	entries := make([]*inventory.LogEntry, len(models))
	for i, m := range models {
		entries[i] = &inventory.LogEntry{
			ID:               m.ID,
			ProductID:        m.ProductID,
			Type:             inventory.TransactionType(m.TransactionType),
			QuantityChange:   m.QuantityChange,
			PreviousQuantity: m.PreviousQuantity,
			NewQuantity:      m.NewQuantity,
			Reason:           m.Reason,
			ReferenceID:      m.ReferenceID,
			ActorID:          m.ActorID,
			ActorRole:        m.ActorRole,
			CreatedAt:        m.CreatedAt,
		}
	}
	return entries
}

func (r *inventoryRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

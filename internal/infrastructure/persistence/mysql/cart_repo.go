package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/electromart/internal/domain/cart"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// cartRepository 购物车仓储实现
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// FindByID 根据ID查找条目
func (r *cartRepository) FindByID(ctx context.Context, id uint) (*cart.Line, error) {
	var model CartLineModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrLineNotFound.WithField("cart_line_id", id)
		}
		return nil, apperrors.Persistence(err, "查询购物车失败")
	}
	return toCartLine(&model), nil
}

// FindByCustomerAndProduct 查找客户某商品的条目
func (r *cartRepository) FindByCustomerAndProduct(ctx context.Context, customerID, productID uint) (*cart.Line, error) {
	var model CartLineModel
	err := r.getDB(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrLineNotFound.WithField("product_id", productID)
		}
		return nil, apperrors.Persistence(err, "查询购物车失败")
	}
	return toCartLine(&model), nil
}

// AddQuantity 原子upsert
// 教学要点:
// 1. MySQL: INSERT ... ON DUPLICATE KEY UPDATE quantity = quantity + ?
// 2. SQLite: INSERT ... ON CONFLICT(customer_id, product_id) DO UPDATE SET ...
// 3. 先查后插在并发加购时会撞唯一索引,upsert一条语句完成合并
func (r *cartRepository) AddQuantity(ctx context.Context, customerID, productID uint, quantity int) (*cart.Line, error) {
	now := time.Now()
	model := &CartLineModel{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := r.getDB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": now,
		}),
	}).Create(model).Error
	if err != nil {
		return nil, apperrors.Persistence(err, "加入购物车失败")
	}

	// upsert走更新分支时回填的ID不可靠,重新查询一次
	return r.FindByCustomerAndProduct(ctx, customerID, productID)
}

// UpdateQuantity 修改数量
func (r *cartRepository) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	result := r.getDB(ctx).Model(&CartLineModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return apperrors.Persistence(result.Error, "更新购物车失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrLineNotFound.WithField("cart_line_id", id)
	}
	return nil
}

// Delete 删除条目
func (r *cartRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&CartLineModel{}, id)
	if result.Error != nil {
		return apperrors.Persistence(result.Error, "删除购物车条目失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrLineNotFound.WithField("cart_line_id", id)
	}
	return nil
}

// ListByCustomer 客户的购物车(按加入顺序)
func (r *cartRepository) ListByCustomer(ctx context.Context, customerID uint) ([]*cart.Line, error) {
	var models []CartLineModel
	if err := r.getDB(ctx).Where("customer_id = ?", customerID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Persistence(err, "查询购物车失败")
	}

	lines := make([]*cart.Line, len(models))
	for i := range models {
		lines[i] = toCartLine(&models[i])
	}
	return lines, nil
}

// ClearByCustomer 清空购物车
func (r *cartRepository) ClearByCustomer(ctx context.Context, customerID uint) (int64, error) {
	result := r.getDB(ctx).Where("customer_id = ?", customerID).Delete(&CartLineModel{})
	if result.Error != nil {
		return 0, apperrors.Persistence(result.Error, "清空购物车失败")
	}
	return result.RowsAffected, nil
}

func toCartLine(model *CartLineModel) *cart.Line {
	return &cart.Line{
		ID:         model.ID,
		CustomerID: model.CustomerID,
		ProductID:  model.ProductID,
		Quantity:   model.Quantity,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func (r *cartRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/electromart/internal/domain/product"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// productRepository 商品仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/product/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 不提供库存写入,库存由inventoryRepository负责
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Create 创建商品
func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return product.ErrSKUDuplicate
		}
		return apperrors.Persistence(err, "创建商品失败")
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找商品
func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	err := r.getDB(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound.WithField("product_id", id)
		}
		return nil, apperrors.Persistence(err, "查询商品失败")
	}
	return toProductEntity(&model), nil
}

// FindByIDs 批量查询(一次IN查询,避免N+1)
func (r *productRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*product.Product, error) {
	result := make(map[uint]*product.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var models []ProductModel
	if err := r.getDB(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Persistence(err, "查询商品失败")
	}
	for i := range models {
		result[models[i].ID] = toProductEntity(&models[i])
	}
	return result, nil
}

// Update 按白名单字段更新
// changes的键已经在领域层按白名单校验过
func (r *productRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) error {
	updates := make(map[string]interface{}, len(changes)+1)
	for k, v := range changes {
		updates[k] = v
	}
	updates["updated_at"] = time.Now()

	result := r.getDB(ctx).Model(&ProductModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return apperrors.Persistence(result.Error, "更新商品失败")
	}
	if result.RowsAffected == 0 {
		return product.ErrProductNotFound.WithField("product_id", id)
	}
	return nil
}

// ListLowStock 低库存商品
// SELECT * FROM products WHERE is_active AND stock_quantity <= min_stock_level
// ORDER BY (min_stock_level - stock_quantity) DESC
func (r *productRepository) ListLowStock(ctx context.Context) ([]*product.Product, error) {
	var models []ProductModel
	err := r.getDB(ctx).
		Where("is_active = ?", true).
		Where("stock_quantity <= min_stock_level").
		Order("(min_stock_level - stock_quantity) DESC").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Persistence(err, "查询低库存商品失败")
	}

	products := make([]*product.Product, len(models))
	for i := range models {
		products[i] = toProductEntity(&models[i])
	}
	return products, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toProductModel(p *product.Product) *ProductModel {
	return &ProductModel{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Brand:         p.Brand,
		Price:         p.Price,
		CostPrice:     p.CostPrice,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		MaxStockLevel: p.MaxStockLevel,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProductEntity(model *ProductModel) *product.Product {
	return &product.Product{
		ID:            model.ID,
		SKU:           model.SKU,
		Name:          model.Name,
		Brand:         model.Brand,
		Price:         model.Price,
		CostPrice:     model.CostPrice,
		StockQuantity: model.StockQuantity,
		MinStockLevel: model.MinStockLevel,
		MaxStockLevel: model.MaxStockLevel,
		IsActive:      model.IsActive,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func (r *productRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

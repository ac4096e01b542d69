// Package product 商品维护用例
package product

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/pkg/authz"
	"github.com/xiebiao/electromart/pkg/logger"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// UpdateRoles 修改商品需要的角色
var UpdateRoles = authz.Management

// UpdateUseCase 修改商品信息
// 设计说明:
// 1. 只能修改白名单字段,库存数量不在白名单里,必须走库存调整
// 2. 请求中未提供的字段保持不变(指针为nil)
// 3. 更新成功后删除缓存
type UpdateUseCase struct {
	repo     product.Repository
	products *product.CachedReader
	logger   *zap.Logger
}

// NewUpdateUseCase 创建商品修改用例
func NewUpdateUseCase(repo product.Repository, products *product.CachedReader, logger *zap.Logger) *UpdateUseCase {
	return &UpdateUseCase{repo: repo, products: products, logger: logger}
}

// UpdateRequest 修改请求
type UpdateRequest struct {
	Actor     authz.Actor
	ProductID uint
	Changes   product.UpdateRequest
}

// ProductDTO 商品信息
type ProductDTO struct {
	ID            uint   `json:"id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	Price         int64  `json:"price"`
	CostPrice     int64  `json:"cost_price"`
	StockQuantity int    `json:"stock_quantity"`
	MinStockLevel int    `json:"min_stock_level"`
	MaxStockLevel int    `json:"max_stock_level"`
	IsActive      bool   `json:"is_active"`
	UpdatedAt     string `json:"updated_at"`
}

// Execute 执行修改
func (uc *UpdateUseCase) Execute(ctx context.Context, req UpdateRequest) (_ *ProductDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "product.Update")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authz.Require(req.Actor.Role, UpdateRoles); err != nil {
		return nil, err
	}

	current, err := uc.repo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	changes, err := req.Changes.Changes(current)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, req.ProductID, changes); err != nil {
		return nil, err
	}
	if uc.products != nil {
		uc.products.Invalidate(ctx, req.ProductID)
	}

	updated, err := uc.repo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(changes))
	for k := range changes {
		fields = append(fields, k)
	}
	logger.WithContext(ctx, uc.logger).Info("商品信息已更新",
		zap.Uint("product_id", req.ProductID),
		zap.Strings("fields", fields),
		zap.Uint("actor_id", req.Actor.ID),
	)

	return &ProductDTO{
		ID:            updated.ID,
		SKU:           updated.SKU,
		Name:          updated.Name,
		Brand:         updated.Brand,
		Price:         updated.Price,
		CostPrice:     updated.CostPrice,
		StockQuantity: updated.StockQuantity,
		MinStockLevel: updated.MinStockLevel,
		MaxStockLevel: updated.MaxStockLevel,
		IsActive:      updated.IsActive,
		UpdatedAt:     updated.UpdatedAt.Format(time.DateTime),
	}, nil
}

package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/electromart/internal/domain/cart"
	"github.com/xiebiao/electromart/internal/domain/inventory"
	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/pkg/authz"
	"github.com/xiebiao/electromart/pkg/logger"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// AddLineUseCase 加入购物车
// 设计说明:
// 1. 同一商品重复加购时合并数量(仓储层原子upsert)
// 2. 库存检查读缓存快照,只是提示;真正的库存校验在下单时的条件更新
type AddLineUseCase struct {
	cartRepo cart.Repository
	products *product.CachedReader
	logger   *zap.Logger
}

// NewAddLineUseCase 创建加购用例
func NewAddLineUseCase(cartRepo cart.Repository, products *product.CachedReader, logger *zap.Logger) *AddLineUseCase {
	return &AddLineUseCase{cartRepo: cartRepo, products: products, logger: logger}
}

// AddLineRequest 加购请求
type AddLineRequest struct {
	Actor      authz.Actor
	CustomerID uint
	ProductID  uint
	Quantity   int
}

// Execute 执行加购
func (uc *AddLineUseCase) Execute(ctx context.Context, req AddLineRequest) (_ *LineDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "cart.AddLine")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authorize(req.Actor, req.CustomerID); err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, cart.ErrInvalidQuantity
	}

	p, err := activeProduct(ctx, uc.products, req.ProductID)
	if err != nil {
		return nil, err
	}

	// 合并后的数量参与提示性检查
	merged := req.Quantity
	existing, err := uc.cartRepo.FindByCustomerAndProduct(ctx, req.CustomerID, req.ProductID)
	switch {
	case err == nil:
		merged += existing.Quantity
	case !errors.Is(err, cart.ErrLineNotFound):
		return nil, err
	}
	if !p.HasStock(merged) {
		return nil, inventory.InsufficientStock(p.ID).
			WithField("requested", merged).
			WithField("available", p.StockQuantity)
	}

	line, err := uc.cartRepo.AddQuantity(ctx, req.CustomerID, req.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx, uc.logger).Debug("加入购物车",
		zap.Uint("customer_id", req.CustomerID),
		zap.Uint("product_id", req.ProductID),
		zap.Int("quantity", line.Quantity),
	)
	return toLineDTO(line), nil
}

// activeProduct 读取在售商品,已下架视为不存在
func activeProduct(ctx context.Context, products *product.CachedReader, id uint) (*product.Product, error) {
	p, err := products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, product.ErrProductNotFound.WithField("product_id", id)
	}
	return p, nil
}

// authorize 角色校验 + 只能操作自己的购物车
func authorize(actor authz.Actor, customerID uint) error {
	if err := authz.Require(actor.Role, RequiredRoles); err != nil {
		return err
	}
	return authz.RequireSelfOrStaff(actor, customerID)
}

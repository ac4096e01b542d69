package cart

import (
	"context"

	"github.com/xiebiao/electromart/internal/domain/cart"
	"github.com/xiebiao/electromart/internal/domain/inventory"
	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/pkg/authz"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// UpdateLineUseCase 修改购物车数量
type UpdateLineUseCase struct {
	cartRepo cart.Repository
	products *product.CachedReader
}

// NewUpdateLineUseCase 创建修改数量用例
func NewUpdateLineUseCase(cartRepo cart.Repository, products *product.CachedReader) *UpdateLineUseCase {
	return &UpdateLineUseCase{cartRepo: cartRepo, products: products}
}

// UpdateLineRequest 修改数量请求
type UpdateLineRequest struct {
	Actor    authz.Actor
	LineID   uint
	Quantity int
}

// Execute 修改数量(设置为新值,不是累加)
func (uc *UpdateLineUseCase) Execute(ctx context.Context, req UpdateLineRequest) (_ *LineDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "cart.UpdateLine")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authz.Require(req.Actor.Role, RequiredRoles); err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, cart.ErrInvalidQuantity
	}

	line, err := uc.cartRepo.FindByID(ctx, req.LineID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireSelfOrStaff(req.Actor, line.CustomerID); err != nil {
		return nil, err
	}

	p, err := activeProduct(ctx, uc.products, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.HasStock(req.Quantity) {
		return nil, inventory.InsufficientStock(p.ID).
			WithField("requested", req.Quantity).
			WithField("available", p.StockQuantity)
	}

	if err := uc.cartRepo.UpdateQuantity(ctx, line.ID, req.Quantity); err != nil {
		return nil, err
	}
	line.Quantity = req.Quantity
	return toLineDTO(line), nil
}

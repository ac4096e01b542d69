package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/electromart/internal/domain/cart"
	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/pkg/authz"
	"github.com/xiebiao/electromart/pkg/logger"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// GetCartUseCase 查看购物车
// 设计说明:
// 1. 价格取商品当前价(一次IN查询),下单时还会重新读取
// 2. 税额在小计上一次性计算并四舍五入,不逐行取整
type GetCartUseCase struct {
	cartRepo    cart.Repository
	productRepo product.Repository
	taxRate     decimal.Decimal
	logger      *zap.Logger
}

// NewGetCartUseCase 创建查看购物车用例
func NewGetCartUseCase(cartRepo cart.Repository, productRepo product.Repository, taxRate decimal.Decimal, logger *zap.Logger) *GetCartUseCase {
	return &GetCartUseCase{cartRepo: cartRepo, productRepo: productRepo, taxRate: taxRate, logger: logger}
}

// GetCartRequest 查看请求
type GetCartRequest struct {
	Actor      authz.Actor
	CustomerID uint
}

// Execute 查看购物车
func (uc *GetCartUseCase) Execute(ctx context.Context, req GetCartRequest) (_ *CartDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "cart.GetCart")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authorize(req.Actor, req.CustomerID); err != nil {
		return nil, err
	}

	lines, err := uc.cartRepo.ListByCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	products, err := uc.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	priced := make([]cart.PricedLine, 0, len(lines))
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			logger.WithContext(ctx, uc.logger).Warn("购物车商品不存在", zap.Uint("product_id", l.ProductID))
			continue
		}
		priced = append(priced, cart.PricedLine{
			Line:      *l,
			SKU:       p.SKU,
			Name:      p.Name,
			UnitPrice: p.Price,
			InStock:   p.IsActive && p.HasStock(l.Quantity),
		})
	}

	return toCartDTO(req.CustomerID, cart.Summarize(priced, uc.taxRate)), nil
}

package order

import (
	"context"

	"github.com/xiebiao/electromart/internal/domain/banking"
	"github.com/xiebiao/electromart/internal/domain/order"
	"github.com/xiebiao/electromart/pkg/authz"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// ReadRoles 查询订单需要的角色
var ReadRoles = authz.Everyone

// GetOrderUseCase 订单详情
type GetOrderUseCase struct {
	orderRepo   order.Repository
	bankingRepo banking.Repository
}

// NewGetOrderUseCase 创建订单详情用例
func NewGetOrderUseCase(orderRepo order.Repository, bankingRepo banking.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo, bankingRepo: bankingRepo}
}

// GetOrderRequest 订单详情请求
type GetOrderRequest struct {
	Actor   authz.Actor
	OrderID uint
}

// Execute 查询订单(含明细和扣款流水),客户只能看自己的订单
func (uc *GetOrderUseCase) Execute(ctx context.Context, req GetOrderRequest) (_ *OrderDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "order.Get")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authz.Require(req.Actor.Role, ReadRoles); err != nil {
		return nil, err
	}

	o, err := uc.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireSelfOrStaff(req.Actor, o.CustomerID); err != nil {
		return nil, err
	}

	dto := toOrderDTO(o)
	if uc.bankingRepo != nil {
		txs, err := uc.bankingRepo.FindByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		dto.Transactions = toTransactionDTOs(txs)
	}
	return dto, nil
}

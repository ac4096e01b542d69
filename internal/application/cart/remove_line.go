package cart

import (
	"context"

	"github.com/xiebiao/electromart/internal/domain/cart"
	"github.com/xiebiao/electromart/pkg/authz"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// RemoveLineUseCase 删除购物车条目
type RemoveLineUseCase struct {
	cartRepo cart.Repository
}

// NewRemoveLineUseCase 创建删除用例
func NewRemoveLineUseCase(cartRepo cart.Repository) *RemoveLineUseCase {
	return &RemoveLineUseCase{cartRepo: cartRepo}
}

// RemoveLineRequest 删除请求
type RemoveLineRequest struct {
	Actor  authz.Actor
	LineID uint
}

// Execute 删除条目,不存在返回ErrLineNotFound
func (uc *RemoveLineUseCase) Execute(ctx context.Context, req RemoveLineRequest) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "cart.RemoveLine")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authz.Require(req.Actor.Role, RequiredRoles); err != nil {
		return err
	}

	line, err := uc.cartRepo.FindByID(ctx, req.LineID)
	if err != nil {
		return err
	}
	if err := authz.RequireSelfOrStaff(req.Actor, line.CustomerID); err != nil {
		return err
	}
	return uc.cartRepo.Delete(ctx, line.ID)
}

// ClearCartUseCase 清空购物车
type ClearCartUseCase struct {
	cartRepo cart.Repository
}

// NewClearCartUseCase 创建清空用例
func NewClearCartUseCase(cartRepo cart.Repository) *ClearCartUseCase {
	return &ClearCartUseCase{cartRepo: cartRepo}
}

// ClearCartRequest 清空请求
type ClearCartRequest struct {
	Actor      authz.Actor
	CustomerID uint
}

// Execute 清空购物车,返回删除条数
func (uc *ClearCartUseCase) Execute(ctx context.Context, req ClearCartRequest) (_ int64, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "cart.ClearCart")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authorize(req.Actor, req.CustomerID); err != nil {
		return 0, err
	}
	return uc.cartRepo.ClearByCustomer(ctx, req.CustomerID)
}

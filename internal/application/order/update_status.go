package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/electromart/internal/domain/event"
	"github.com/xiebiao/electromart/internal/domain/inventory"
	"github.com/xiebiao/electromart/internal/domain/order"
	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/electromart/pkg/authz"
	"github.com/xiebiao/electromart/pkg/logger"
	"github.com/xiebiao/electromart/pkg/metrics"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// UpdateStatusRoles 修改订单状态需要的角色
var UpdateStatusRoles = authz.Management

// UpdateStatusUseCase 订单状态流转
// 教学要点:
// 1. 状态图在domain层,这里只负责事务编排
// 2. UPDATE ... WHERE status = 旧状态 防止并发流转(两个人同时取消同一订单)
// 3. 进入CANCELLED时在同一事务里回补库存,每个明细写一条IN台账
// 4. RETURNED不回补库存(退货入库走人工盘点)
type UpdateStatusUseCase struct {
	txManager *mysql.TxManager
	orderRepo order.Repository
	ledger    *inventory.Ledger
	products  *product.CachedReader
	publisher event.Publisher
	logger    *zap.Logger
}

// NewUpdateStatusUseCase 创建状态流转用例
func NewUpdateStatusUseCase(
	txManager *mysql.TxManager,
	orderRepo order.Repository,
	ledger *inventory.Ledger,
	products *product.CachedReader,
	publisher event.Publisher,
	logger *zap.Logger,
) *UpdateStatusUseCase {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &UpdateStatusUseCase{
		txManager: txManager,
		orderRepo: orderRepo,
		ledger:    ledger,
		products:  products,
		publisher: publisher,
		logger:    logger,
	}
}

// UpdateStatusRequest 状态流转请求
type UpdateStatusRequest struct {
	Actor   authz.Actor
	OrderID uint
	Status  string // 目标状态名,如"CANCELLED"
}

// Execute 执行状态流转
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, req UpdateStatusRequest) (_ *OrderDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "order.UpdateStatus")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authz.Require(req.Actor.Role, UpdateStatusRoles); err != nil {
		return nil, err
	}
	target, ok := order.ParseStatus(req.Status)
	if !ok {
		return nil, order.ErrInvalidStatus.WithField("status", req.Status)
	}

	var (
		updated *order.Order
		from    order.Status
		changes []*inventory.StockChange
	)
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		changes = nil

		// 1. 读取订单
		o, err := uc.orderRepo.FindByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}
		from = o.Status

		// 2. 状态图校验
		if err := o.TransitionTo(target); err != nil {
			return err
		}

		// 3. 条件更新,失败说明状态已被并发修改
		ok, err := uc.orderRepo.CompareAndSetStatus(txCtx, o.ID, from, target)
		if err != nil {
			return err
		}
		if !ok {
			// 可重复读下再次读取只会拿到快照里的旧状态,这里只报告目标状态
			return order.ErrInvalidStatusTransition.
				WithField("order_id", o.ID).
				WithField("to", target.String())
		}

		// 4. 取消时回补库存
		if target.RestoresStock() {
			orderID := o.ID
			for _, item := range o.Items {
				change, err := uc.ledger.AdjustStock(txCtx, inventory.AdjustCommand{
					ProductID:   item.ProductID,
					Delta:       item.Quantity,
					Type:        inventory.TypeIn,
					Reason:      inventory.ReasonOrderCancelled,
					Actor:       req.Actor,
					ReferenceID: &orderID,
				})
				if err != nil {
					return err
				}
				changes = append(changes, change)
			}
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 提交后:缓存、事件、指标
	log := logger.WithContext(ctx, uc.logger)
	if len(changes) > 0 && uc.products != nil {
		uc.products.Invalidate(ctx, updated.ProductIDs()...)
	}
	for range changes {
		metrics.RecordStockAdjustment(string(inventory.TypeIn), false)
	}
	metrics.RecordTransition(from.String(), target.String())

	e := event.New(event.TypeOrderStatusChanged, event.OrderStatusChanged{
		OrderID:     updated.ID,
		OrderNumber: updated.OrderNumber,
		From:        from.String(),
		To:          target.String(),
		ActorID:     req.Actor.ID,
	})
	if err := uc.publisher.Publish(ctx, e); err != nil {
		log.Warn("事件发布失败", zap.String("type", e.Type), zap.Error(err))
	}

	log.Info("订单状态变更",
		zap.Uint("order_id", updated.ID),
		zap.String("from", from.String()),
		zap.String("to", target.String()),
		zap.Int("restored_items", len(changes)),
	)

	updated.UpdatedAt = time.Now()
	return toOrderDTO(updated), nil
}

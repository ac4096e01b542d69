// Package inventory 库存相关用例:人工调整、台账查询、低库存预警
package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/electromart/internal/domain/event"
	"github.com/xiebiao/electromart/internal/domain/inventory"
	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/electromart/pkg/authz"
	"github.com/xiebiao/electromart/pkg/logger"
	"github.com/xiebiao/electromart/pkg/metrics"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// AdjustRoles 人工调整库存需要的角色
var AdjustRoles = authz.Management

// AdjustUseCase 人工调整库存(采购入库、盘点)
type AdjustUseCase struct {
	txManager *mysql.TxManager
	ledger    *inventory.Ledger
	products  *product.CachedReader
	publisher event.Publisher
	logger    *zap.Logger
}

// NewAdjustUseCase 创建库存调整用例
func NewAdjustUseCase(
	txManager *mysql.TxManager,
	ledger *inventory.Ledger,
	products *product.CachedReader,
	publisher event.Publisher,
	logger *zap.Logger,
) *AdjustUseCase {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &AdjustUseCase{
		txManager: txManager,
		ledger:    ledger,
		products:  products,
		publisher: publisher,
		logger:    logger,
	}
}

// AdjustRequest 调整请求
type AdjustRequest struct {
	Actor     authz.Actor
	ProductID uint
	Delta     int
	Reason    string
	Type      string // IN/OUT/ADJUSTMENT,默认ADJUSTMENT
}

// Execute 执行调整
func (uc *AdjustUseCase) Execute(ctx context.Context, req AdjustRequest) (_ *inventory.StockChange, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "inventory.Adjust")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authz.Require(req.Actor.Role, AdjustRoles); err != nil {
		return nil, err
	}

	txType := inventory.TypeAdjustment
	if req.Type != "" {
		t, ok := inventory.ParseTransactionType(req.Type)
		if !ok {
			return nil, inventory.ErrInvalidType.WithField("type", req.Type)
		}
		txType = t
	}

	var change *inventory.StockChange
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		change, err = uc.ledger.AdjustStock(txCtx, inventory.AdjustCommand{
			ProductID:  req.ProductID,
			Delta:      req.Delta,
			Type:       txType,
			Reason:     req.Reason,
			Actor:      req.Actor,
			EnforceMax: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx, uc.logger)
	if uc.products != nil {
		uc.products.Invalidate(ctx, req.ProductID)
	}
	metrics.RecordStockAdjustment(string(txType), change.LowStock)

	log.Info("库存调整",
		zap.Uint("product_id", req.ProductID),
		zap.String("type", string(txType)),
		zap.Int("delta", req.Delta),
		zap.Int("previous", change.Previous),
		zap.Int("new", change.New),
		zap.Uint("actor_id", req.Actor.ID),
	)

	uc.publish(ctx, log, event.New(event.TypeInventoryAdjusted, event.InventoryAdjusted{
		ProductID: req.ProductID,
		Type:      string(txType),
		Delta:     req.Delta,
		Previous:  change.Previous,
		New:       change.New,
		Reason:    req.Reason,
		ActorID:   req.Actor.ID,
	}))
	if change.LowStock {
		log.Warn("商品库存偏低", zap.Uint("product_id", req.ProductID), zap.Int("stock_quantity", change.New))
		uc.publish(ctx, log, event.New(event.TypeInventoryLowStock, event.LowStock{
			ProductID:     req.ProductID,
			StockQuantity: change.New,
		}))
	}
	return change, nil
}

func (uc *AdjustUseCase) publish(ctx context.Context, log *zap.Logger, e event.Event) {
	if err := uc.publisher.Publish(ctx, e); err != nil {
		log.Warn("事件发布失败", zap.String("type", e.Type), zap.Error(err))
	}
}

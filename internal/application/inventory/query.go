package inventory

import (
	"context"
	"time"

	"github.com/xiebiao/electromart/internal/domain/inventory"
	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/pkg/authz"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// ReadRoles 查询台账和低库存需要的角色
var ReadRoles = authz.Staff

// LogDTO 台账条目
type LogDTO struct {
	ID               uint   `json:"id"`
	ProductID        uint   `json:"product_id"`
	TransactionType  string `json:"transaction_type"`
	QuantityChange   int    `json:"quantity_change"`
	PreviousQuantity int    `json:"previous_quantity"`
	NewQuantity      int    `json:"new_quantity"`
	Reason           string `json:"reason"`
	ReferenceID      *uint  `json:"reference_id,omitempty"`
	ActorID          uint   `json:"actor_id"`
	ActorRole        string `json:"actor_role"`
	CreatedAt        string `json:"created_at"`
}

// ListLogsUseCase 台账查询
type ListLogsUseCase struct {
	repo inventory.Repository
}

// NewListLogsUseCase 创建台账查询用例
func NewListLogsUseCase(repo inventory.Repository) *ListLogsUseCase {
	return &ListLogsUseCase{repo: repo}
}

// ListLogsRequest 按商品分页查询,或按订单查询全部
type ListLogsRequest struct {
	Actor     authz.Actor
	ProductID uint
	OrderID   uint
	Page      int
	PageSize  int
}

// ListLogsResponse 台账列表
type ListLogsResponse struct {
	List  []LogDTO `json:"list"`
	Total int64    `json:"total"`
}

// Execute 查询台账
func (uc *ListLogsUseCase) Execute(ctx context.Context, req ListLogsRequest) (_ *ListLogsResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "inventory.ListLogs")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authz.Require(req.Actor.Role, ReadRoles); err != nil {
		return nil, err
	}

	var (
		entries []*inventory.LogEntry
		total   int64
	)
	switch {
	case req.OrderID > 0:
		entries, err = uc.repo.ListLogsByReference(ctx, req.OrderID)
		total = int64(len(entries))
	case req.ProductID > 0:
		entries, total, err = uc.repo.ListLogs(ctx, req.ProductID, req.Page, req.PageSize)
	default:
		return nil, apperrors.ErrInvalidParams.WithField("reason", "product_id或order_id必须提供一个")
	}
	if err != nil {
		return nil, err
	}

	list := make([]LogDTO, len(entries))
	for i, e := range entries {
		list[i] = LogDTO{
			ID:               e.ID,
			ProductID:        e.ProductID,
			TransactionType:  string(e.Type),
			QuantityChange:   e.QuantityChange,
			PreviousQuantity: e.PreviousQuantity,
			NewQuantity:      e.NewQuantity,
			Reason:           e.Reason,
			ReferenceID:      e.ReferenceID,
			ActorID:          e.ActorID,
			ActorRole:        e.ActorRole,
			CreatedAt:        e.CreatedAt.Format(time.DateTime),
		}
	}
	return &ListLogsResponse{List: list, Total: total}, nil
}

// LowStockDTO 低库存商品
type LowStockDTO struct {
	ProductID     uint   `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
	MinStockLevel int    `json:"min_stock_level"`
	Shortage      int    `json:"shortage"`
}

// ListLowStockUseCase 低库存预警
type ListLowStockUseCase struct {
	productRepo product.Repository
}

// NewListLowStockUseCase 创建低库存查询用例
func NewListLowStockUseCase(productRepo product.Repository) *ListLowStockUseCase {
	return &ListLowStockUseCase{productRepo: productRepo}
}

// Execute 查询低库存的在售商品,缺口大的在前
func (uc *ListLowStockUseCase) Execute(ctx context.Context, actor authz.Actor) (_ []LowStockDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "inventory.ListLowStock")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authz.Require(actor.Role, ReadRoles); err != nil {
		return nil, err
	}

	products, err := uc.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]LowStockDTO, len(products))
	for i, p := range products {
		list[i] = LowStockDTO{
			ProductID:     p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			StockQuantity: p.StockQuantity,
			MinStockLevel: p.MinStockLevel,
			Shortage:      p.Shortage(),
		}
	}
	return list, nil
}

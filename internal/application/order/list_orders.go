package order

import (
	"context"

	"github.com/xiebiao/electromart/internal/domain/order"
	"github.com/xiebiao/electromart/pkg/authz"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// ListOrdersUseCase 订单列表
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建订单列表用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// ListOrdersRequest 列表请求
type ListOrdersRequest struct {
	Actor      authz.Actor
	CustomerID *uint  // 员工可按客户过滤;客户固定为自己
	Status     string // 可选
	Page       int
	PageSize   int
}

// ListOrdersResponse 列表响应
type ListOrdersResponse struct {
	List     []*OrderDTO `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// Execute 查询订单列表
func (uc *ListOrdersUseCase) Execute(ctx context.Context, req ListOrdersRequest) (_ *ListOrdersResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "order.List")
	defer func() { tracing.EndSpan(span, err) }()

	if err := authz.Require(req.Actor.Role, ReadRoles); err != nil {
		return nil, err
	}

	// 1. 参数默认值与范围限制
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	params := order.ListParams{CustomerID: req.CustomerID, Page: req.Page, PageSize: req.PageSize}
	if !req.Actor.Role.IsStaff() {
		self := req.Actor.ID
		params.CustomerID = &self
	}
	if req.Status != "" {
		status, ok := order.ParseStatus(req.Status)
		if !ok {
			return nil, order.ErrInvalidStatus.WithField("status", req.Status)
		}
		params.Status = &status
	}

	orders, total, err := uc.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	list := make([]*OrderDTO, len(orders))
	for i, o := range orders {
		list[i] = toOrderDTO(o)
	}
	return &ListOrdersResponse{List: list, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/electromart/internal/application/order"
	"github.com/xiebiao/electromart/internal/interface/http/dto"
	"github.com/xiebiao/electromart/internal/interface/http/middleware"
	"github.com/xiebiao/electromart/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	list         *apporder.ListOrdersUseCase
	get          *apporder.GetOrderUseCase
	updateStatus *apporder.UpdateStatusUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	list *apporder.ListOrdersUseCase,
	get *apporder.GetOrderUseCase,
	updateStatus *apporder.UpdateStatusUseCase,
) *OrderHandler {
	return &OrderHandler{list: list, get: get, updateStatus: updateStatus}
}

// ListOrders 订单列表
// @Summary      订单列表
// @Description  客户只能看到自己的订单；员工可按customer_id过滤
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query int false "客户ID(员工)"
// @Param        status query string false "状态"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var q dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.list.Execute(c.Request.Context(), apporder.ListOrdersRequest{
		Actor:      middleware.GetActor(c),
		CustomerID: q.CustomerID,
		Status:     q.Status,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetOrder 订单详情
// @Summary      订单详情
// @Description  包含订单明细和扣款流水
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.get.Execute(c.Request.Context(), apporder.GetOrderRequest{
		Actor:   middleware.GetActor(c),
		OrderID: id,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateStatus 订单状态流转
// @Summary      订单状态流转
// @Description  取消订单时回补库存；DELIVERED之后只能退货
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      200 {object} response.Response "40002状态流转非法"
// @Router       /api/v1/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.updateStatus.Execute(c.Request.Context(), apporder.UpdateStatusRequest{
		Actor:   middleware.GetActor(c),
		OrderID: id,
		Status:  req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

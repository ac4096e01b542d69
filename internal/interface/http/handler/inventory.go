package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/electromart/internal/application/inventory"
	"github.com/xiebiao/electromart/internal/interface/http/dto"
	"github.com/xiebiao/electromart/internal/interface/http/middleware"
	"github.com/xiebiao/electromart/pkg/response"
)

// InventoryHandler 库存HTTP处理器
type InventoryHandler struct {
	adjust   *appinventory.AdjustUseCase
	logs     *appinventory.ListLogsUseCase
	lowStock *appinventory.ListLowStockUseCase
}

// NewInventoryHandler 创建库存处理器
func NewInventoryHandler(
	adjust *appinventory.AdjustUseCase,
	logs *appinventory.ListLogsUseCase,
	lowStock *appinventory.ListLowStockUseCase,
) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, logs: logs, lowStock: lowStock}
}

// Adjust 人工调整库存
// @Summary      人工调整库存
// @Description  入库、出库或盘点调整，每次调整写一条台账
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AdjustInventoryRequest true "调整内容"
// @Success      200 {object} response.Response{data=inventory.StockChange}
// @Router       /api/v1/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.adjust.Execute(c.Request.Context(), appinventory.AdjustRequest{
		Actor:     middleware.GetActor(c),
		ProductID: req.ProductID,
		Delta:     req.Delta,
		Reason:    req.Reason,
		Type:      req.Type,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logs 库存台账
// @Summary      库存台账
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query int false "商品ID"
// @Param        order_id query int false "订单ID"
// @Success      200 {object} response.Response{data=appinventory.ListLogsResponse}
// @Router       /api/v1/inventory/logs [get]
func (h *InventoryHandler) Logs(c *gin.Context) {
	var q dto.InventoryLogsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.logs.Execute(c.Request.Context(), appinventory.ListLogsRequest{
		Actor:     middleware.GetActor(c),
		ProductID: q.ProductID,
		OrderID:   q.OrderID,
		Page:      q.Page,
		PageSize:  q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// LowStock 低库存商品
// @Summary      低库存商品
// @Description  库存不高于最低库存的在售商品，缺口大的在前
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appinventory.LowStockDTO}
// @Router       /api/v1/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	result, err := h.lowStock.Execute(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

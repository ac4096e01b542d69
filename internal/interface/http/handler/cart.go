package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/electromart/internal/application/cart"
	"github.com/xiebiao/electromart/internal/interface/http/dto"
	"github.com/xiebiao/electromart/internal/interface/http/middleware"
	"github.com/xiebiao/electromart/pkg/response"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	getCart    *appcart.GetCartUseCase
	addLine    *appcart.AddLineUseCase
	updateLine *appcart.UpdateLineUseCase
	removeLine *appcart.RemoveLineUseCase
	clearCart  *appcart.ClearCartUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	getCart *appcart.GetCartUseCase,
	addLine *appcart.AddLineUseCase,
	updateLine *appcart.UpdateLineUseCase,
	removeLine *appcart.RemoveLineUseCase,
	clearCart *appcart.ClearCartUseCase,
) *CartHandler {
	return &CartHandler{
		getCart:    getCart,
		addLine:    addLine,
		updateLine: updateLine,
		removeLine: removeLine,
		clearCart:  clearCart,
	}
}

// GetCart 查看购物车
// @Summary      查看购物车
// @Description  返回购物车条目、小计、税额(8%)和合计，价格为当前价格
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query int false "员工查看指定客户"
// @Success      200 {object} response.Response{data=appcart.CartDTO}
// @Router       /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	var q dto.CustomerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	actor := middleware.GetActor(c)

	result, err := h.getCart.Execute(c.Request.Context(), appcart.GetCartRequest{
		Actor:      actor,
		CustomerID: targetCustomer(actor, q.CustomerID),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddLine 加入购物车
// @Summary      加入购物车
// @Description  同一商品重复加入时合并数量；库存检查仅作提示，不预留库存
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddCartLineRequest true "商品和数量"
// @Success      200 {object} response.Response{data=appcart.LineDTO}
// @Failure      200 {object} response.Response "40001库存不足 / 40402商品不存在"
// @Router       /api/v1/cart/lines [post]
func (h *CartHandler) AddLine(c *gin.Context) {
	var req dto.AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actor := middleware.GetActor(c)

	result, err := h.addLine.Execute(c.Request.Context(), appcart.AddLineRequest{
		Actor:      actor,
		CustomerID: targetCustomer(actor, req.CustomerID),
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateLine 修改数量
// @Summary      修改购物车数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "购物车条目ID"
// @Param        request body dto.UpdateCartLineRequest true "新数量"
// @Success      200 {object} response.Response{data=appcart.LineDTO}
// @Router       /api/v1/cart/lines/{id} [put]
func (h *CartHandler) UpdateLine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.updateLine.Execute(c.Request.Context(), appcart.UpdateLineRequest{
		Actor:    middleware.GetActor(c),
		LineID:   id,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RemoveLine 删除条目
// @Summary      删除购物车条目
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "购物车条目ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/cart/lines/{id} [delete]
func (h *CartHandler) RemoveLine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	err := h.removeLine.Execute(c.Request.Context(), appcart.RemoveLineRequest{
		Actor:  middleware.GetActor(c),
		LineID: id,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ClearCart 清空购物车
// @Summary      清空购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query int false "员工操作指定客户"
// @Success      200 {object} response.Response
// @Router       /api/v1/cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	var q dto.CustomerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	actor := middleware.GetActor(c)

	removed, err := h.clearCart.Execute(c.Request.Context(), appcart.ClearCartRequest{
		Actor:      actor,
		CustomerID: targetCustomer(actor, q.CustomerID),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"removed": removed})
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/electromart/internal/application/checkout"
	"github.com/xiebiao/electromart/internal/interface/http/dto"
	"github.com/xiebiao/electromart/internal/interface/http/middleware"
	"github.com/xiebiao/electromart/pkg/response"
)

// CheckoutHandler 下单HTTP处理器
type CheckoutHandler struct {
	checkout *checkout.UseCase
}

// NewCheckoutHandler 创建下单处理器
func NewCheckoutHandler(uc *checkout.UseCase) *CheckoutHandler {
	return &CheckoutHandler{checkout: uc}
}

// Checkout 购物车下单
// @Summary      购物车下单
// @Description  把购物车原子地转换为订单：扣减库存、写台账、按支付方式扣款、清空购物车
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "支付方式和地址"
// @Success      200 {object} response.Response{data=checkout.Response}
// @Failure      200 {object} response.Response "40001库存不足(data.product_id) / 40006购物车为空 / 40007余额不足"
// @Router       /api/v1/checkout [post]
//
// 教学说明：防超卖的核心逻辑在checkout.UseCase
// 测试方法：
// 1. 创建库存为1的商品，两个客户各加购1件
// 2. 两个客户同时下单
// 3. 预期结果：一个成功，另一个返回40001且购物车保留
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actor := middleware.GetActor(c)

	result, err := h.checkout.Execute(c.Request.Context(), checkout.Request{
		Actor:           actor,
		CustomerID:      targetCustomer(actor, req.CustomerID),
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		StoreID:         req.StoreID,
		EmployeeID:      req.EmployeeID,
		ShippingCost:    req.ShippingCost,
		DiscountAmount:  req.DiscountAmount,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

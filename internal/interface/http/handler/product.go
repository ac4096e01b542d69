package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	appproduct "github.com/xiebiao/electromart/internal/application/product"
	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/internal/interface/http/dto"
	"github.com/xiebiao/electromart/internal/interface/http/middleware"
	"github.com/xiebiao/electromart/pkg/response"
)

// ProductHandler 商品HTTP处理器
type ProductHandler struct {
	update *appproduct.UpdateUseCase
}

// NewProductHandler 创建商品处理器
func NewProductHandler(update *appproduct.UpdateUseCase) *ProductHandler {
	return &ProductHandler{update: update}
}

// Update 修改商品
// @Summary      修改商品
// @Description  只允许白名单字段；库存只能通过库存调整接口修改
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.UpdateProductRequest true "要修改的字段"
// @Success      200 {object} response.Response{data=appproduct.ProductDTO}
// @Router       /api/v1/products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	// 先按字段名校验白名单(如拒绝stock_quantity)，再绑定到结构体
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		bindFailed(c, err)
		return
	}
	fields := make([]string, 0, len(raw))
	for k := range raw {
		fields = append(fields, k)
	}
	if err := product.CheckAllowed(fields); err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.update.Execute(c.Request.Context(), appproduct.UpdateRequest{
		Actor:     middleware.GetActor(c),
		ProductID: id,
		Changes: product.UpdateRequest{
			Name:          req.Name,
			Brand:         req.Brand,
			Price:         req.Price,
			CostPrice:     req.CostPrice,
			MinStockLevel: req.MinStockLevel,
			MaxStockLevel: req.MaxStockLevel,
			IsActive:      req.IsActive,
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

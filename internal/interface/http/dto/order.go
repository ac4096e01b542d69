package dto

// UpdateOrderStatusRequest 订单状态变更
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"SHIPPED"`
}

// ListOrdersQuery 订单列表查询
type ListOrdersQuery struct {
	CustomerID *uint  `form:"customer_id" binding:"omitempty,min=1"`
	Status     string `form:"status" example:"PROCESSING"`
	Page       int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

package dto

// UpdateProductRequest 商品部分更新
// 指针字段:未出现的字段不修改；stock_quantity不允许通过此接口修改
type UpdateProductRequest struct {
	Name          *string `json:"name" example:"4K Monitor"`
	Brand         *string `json:"brand" example:"Acme"`
	Price         *int64  `json:"price" example:"129900"`
	CostPrice     *int64  `json:"cost_price" example:"90000"`
	MinStockLevel *int    `json:"min_stock_level" example:"10"`
	MaxStockLevel *int    `json:"max_stock_level" example:"1000"`
	IsActive      *bool   `json:"is_active" example:"true"`
}

package dto

// AdjustInventoryRequest 人工库存调整
// delta带符号:IN为正、OUT为负、ADJUSTMENT可正可负
type AdjustInventoryRequest struct {
	ProductID uint   `json:"product_id" binding:"required" example:"101"`
	Delta     int    `json:"delta" example:"-2"`
	Type      string `json:"transaction_type" example:"ADJUSTMENT"`
	Reason    string `json:"reason" binding:"max=255" example:"cycle count"`
}

// InventoryLogsQuery 台账查询(product_id与order_id二选一)
type InventoryLogsQuery struct {
	ProductID uint `form:"product_id"`
	OrderID   uint `form:"order_id"`
	Page      int  `form:"page" binding:"omitempty,min=1"`
	PageSize  int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

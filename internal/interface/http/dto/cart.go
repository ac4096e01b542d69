package dto

// AddCartLineRequest 加入购物车
// quantity的范围校验在用例层(返回统一的数量错误码)
type AddCartLineRequest struct {
	CustomerID *uint `json:"customer_id" example:"1"` // 员工代客操作时填写，客户本人省略
	ProductID  uint  `json:"product_id" binding:"required" example:"101"`
	Quantity   int   `json:"quantity" example:"2"`
}

// UpdateCartLineRequest 修改购物车数量
type UpdateCartLineRequest struct {
	Quantity int `json:"quantity" example:"3"`
}

// CustomerQuery 员工查看/操作指定客户时使用
type CustomerQuery struct {
	CustomerID *uint `form:"customer_id" binding:"omitempty,min=1"`
}

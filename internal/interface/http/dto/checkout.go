package dto

// CheckoutRequest HTTP下单请求
// 金额单位均为分
type CheckoutRequest struct {
	CustomerID      *uint  `json:"customer_id" example:"1"` // 员工代客下单时填写
	PaymentMethod   string `json:"payment_method" binding:"required" example:"CREDIT_CARD"`
	ShippingAddress string `json:"shipping_address" binding:"max=500" example:"1 Main St, Springfield"`
	BillingAddress  string `json:"billing_address" binding:"max=500"`
	StoreID         uint   `json:"store_id" example:"1"`
	EmployeeID      *uint  `json:"employee_id"`
	ShippingCost    int64  `json:"shipping_cost" example:"500"`
	DiscountAmount  int64  `json:"discount_amount" example:"0"`
	Notes           string `json:"notes" binding:"max=1000"`
}

package dto

// ListTransactionsQuery 账户流水分页
type ListTransactionsQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

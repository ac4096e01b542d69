package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/electromart/pkg/money"
)

// Line 购物车条目
// 同一客户同一商品只有一条记录(唯一索引customer_id+product_id),重复加购时合并数量
type Line struct {
	ID         uint
	CustomerID uint
	ProductID  uint
	Quantity   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PricedLine 带当前价格的条目(用于展示和结算)
type PricedLine struct {
	Line
	SKU       string
	Name      string
	UnitPrice int64
	InStock   bool // 快照库存是否满足(提示用)
}

// LineTotal 行小计(分),不做任何取整
func (l PricedLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Summary 购物车汇总
type Summary struct {
	Lines       []PricedLine
	Subtotal    int64
	TaxAmount   int64
	TotalAmount int64
}

// Summarize 汇总金额
// 小计按行累加,税额只在最后一次性计算并四舍五入
func Summarize(lines []PricedLine, taxRate decimal.Decimal) Summary {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.LineTotal()
	}
	totals := money.Compute(subtotal, 0, 0, taxRate)
	return Summary{
		Lines:       lines,
		Subtotal:    totals.Subtotal,
		TaxAmount:   totals.TaxAmount,
		TotalAmount: totals.TotalAmount,
	}
}

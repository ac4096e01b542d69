// Package money 金额计算工具
//
// 所有金额在系统内部以int64"分"存储，计算税额等需要小数的场景使用decimal，
// 避免float64带来的精度误差（0.1+0.2!=0.3）。
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate 默认税率 8%
var DefaultTaxRate = decimal.RequireFromString("0.08")

// Totals 金额汇总（单位:分）
type Totals struct {
	Subtotal       int64 `json:"subtotal"`
	TaxAmount      int64 `json:"tax_amount"`
	ShippingCost   int64 `json:"shipping_cost"`
	DiscountAmount int64 `json:"discount_amount"`
	TotalAmount    int64 `json:"total_amount"`
}

// Tax 计算税额
// 税额只在小计上计算一次，并按四舍五入(half-up)保留到分，不逐行取整
func Tax(subtotal int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(subtotal).Mul(rate).Round(0).IntPart()
}

// Compute 计算订单金额
// total = subtotal + tax + shipping - discount
func Compute(subtotal, shipping, discount int64, rate decimal.Decimal) Totals {
	tax := Tax(subtotal, rate)
	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		ShippingCost:   shipping,
		DiscountAmount: discount,
		TotalAmount:    subtotal + tax + shipping - discount,
	}
}

// ParseRate 解析税率字符串（如"0.08"）
func ParseRate(s string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tax rate %q: %w", s, err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("tax rate %s out of range [0,1)", s)
	}
	return rate, nil
}

// Format 格式化金额(分→元)，如 10800 → "108.00"
func Format(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

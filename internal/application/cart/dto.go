package cart

import (
	"time"

	"github.com/xiebiao/electromart/internal/domain/cart"
	"github.com/xiebiao/electromart/pkg/authz"
	"github.com/xiebiao/electromart/pkg/money"
)

// 购物车用例需要的角色
// 客户只能操作自己的购物车,员工可以代客户操作(门店代客下单)
var RequiredRoles = authz.Roles(authz.RoleAdmin, authz.RoleManager, authz.RoleEmployee, authz.RoleCustomer)

// LineDTO 购物车条目
type LineDTO struct {
	ID         uint   `json:"id"`
	CustomerID uint   `json:"customer_id"`
	ProductID  uint   `json:"product_id"`
	Quantity   int    `json:"quantity"`
	UpdatedAt  string `json:"updated_at"`
}

func toLineDTO(l *cart.Line) *LineDTO {
	return &LineDTO{
		ID:         l.ID,
		CustomerID: l.CustomerID,
		ProductID:  l.ProductID,
		Quantity:   l.Quantity,
		UpdatedAt:  l.UpdatedAt.Format(time.DateTime),
	}
}

// PricedLineDTO 带价格的条目
type PricedLineDTO struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"` // 分
	LineTotal int64  `json:"line_total"` // 分
	InStock   bool   `json:"in_stock"`
}

// CartDTO 购物车视图
type CartDTO struct {
	CustomerID   uint            `json:"customer_id"`
	Lines        []PricedLineDTO `json:"lines"`
	Subtotal     int64           `json:"subtotal"`
	TaxAmount    int64           `json:"tax_amount"`
	TotalAmount  int64           `json:"total_amount"`
	TotalDisplay string          `json:"total_display"` // 元,如"108.00"
}

func toCartDTO(customerID uint, s cart.Summary) *CartDTO {
	lines := make([]PricedLineDTO, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = PricedLineDTO{
			ID:        l.ID,
			ProductID: l.ProductID,
			SKU:       l.SKU,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal(),
			InStock:   l.InStock,
		}
	}
	return &CartDTO{
		CustomerID:   customerID,
		Lines:        lines,
		Subtotal:     s.Subtotal,
		TaxAmount:    s.TaxAmount,
		TotalAmount:  s.TotalAmount,
		TotalDisplay: money.Format(s.TotalAmount),
	}
}

package order

import (
	"time"

	"github.com/xiebiao/electromart/internal/domain/banking"
	"github.com/xiebiao/electromart/internal/domain/order"
	"github.com/xiebiao/electromart/pkg/money"
)

// ItemDTO 订单明细
type ItemDTO struct {
	ProductID  uint  `json:"product_id"`
	Quantity   int   `json:"quantity"`
	UnitPrice  int64 `json:"unit_price"`
	TotalPrice int64 `json:"total_price"`
}

// TransactionDTO 订单关联的扣款流水
type TransactionDTO struct {
	TransactionNo string `json:"transaction_no"`
	AccountID     uint   `json:"account_id"`
	Amount        int64  `json:"amount"`
	BalanceAfter  int64  `json:"balance_after"`
	Description   string `json:"description"`
	CreatedAt     string `json:"created_at"`
}

// OrderDTO 订单详情
type OrderDTO struct {
	ID              uint             `json:"id"`
	OrderNumber     string           `json:"order_number"`
	CustomerID      uint             `json:"customer_id"`
	StoreID         uint             `json:"store_id"`
	EmployeeID      *uint            `json:"employee_id,omitempty"`
	Status          string           `json:"status"`
	PaymentMethod   string           `json:"payment_method"`
	Subtotal        int64            `json:"subtotal"`
	TaxAmount       int64            `json:"tax_amount"`
	ShippingCost    int64            `json:"shipping_cost"`
	DiscountAmount  int64            `json:"discount_amount"`
	TotalAmount     int64            `json:"total_amount"`
	TotalDisplay    string           `json:"total_display"`
	ShippingAddress string           `json:"shipping_address"`
	BillingAddress  string           `json:"billing_address"`
	Notes           string           `json:"notes,omitempty"`
	Items           []ItemDTO        `json:"items"`
	Transactions    []TransactionDTO `json:"transactions,omitempty"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

func toOrderDTO(o *order.Order) *OrderDTO {
	items := make([]ItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = ItemDTO{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
	}
	return &OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		StoreID:         o.StoreID,
		EmployeeID:      o.EmployeeID,
		Status:          o.Status.String(),
		PaymentMethod:   string(o.PaymentMethod),
		Subtotal:        o.Subtotal,
		TaxAmount:       o.TaxAmount,
		ShippingCost:    o.ShippingCost,
		DiscountAmount:  o.DiscountAmount,
		TotalAmount:     o.TotalAmount,
		TotalDisplay:    money.Format(o.TotalAmount),
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		Notes:           o.Notes,
		Items:           items,
		CreatedAt:       o.CreatedAt.Format(time.DateTime),
		UpdatedAt:       o.UpdatedAt.Format(time.DateTime),
	}
}

func toTransactionDTOs(txs []*banking.Transaction) []TransactionDTO {
	out := make([]TransactionDTO, len(txs))
	for i, t := range txs {
		out[i] = TransactionDTO{
			TransactionNo: t.TransactionNo,
			AccountID:     t.AccountID,
			Amount:        t.Amount,
			BalanceAfter:  t.BalanceAfter,
			Description:   t.Description,
			CreatedAt:     t.CreatedAt.Format(time.DateTime),
		}
	}
	return out
}

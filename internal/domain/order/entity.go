package order

import (
	"strings"
	"time"
)

// Status 订单状态
// 教学要点:
// 1. 使用int类型存储(节省空间,便于索引),对外以大写字符串展示
// 2. 状态值1-6,CANCELLED和RETURNED是终态
type Status int

const (
	StatusPending    Status = 1 // 待处理
	StatusProcessing Status = 2 // 处理中(已扣库存、已扣款)
	StatusShipped    Status = 3 // 已发货
	StatusDelivered  Status = 4 // 已送达
	StatusCancelled  Status = 5 // 已取消(库存回补)
	StatusReturned   Status = 6 // 已退货(库存不回补,走退货入库流程)
)

var statusNames = map[Status]string{
	StatusPending:    "PENDING",
	StatusProcessing: "PROCESSING",
	StatusShipped:    "SHIPPED",
	StatusDelivered:  "DELIVERED",
	StatusCancelled:  "CANCELLED",
	StatusReturned:   "RETURNED",
}

// String 实现Stringer接口(方便日志输出和接口返回)
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseStatus 解析状态名(大小写不敏感)
func ParseStatus(s string) (Status, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, n := range statusNames {
		if n == name {
			return status, true
		}
	}
	return 0, false
}

// transitions 合法的状态流转
//
//	PENDING    → PROCESSING, CANCELLED
//	PROCESSING → SHIPPED, CANCELLED
//	SHIPPED    → DELIVERED, CANCELLED
//	DELIVERED  → RETURNED
//	CANCELLED, RETURNED 终态
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusReturned},
	StatusCancelled:  {},
	StatusReturned:   {},
}

// CanTransition 检查from→to是否合法
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal 是否为终态
func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// RestoresStock 进入该状态时是否需要回补库存
func (s Status) RestoresStock() bool {
	return s == StatusCancelled
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. Order是聚合根,Item是子实体
// 2. 金额字段在创建后不可变(防止改价)
// 3. TotalAmount = Subtotal + TaxAmount + ShippingCost - DiscountAmount
type Order struct {
	ID              uint
	OrderNumber     string // 订单号(业务主键,全局唯一)
	CustomerID      uint
	StoreID         uint
	EmployeeID      *uint // 门店代客下单时的员工
	Status          Status
	PaymentMethod   PaymentMethod
	Subtotal        int64
	TaxAmount       int64
	ShippingCost    int64
	DiscountAmount  int64
	TotalAmount     int64
	ShippingAddress string
	BillingAddress  string
	Notes           string
	Items           []Item
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Item 订单明细
// UnitPrice是下单时的价格快照,TotalPrice = Quantity × UnitPrice
type Item struct {
	ID         uint
	OrderID    uint
	ProductID  uint
	Quantity   int
	UnitPrice  int64
	TotalPrice int64
}

// NewItem 创建订单明细
func NewItem(productID uint, quantity int, unitPrice int64) Item {
	return Item{
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice * int64(quantity),
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
func (o *Order) CanTransitionTo(target Status) bool {
	return CanTransition(o.Status, target)
}

// TransitionTo 状态转换
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return InvalidTransition(o.Status, target)
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// ItemsSubtotal 明细金额之和
func (o *Order) ItemsSubtotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.TotalPrice
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定客户
func (o *Order) IsOwnedBy(customerID uint) bool {
	return o.CustomerID == customerID
}

// ProductIDs 订单涉及的商品
func (o *Order) ProductIDs() []uint {
	ids := make([]uint, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

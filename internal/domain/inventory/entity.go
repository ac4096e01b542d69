package inventory

import (
	"strings"
	"time"
)

// TransactionType 库存变更类型
type TransactionType string

const (
	TypeIn         TransactionType = "IN"         // 入库:采购、退货、取消订单回补
	TypeOut        TransactionType = "OUT"        // 出库:销售
	TypeAdjustment TransactionType = "ADJUSTMENT" // 盘点调整,可正可负
)

// ParseTransactionType 解析变更类型(大小写不敏感)
func ParseTransactionType(s string) (TransactionType, bool) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TypeIn, TypeOut, TypeAdjustment:
		return t, true
	default:
		return "", false
	}
}

// 台账原因
const (
	ReasonSale           = "sale"
	ReasonOrderCancelled = "order cancelled"
)

// LogEntry 库存台账条目(只追加,不修改)
// 每次库存变更恰好对应一条记录,PreviousQuantity+QuantityChange=NewQuantity
type LogEntry struct {
	ID               uint
	ProductID        uint
	Type             TransactionType
	QuantityChange   int // 带符号
	PreviousQuantity int
	NewQuantity      int
	Reason           string
	ReferenceID      *uint // 关联订单ID
	ActorID          uint
	ActorRole        string
	CreatedAt        time.Time
}

// StockLevel 条件更新后的库存状态
type StockLevel struct {
	ProductID     uint
	Previous      int
	New           int
	MinStockLevel int
}

// StockChange AdjustStock的结果
type StockChange struct {
	ProductID uint `json:"product_id"`
	Previous  int  `json:"previous_quantity"`
	New       int  `json:"new_quantity"`
	LowStock  bool `json:"low_stock"`
}

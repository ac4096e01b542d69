package product

import (
	"time"
)

const (
	DefaultMinStockLevel = 10
	DefaultMaxStockLevel = 1000
)

// Product 商品实体(聚合根)
// DDD设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. SKU作为业务唯一标识(数据库层保证唯一性)
// 3. StockQuantity只能通过库存台账(inventory.Ledger)修改,本实体不提供修改库存的方法
// 4. MaxStockLevel<=0表示不限制上限
type Product struct {
	ID            uint
	SKU           string
	Name          string
	Brand         string
	Price         int64 // 售价(分)
	CostPrice     int64 // 成本价(分)
	StockQuantity int
	MinStockLevel int // 低于等于该值视为低库存
	MaxStockLevel int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProduct 创建新商品(工厂方法)
func NewProduct(sku, name, brand string, price, costPrice int64) *Product {
	now := time.Now()
	return &Product{
		SKU:           sku,
		Name:          name,
		Brand:         brand,
		Price:         price,
		CostPrice:     costPrice,
		MinStockLevel: DefaultMinStockLevel,
		MaxStockLevel: DefaultMaxStockLevel,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsLowStock 是否低库存
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// Shortage 距离最低库存的缺口(用于低库存排序)
func (p *Product) Shortage() int {
	return p.MinStockLevel - p.StockQuantity
}

// HasStock 快照库存是否足够(仅作提示,权威判断在库存台账的条件更新)
func (p *Product) HasStock(quantity int) bool {
	return p.StockQuantity >= quantity
}

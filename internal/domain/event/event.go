// Package event 领域事件
//
// 事件只在事务提交后发布,发布失败不影响已提交的业务结果(尽力而为)。
package event

import (
	"context"
	"sync"
	"time"
)

// 事件类型(同时作为RabbitMQ routing key)
const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
	TypeInventoryAdjusted  = "inventory.adjusted"
	TypeInventoryLowStock  = "inventory.low_stock"
)

// Event 领域事件
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// New 创建事件
func New(eventType string, payload interface{}) Event {
	return Event{Type: eventType, OccurredAt: time.Now(), Payload: payload}
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// OrderPlaced 下单成功
type OrderPlaced struct {
	OrderID       uint   `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	CustomerID    uint   `json:"customer_id"`
	TotalAmount   int64  `json:"total_amount"`
	PaymentMethod string `json:"payment_method"`
}

// OrderStatusChanged 订单状态变化
type OrderStatusChanged struct {
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
	From        string `json:"from"`
	To          string `json:"to"`
	ActorID     uint   `json:"actor_id"`
}

// InventoryAdjusted 人工库存调整
type InventoryAdjusted struct {
	ProductID uint   `json:"product_id"`
	Type      string `json:"type"`
	Delta     int    `json:"delta"`
	Previous  int    `json:"previous_quantity"`
	New       int    `json:"new_quantity"`
	Reason    string `json:"reason"`
	ActorID   uint   `json:"actor_id"`
}

// LowStock 低库存预警
type LowStock struct {
	ProductID     uint `json:"product_id"`
	StockQuantity int  `json:"stock_quantity"`
}

// NopPublisher 不发布任何事件(未启用消息队列时使用)
type NopPublisher struct{}

// Publish 空实现
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Recorder 记录发布的事件(测试使用),并发安全
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish 记录事件
func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// OfType 过滤指定类型
func (r *Recorder) OfType(eventType string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/electromart/internal/domain/order"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 教学要点:
// 1. Order和OrderItem是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. 事务通过context传递
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单
// 教学要点:
// 1. GORM会自动保存关联的Items(通过foreignKey)
// 2. 必须在事务中调用(通过getDB从context获取事务DB)
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	// 1. 领域实体 → GORM模型
	model := toOrderModel(o)

	// 2. 插入数据库(包含订单明细)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			// 订单号冲突,交给事务整体重试
			return apperrors.ErrConcurrencyConflict.WithErr(err)
		}
		return apperrors.Persistence(err, "创建订单失败")
	}

	// 3. 回填自增ID
	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	return nil
}

// FindByID 根据ID查找订单
// Preload("Items")会执行:
// 1. SELECT * FROM orders WHERE id = ?
// 2. SELECT * FROM order_items WHERE order_id IN (?)
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := r.getDB(ctx).Preload("Items", orderItemsByID).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound.WithField("order_id", id)
		}
		return nil, apperrors.Persistence(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// FindByOrderNumber 根据订单号查找订单
func (r *orderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var model OrderModel
	err := r.getDB(ctx).Preload("Items", orderItemsByID).Where("order_number = ?", orderNumber).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound.WithField("order_number", orderNumber)
		}
		return nil, apperrors.Persistence(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// CompareAndSetStatus 条件更新状态
// 教学要点:
// 1. WHERE status = from 是乐观并发控制,两个请求同时取消同一订单只有一个成功
// 2. 返回false时调用方重新读取订单,给出准确的InvalidStateTransition
func (r *orderRepository) CompareAndSetStatus(ctx context.Context, id uint, from, to order.Status) (bool, error) {
	result := r.getDB(ctx).Model(&OrderModel{}).
		Where("id = ? AND status = ?", id, int(from)).
		Updates(map[string]interface{}{
			"status":     int(to),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, apperrors.Persistence(result.Error, "更新订单状态失败")
	}
	return result.RowsAffected == 1, nil
}

// List 分页查询订单
func (r *orderRepository) List(ctx context.Context, params order.ListParams) ([]*order.Order, int64, error) {
	page, pageSize := normalizePage(params.Page, params.PageSize)

	query := r.getDB(ctx).Model(&OrderModel{})
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", int(*params.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Persistence(err, "查询订单总数失败")
	}

	var models []OrderModel
	err := query.Preload("Items", orderItemsByID).
		Order("id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Persistence(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, total, nil
}

func orderItemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
	}

	return &OrderModel{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		StoreID:         o.StoreID,
		EmployeeID:      o.EmployeeID,
		Status:          int(o.Status),
		PaymentMethod:   string(o.PaymentMethod),
		Subtotal:        o.Subtotal,
		TaxAmount:       o.TaxAmount,
		ShippingCost:    o.ShippingCost,
		DiscountAmount:  o.DiscountAmount,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		Notes:           o.Notes,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderEntity(model *OrderModel) *order.Order {
	items := make([]order.Item, len(model.Items))
	for i, m := range model.Items {
		items[i] = order.Item{
			ID:         m.ID,
			OrderID:    m.OrderID,
			ProductID:  m.ProductID,
			Quantity:   m.Quantity,
			UnitPrice:  m.UnitPrice,
			TotalPrice: m.TotalPrice,
		}
	}

	return &order.Order{
		ID:              model.ID,
		OrderNumber:     model.OrderNumber,
		CustomerID:      model.CustomerID,
		StoreID:         model.StoreID,
		EmployeeID:      model.EmployeeID,
		Status:          order.Status(model.Status),
		PaymentMethod:   order.PaymentMethod(model.PaymentMethod),
		Subtotal:        model.Subtotal,
		TaxAmount:       model.TaxAmount,
		ShippingCost:    model.ShippingCost,
		DiscountAmount:  model.DiscountAmount,
		TotalAmount:     model.TotalAmount,
		ShippingAddress: model.ShippingAddress,
		BillingAddress:  model.BillingAddress,
		Notes:           model.Notes,
		Items:           items,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}
